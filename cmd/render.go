package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/config"
	"github.com/lavigneer/sillycat/pkg/mood"
	"github.com/lavigneer/sillycat/pkg/panel"
	"github.com/lavigneer/sillycat/pkg/reporter"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the panel for a diagnostics file",
	Long: `render reads diagnostics in the shape of textDocument/publishDiagnostics
params (a single object or an array of them), prints a summary and writes
the panel HTML for the combined counts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		diagnosticsPath, _ := cmd.Flags().GetString("diagnostics")
		outPath, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")

		cwd, _ := os.Getwd()
		workspaceRoot, err := config.FindWorkspaceRoot(cwd)
		if err != nil {
			workspaceRoot = ""
		}
		cfg, err := config.NewWithDefaults(workspaceRoot)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("warnings") {
			cfg.Error.UseWarnings, _ = cmd.Flags().GetBool("warnings")
		}
		if assetsDir, _ := cmd.Flags().GetString("assets"); assetsDir != "" {
			cfg.AssetsDir = assetsDir
		}

		files, err := readDiagnostics(cmd.InOrStdin(), diagnosticsPath)
		if err != nil {
			return err
		}

		reportOut := cmd.OutOrStdout()
		if outPath == "" {
			reportOut = cmd.ErrOrStderr()
		}
		var rep reporter.Reporter
		switch format {
		case "text":
			rep = &reporter.Default{Out: reportOut}
		case "log":
			rep = &reporter.Log{Logger: slog.New(slog.NewJSONHandler(reportOut, nil))}
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		counts := rep.ReportDiagnostics(cmd.Context(), files)

		bucket := mood.SelectBucket(counts.Errors, counts.Warnings, cfg.Error.UseWarnings)
		html, err := panel.Render(panel.DirAssets{Dir: cfg.ResolveAssetsDir()}, bucket, counts, cfg.Error.UseWarnings)
		if err != nil {
			return err
		}
		if outPath == "" {
			_, err = io.WriteString(cmd.OutOrStdout(), html)
			return err
		}
		return os.WriteFile(outPath, []byte(html), 0o644)
	},
}

// readDiagnostics decodes one PublishDiagnosticsParams or a list of them.
// A path of "-" or "" reads stdin.
func readDiagnostics(stdin io.Reader, path string) ([]protocol.PublishDiagnosticsParams, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var files []protocol.PublishDiagnosticsParams
		if err := json.Unmarshal(data, &files); err != nil {
			return nil, fmt.Errorf("decoding diagnostics: %w", err)
		}
		return files, nil
	}
	var file protocol.PublishDiagnosticsParams
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding diagnostics: %w", err)
	}
	return []protocol.PublishDiagnosticsParams{file}, nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("diagnostics", "d", "-", "Diagnostics JSON file, - for stdin")
	renderCmd.Flags().StringP("out", "o", "", "Write the panel HTML here instead of stdout")
	renderCmd.Flags().Bool("warnings", config.DefaultUseWarnings, "Blend warnings into the mood and show the warnings line")
	renderCmd.Flags().String("assets", "", "Directory holding cat0.png..cat3.png and main.css")
	renderCmd.Flags().String("format", "text", "Summary format: text or log")
}
