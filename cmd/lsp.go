package cmd

import (
	"log/slog"
	"os"

	"github.com/lavigneer/sillycat/pkg/lsp"
	"github.com/spf13/cobra"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Serve the panel to an editor over stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		debugFlag, _ := cmd.Flags().GetBool("verbose")
		assetsDir, _ := cmd.Flags().GetString("assets")
		logLevel := slog.LevelInfo
		if debugFlag {
			logLevel = slog.LevelDebug
		}

		// Set slog to log to stderr instead of stdout since we are using stdio for the server
		logHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
		slog.SetDefault(slog.New(logHandler))
		logger := slog.NewLogLogger(logHandler, slog.LevelDebug)

		slog.Info("Setting up sillycat lsp")
		handler := lsp.NewHandler(lsp.Options{AssetsDir: assetsDir})

		return lsp.Run(cmd.Context(), handler, lsp.Stdio(), logger)
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
	lspCmd.Flags().BoolP("verbose", "v", false, "Sets logging to verbose")
	lspCmd.Flags().String("assets", "", "Directory holding cat0.png..cat3.png and main.css")
}
