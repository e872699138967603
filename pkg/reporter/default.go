package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/mood"
)

// Default prints a table per file followed by a problem count.
type Default struct {
	Out io.Writer
}

func (d *Default) ReportDiagnostics(ctx context.Context, files []protocol.PublishDiagnosticsParams) mood.Counts {
	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	writer := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	for _, f := range files {
		if len(f.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintln(out, string(f.URI))
		for _, diag := range f.Diagnostics {
			fmt.Fprintf(writer, "\t%d:%d\t%s\t\t%s\t%s\n", diag.Range.Start.Line, diag.Range.Start.Character, strings.ToLower(diag.Severity.String()), diag.Message, diag.Source)
		}
		writer.Flush()
		fmt.Fprintln(out)
	}
	total := totals(files)
	fmt.Fprintf(out, "%d problems (%d errors, %d warnings)\n\n", total.Errors+total.Warnings, total.Errors, total.Warnings)
	return total
}
