package reporter

import (
	"context"
	"log/slog"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/mood"
)

// Reporter summarizes diagnostics for a set of files and returns the totals.
type Reporter interface {
	ReportDiagnostics(ctx context.Context, files []protocol.PublishDiagnosticsParams) mood.Counts
}

func totals(files []protocol.PublishDiagnosticsParams) mood.Counts {
	total := mood.Counts{}
	for _, f := range files {
		c := mood.Aggregate(f.Diagnostics)
		total.Errors += c.Errors
		total.Warnings += c.Warnings
	}
	return total
}

func diagnosticSeverityToLogLevel(s protocol.DiagnosticSeverity) slog.Level {
	switch s {
	case protocol.DiagnosticSeverityInformation:
		return slog.LevelInfo
	case protocol.DiagnosticSeverityWarning:
		return slog.LevelWarn
	case protocol.DiagnosticSeverityError:
		return slog.LevelError
	case protocol.DiagnosticSeverityHint:
		return slog.LevelInfo
	}
	return slog.LevelInfo
}

// Log writes every diagnostic as a structured log record.
type Log struct {
	Logger *slog.Logger
}

func (l *Log) ReportDiagnostics(ctx context.Context, files []protocol.PublishDiagnosticsParams) mood.Counts {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, f := range files {
		for _, d := range f.Diagnostics {
			logger.Log(ctx, diagnosticSeverityToLogLevel(d.Severity), d.Message,
				"uri", f.URI,
				"line", d.Range.Start.Line,
				"character", d.Range.Start.Character,
				"source", d.Source,
			)
		}
	}
	total := totals(files)
	logger.InfoContext(ctx, "Diagnostics summary", "errors", total.Errors, "warnings", total.Warnings)
	return total
}
