package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/mood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func files() []protocol.PublishDiagnosticsParams {
	return []protocol.PublishDiagnosticsParams{
		{
			URI: "file:///src/main.go",
			Diagnostics: []protocol.Diagnostic{
				{
					Severity: protocol.DiagnosticSeverityError,
					Message:  "undefined: foo",
					Source:   "compiler",
					Range:    protocol.Range{Start: protocol.Position{Line: 3, Character: 7}},
				},
				{
					Severity: protocol.DiagnosticSeverityWarning,
					Message:  "unused variable",
					Source:   "vet",
					Range:    protocol.Range{Start: protocol.Position{Line: 9, Character: 1}},
				},
			},
		},
		{URI: "file:///src/clean.go"},
		{
			URI: "file:///src/other.go",
			Diagnostics: []protocol.Diagnostic{
				{Severity: protocol.DiagnosticSeverityHint, Message: "could be simpler"},
				{Severity: protocol.DiagnosticSeverityError, Message: "syntax error"},
			},
		},
	}
}

func TestDefaultReporter(t *testing.T) {
	var out bytes.Buffer
	rep := &Default{Out: &out}

	total := rep.ReportDiagnostics(context.Background(), files())
	assert.Equal(t, mood.Counts{Errors: 2, Warnings: 1}, total)

	text := out.String()
	assert.Contains(t, text, "file:///src/main.go")
	assert.Contains(t, text, "undefined: foo")
	assert.Contains(t, text, "3:7")
	assert.Contains(t, text, "error")
	assert.NotContains(t, text, "file:///src/clean.go")
	assert.True(t, strings.HasSuffix(text, "3 problems (2 errors, 1 warnings)\n\n"))
}

func TestDefaultReporterEmpty(t *testing.T) {
	var out bytes.Buffer
	total := (&Default{Out: &out}).ReportDiagnostics(context.Background(), nil)
	assert.Equal(t, mood.Counts{}, total)
	assert.Equal(t, "0 problems (0 errors, 0 warnings)\n\n", out.String())
}

func TestLogReporter(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rep := &Log{Logger: logger}

	total := rep.ReportDiagnostics(context.Background(), files())
	assert.Equal(t, mood.Counts{Errors: 2, Warnings: 1}, total)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)

	levels := make([]string, 0, len(lines))
	for _, l := range lines {
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &record))
		levels = append(levels, record["level"].(string))
	}
	assert.Equal(t, []string{"ERROR", "WARN", "INFO", "ERROR", "INFO"}, levels)
}

func TestDiagnosticSeverityToLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, diagnosticSeverityToLogLevel(protocol.DiagnosticSeverityError))
	assert.Equal(t, slog.LevelWarn, diagnosticSeverityToLogLevel(protocol.DiagnosticSeverityWarning))
	assert.Equal(t, slog.LevelInfo, diagnosticSeverityToLogLevel(protocol.DiagnosticSeverityInformation))
	assert.Equal(t, slog.LevelInfo, diagnosticSeverityToLogLevel(protocol.DiagnosticSeverityHint))
}
