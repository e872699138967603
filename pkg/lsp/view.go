package lsp

import (
	"context"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/mood"
	"github.com/sourcegraph/jsonrpc2"
)

// PanelParams carries a complete panel document for the client's webview.
type PanelParams struct {
	HTML string `json:"html"`
}

type DecorationsParams struct {
	URI   protocol.DocumentURI `json:"uri"`
	Lines []LineDecoration     `json:"lines"`
}

type LineDecoration struct {
	Line     uint32   `json:"line"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Messages []string `json:"messages"`
}

// notifyView draws on the client by sending notifications over the connection.
type notifyView struct {
	conn *jsonrpc2.Conn
}

func (v *notifyView) SetHTML(ctx context.Context, html string) error {
	return v.conn.Notify(ctx, MethodPanel, PanelParams{HTML: html})
}

func (v *notifyView) SetDecorations(ctx context.Context, uri protocol.DocumentURI, lines []mood.LineGroup) error {
	return v.conn.Notify(ctx, MethodDecorations, DecorationsParams{
		URI:   uri,
		Lines: lineDecorations(lines),
	})
}

func lineDecorations(groups []mood.LineGroup) []LineDecoration {
	lines := make([]LineDecoration, 0, len(groups))
	for _, g := range groups {
		counts := g.Counts()
		messages := make([]string, 0, len(g.Diagnostics))
		for _, d := range g.Diagnostics {
			messages = append(messages, d.Message)
		}
		lines = append(lines, LineDecoration{
			Line:     g.Line,
			Errors:   counts.Errors,
			Warnings: counts.Warnings,
			Messages: messages,
		})
	}
	return lines
}
