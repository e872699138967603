package lsp

import (
	"context"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/sourcegraph/jsonrpc2"
)

// handlePublishDiagnostics accepts the diagnostics the client holds for a
// document. The client forwards them on every change, replacing whatever was
// recorded before.
func (h *Handler) handlePublishDiagnostics(_ context.Context, req *jsonrpc2.Request) error {
	var params protocol.PublishDiagnosticsParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}
	h.workspace.SetDiagnostics(params.URI, params.Diagnostics)
	return nil
}
