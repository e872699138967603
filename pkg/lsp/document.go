package lsp

import (
	"context"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/sourcegraph/jsonrpc2"
)

func (h *Handler) handleTextDocumentDidOpen(_ context.Context, req *jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}
	h.workspace.OpenDocument(params.TextDocument)
	return nil
}

func (h *Handler) handleTextDocumentDidClose(_ context.Context, req *jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}
	h.workspace.CloseDocument(params.TextDocument.URI)
	return nil
}

// DidChangeActiveEditorParams is sent by the client whenever editor focus
// moves. A null URI means no text editor has focus.
type DidChangeActiveEditorParams struct {
	URI *protocol.DocumentURI `json:"uri"`
}

func (h *Handler) handleDidChangeActiveEditor(_ context.Context, req *jsonrpc2.Request) error {
	var params DidChangeActiveEditorParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}
	if params.URI != nil && *params.URI == "" {
		params.URI = nil
	}
	h.workspace.SetActiveDocument(params.URI)
	return nil
}
