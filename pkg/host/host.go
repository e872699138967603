package host

import (
	"github.com/a-h/templ/lsp/protocol"
)

type DiagnosticsProvider interface {
	Diagnostics(uri protocol.DocumentURI) []protocol.Diagnostic
	OnDidChangeDiagnostics(fn func(uris []protocol.DocumentURI)) (unsubscribe func())
}

// ActiveDocumentProvider tracks the document shown in the focused editor.
// The change callback receives nil when no editor is focused.
type ActiveDocumentProvider interface {
	ActiveDocument() (protocol.DocumentURI, bool)
	OnDidChangeActiveEditor(fn func(uri *protocol.DocumentURI)) (unsubscribe func())
}

type DocumentEvents interface {
	OnDidOpenTextDocument(fn func(doc protocol.TextDocumentItem)) (unsubscribe func())
}

type Host interface {
	DiagnosticsProvider
	ActiveDocumentProvider
	DocumentEvents
}
