package host_test

import (
	"testing"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainURI = protocol.DocumentURI("file:///src/main.go")

func TestWorkspaceDiagnostics(t *testing.T) {
	w := host.NewWorkspace()
	var changed [][]protocol.DocumentURI
	unsubscribe := w.OnDidChangeDiagnostics(func(uris []protocol.DocumentURI) {
		changed = append(changed, uris)
	})

	assert.Empty(t, w.Diagnostics(mainURI))

	ds := []protocol.Diagnostic{{Severity: protocol.DiagnosticSeverityError, Message: "boom"}}
	w.SetDiagnostics(mainURI, ds)
	got := w.Diagnostics(mainURI)
	require.Len(t, got, 1)
	assert.Equal(t, "boom", got[0].Message)

	// Callers get a copy.
	got[0].Message = "changed"
	assert.Equal(t, "boom", w.Diagnostics(mainURI)[0].Message)

	w.SetDiagnostics(mainURI, nil)
	assert.Empty(t, w.Diagnostics(mainURI))
	assert.Equal(t, [][]protocol.DocumentURI{{mainURI}, {mainURI}}, changed)

	unsubscribe()
	w.SetDiagnostics(mainURI, ds)
	assert.Len(t, changed, 2)
}

func TestWorkspaceDiagnosticsMatchEncodedPaths(t *testing.T) {
	w := host.NewWorkspace()
	ds := []protocol.Diagnostic{{Severity: protocol.DiagnosticSeverityError, Message: "boom"}}

	w.SetDiagnostics("file:///src/my file.go", ds)
	assert.Len(t, w.Diagnostics("file:///src/my%20file.go"), 1)

	w.SetDiagnostics("file:///src/my%20file.go", nil)
	assert.Empty(t, w.Diagnostics("file:///src/my file.go"))

	w.SetDiagnostics("untitled:Untitled-1", ds)
	assert.Len(t, w.Diagnostics("untitled:Untitled-1"), 1)
	assert.Empty(t, w.Diagnostics("untitled:Untitled-2"))
}

func TestWorkspaceActiveDocument(t *testing.T) {
	w := host.NewWorkspace()
	var events []*protocol.DocumentURI
	w.OnDidChangeActiveEditor(func(uri *protocol.DocumentURI) {
		events = append(events, uri)
	})

	_, ok := w.ActiveDocument()
	assert.False(t, ok)

	uri := mainURI
	w.SetActiveDocument(&uri)
	active, ok := w.ActiveDocument()
	require.True(t, ok)
	assert.Equal(t, mainURI, active)

	w.SetActiveDocument(nil)
	_, ok = w.ActiveDocument()
	assert.False(t, ok)

	require.Len(t, events, 2)
	require.NotNil(t, events[0])
	assert.Equal(t, mainURI, *events[0])
	assert.Nil(t, events[1])
}

func TestWorkspaceOpenClose(t *testing.T) {
	w := host.NewWorkspace()
	var opened []protocol.DocumentURI
	w.OnDidOpenTextDocument(func(doc protocol.TextDocumentItem) {
		opened = append(opened, doc.URI)
	})

	w.OpenDocument(protocol.TextDocumentItem{URI: mainURI, Text: "package main"})
	doc, ok := w.Document(mainURI)
	require.True(t, ok)
	assert.Equal(t, "package main", doc.Text)
	assert.Equal(t, []protocol.DocumentURI{mainURI}, opened)

	w.CloseDocument(mainURI)
	_, ok = w.Document(mainURI)
	assert.False(t, ok)
}

func TestListenersCalledInRegistrationOrder(t *testing.T) {
	w := host.NewWorkspace()
	var order []int
	for i := range 3 {
		w.OnDidChangeDiagnostics(func([]protocol.DocumentURI) {
			order = append(order, i)
		})
	}
	w.SetDiagnostics(mainURI, nil)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	w := host.NewWorkspace()
	a := w.OnDidChangeDiagnostics(func([]protocol.DocumentURI) {})
	b := w.OnDidOpenTextDocument(func(protocol.TextDocumentItem) {})
	assert.Equal(t, 2, w.ListenerCount())

	a()
	a()
	assert.Equal(t, 1, w.ListenerCount())
	b()
	assert.Equal(t, 0, w.ListenerCount())
}
