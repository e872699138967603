package host

import (
	"slices"
	"sync"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/util"
)

// Workspace is an in-memory Host fed by the editor connection. Listeners are
// called synchronously on the goroutine that mutates the workspace.
type Workspace struct {
	mu            sync.Mutex
	textDocuments map[protocol.DocumentURI]protocol.TextDocumentItem
	diagnostics   map[string][]protocol.Diagnostic
	active        *protocol.DocumentURI

	diagnosticListeners listeners[[]protocol.DocumentURI]
	activeListeners     listeners[*protocol.DocumentURI]
	openListeners       listeners[protocol.TextDocumentItem]
}

var _ Host = (*Workspace)(nil)

func NewWorkspace() *Workspace {
	return &Workspace{
		textDocuments: make(map[protocol.DocumentURI]protocol.TextDocumentItem),
		diagnostics:   make(map[string][]protocol.Diagnostic),
	}
}

// diagnosticsKey keys file documents by path so that differently encoded
// URIs of the same file share one diagnostic set.
func diagnosticsKey(uri protocol.DocumentURI) string {
	if path := util.Filename(uri); path != "" {
		return path
	}
	return string(uri)
}

func (w *Workspace) Diagnostics(uri protocol.DocumentURI) []protocol.Diagnostic {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.diagnostics[diagnosticsKey(uri)])
}

func (w *Workspace) SetDiagnostics(uri protocol.DocumentURI, diagnostics []protocol.Diagnostic) {
	key := diagnosticsKey(uri)
	w.mu.Lock()
	if len(diagnostics) == 0 {
		delete(w.diagnostics, key)
	} else {
		w.diagnostics[key] = slices.Clone(diagnostics)
	}
	w.mu.Unlock()
	w.diagnosticListeners.emit([]protocol.DocumentURI{uri})
}

func (w *Workspace) OnDidChangeDiagnostics(fn func([]protocol.DocumentURI)) func() {
	return w.diagnosticListeners.add(fn)
}

func (w *Workspace) ActiveDocument() (protocol.DocumentURI, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == nil {
		return "", false
	}
	return *w.active, true
}

// SetActiveDocument records the focused document, nil meaning no editor has
// focus, and notifies listeners.
func (w *Workspace) SetActiveDocument(uri *protocol.DocumentURI) {
	w.mu.Lock()
	if uri == nil {
		w.active = nil
	} else {
		active := *uri
		w.active = &active
	}
	w.mu.Unlock()
	w.activeListeners.emit(uri)
}

func (w *Workspace) OnDidChangeActiveEditor(fn func(*protocol.DocumentURI)) func() {
	return w.activeListeners.add(fn)
}

func (w *Workspace) OpenDocument(doc protocol.TextDocumentItem) {
	w.mu.Lock()
	w.textDocuments[doc.URI] = doc
	w.mu.Unlock()
	w.openListeners.emit(doc)
}

// CloseDocument forgets the document. Diagnostics are owned by the editor
// and are left alone.
func (w *Workspace) CloseDocument(uri protocol.DocumentURI) {
	w.mu.Lock()
	delete(w.textDocuments, uri)
	w.mu.Unlock()
}

func (w *Workspace) Document(uri protocol.DocumentURI) (protocol.TextDocumentItem, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc, ok := w.textDocuments[uri]
	return doc, ok
}

func (w *Workspace) OnDidOpenTextDocument(fn func(protocol.TextDocumentItem)) func() {
	return w.openListeners.add(fn)
}

type listeners[T any] struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(T)
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners[T]) emit(v T) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

func (w *Workspace) ListenerCount() int {
	return w.diagnosticListeners.len() + w.activeListeners.len() + w.openListeners.len()
}

func (l *listeners[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
