package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/host"
	"github.com/lavigneer/sillycat/pkg/mood"
	"github.com/lavigneer/sillycat/pkg/panel"
	"github.com/lavigneer/sillycat/pkg/util"
)

const DefaultRefreshInterval = time.Second

// View is the surface the controller draws on. SetHTML replaces the whole
// panel document. SetDecorations replaces the per-line annotations of uri;
// an empty slice clears them.
type View interface {
	SetHTML(ctx context.Context, html string) error
	SetDecorations(ctx context.Context, uri protocol.DocumentURI, lines []mood.LineGroup) error
}

type State struct {
	LensEnabled bool
}

type Options struct {
	UseWarnings     bool
	RefreshInterval time.Duration
}

// Controller wires host events to the panel and decorations.
type Controller struct {
	mu          sync.Mutex
	host        host.Host
	view        View
	renderer    *panel.Renderer
	state       State
	useWarnings bool
	interval    time.Duration
	unsubscribe []func()
}

func New(h host.Host, view View, renderer *panel.Renderer, opts Options) *Controller {
	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Controller{
		host:        h,
		view:        view,
		renderer:    renderer,
		state:       State{LensEnabled: true},
		useWarnings: opts.UseWarnings,
		interval:    interval,
	}
}

// Subscribe registers the controller with the host events. Close undoes it.
func (c *Controller) Subscribe(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubscribe = append(c.unsubscribe,
		c.host.OnDidChangeDiagnostics(func(uris []protocol.DocumentURI) {
			c.onDidChangeDiagnostics(ctx, uris)
		}),
		c.host.OnDidOpenTextDocument(func(doc protocol.TextDocumentItem) {
			c.refresh(ctx, doc.URI)
		}),
		c.host.OnDidChangeActiveEditor(func(uri *protocol.DocumentURI) {
			if uri == nil {
				return
			}
			c.refresh(ctx, *uri)
		}),
	)
}

// Close drops every host subscription.
func (c *Controller) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	for _, fn := range unsubscribe {
		fn()
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Enable(ctx context.Context) error {
	return c.setLens(ctx, true)
}

func (c *Controller) Disable(ctx context.Context) error {
	return c.setLens(ctx, false)
}

func (c *Controller) setLens(ctx context.Context, enabled bool) error {
	c.mu.Lock()
	c.state.LensEnabled = enabled
	c.mu.Unlock()
	slog.Debug("Lens toggled", "enabled", enabled)

	uri, ok := c.host.ActiveDocument()
	if !ok {
		return nil
	}
	return c.RefreshDecorations(ctx, uri)
}

// SetUseWarnings switches warning blending and the warnings line.
func (c *Controller) SetUseWarnings(useWarnings bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.useWarnings = useWarnings
}

func (c *Controller) UseWarnings() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.useWarnings
}

// Counts returns the severity counts of the active document, zero when there is none.
func (c *Controller) Counts() mood.Counts {
	uri, ok := c.host.ActiveDocument()
	if !ok {
		return mood.Counts{}
	}
	return mood.Aggregate(c.host.Diagnostics(uri))
}

func (c *Controller) onDidChangeDiagnostics(ctx context.Context, uris []protocol.DocumentURI) {
	active, ok := c.host.ActiveDocument()
	if !ok {
		return
	}
	for _, uri := range uris {
		if util.SameFile(uri, active) {
			c.refresh(ctx, uri)
			return
		}
	}
}

func (c *Controller) refresh(ctx context.Context, uri protocol.DocumentURI) {
	if err := c.RefreshDecorations(ctx, uri); err != nil {
		slog.Error("Failed to refresh decorations", "uri", uri, "error", err)
	}
	if err := c.RefreshPanel(ctx); err != nil {
		slog.Error("Failed to refresh panel", "error", err)
	}
}

// RefreshDecorations publishes the per-line diagnostics of uri. Non-file
// documents are skipped, as is everything while no editor is active. A
// disabled lens publishes an empty set.
func (c *Controller) RefreshDecorations(ctx context.Context, uri protocol.DocumentURI) error {
	if uri == "" || !util.IsFileURI(uri) {
		return nil
	}
	if _, ok := c.host.ActiveDocument(); !ok {
		return nil
	}

	lines := []mood.LineGroup{}
	if c.State().LensEnabled {
		lines = mood.GroupByLine(c.host.Diagnostics(uri))
	}
	return c.view.SetDecorations(ctx, uri, lines)
}

// RefreshPanel recomputes the counts of the active document and replaces
// the panel.
func (c *Controller) RefreshPanel(ctx context.Context) error {
	html, err := c.Panel()
	if err != nil {
		return err
	}
	return c.view.SetHTML(ctx, html)
}

func (c *Controller) Panel() (string, error) {
	counts := c.Counts()
	useWarnings := c.UseWarnings()
	bucket := mood.SelectBucket(counts.Errors, counts.Warnings, useWarnings)
	return c.renderer.Render(bucket, counts, useWarnings)
}

// Run refreshes the panel immediately and then once per interval until ctx
// is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	slog.Debug("Starting panel refresh", "interval", c.interval)
	for ctx.Err() == nil {
		if err := c.RefreshPanel(ctx); err != nil {
			slog.Error("Failed to refresh panel", "error", err)
		}
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
	return nil
}
