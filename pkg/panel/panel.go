package panel

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/a-h/templ/lsp/uri"
	"github.com/lavigneer/sillycat/pkg/mood"
)

//go:embed templates/panel.html
var templateFS embed.FS

const (
	ClassAlarm   = "alarm"
	ClassWarning = "yellow"

	StylesheetName = "main.css"
)

type Assets interface {
	Image(bucket mood.Bucket) string
	Stylesheet() string
}

func ImageName(bucket mood.Bucket) string {
	return fmt.Sprintf("cat%d.png", bucket)
}

// DirAssets resolves assets to file URIs inside a directory. The host is
// expected to map them into its webview.
type DirAssets struct {
	Dir string
}

func (a DirAssets) Image(bucket mood.Bucket) string {
	return string(uri.File(filepath.Join(a.Dir, ImageName(bucket))))
}

func (a DirAssets) Stylesheet() string {
	return string(uri.File(filepath.Join(a.Dir, StylesheetName)))
}

type pageData struct {
	Stylesheet   template.URL
	Image        template.URL
	Class        string
	Errors       int
	Warnings     int
	ShowWarnings bool
}

type Renderer struct {
	assets Assets
	tmpl   *template.Template
}

func NewRenderer(assets Assets) (*Renderer, error) {
	tmpl, err := template.New("panel.html").Funcs(template.FuncMap{
		"plural": plural,
	}).ParseFS(templateFS, "templates/panel.html")
	if err != nil {
		return nil, fmt.Errorf("parsing panel template: %w", err)
	}
	return &Renderer{assets: assets, tmpl: tmpl}, nil
}

// Render returns the full panel document. The warnings line and the
// warning highlight are only produced when showWarnings is set.
func (r *Renderer) Render(bucket mood.Bucket, counts mood.Counts, showWarnings bool) (string, error) {
	data := pageData{
		// Asset references come from the resolver, not from diagnostics.
		Stylesheet:   template.URL(r.assets.Stylesheet()), //nolint:gosec
		Image:        template.URL(r.assets.Image(bucket)), //nolint:gosec
		Class:        emphasis(counts, showWarnings),
		Errors:       counts.Errors,
		Warnings:     counts.Warnings,
		ShowWarnings: showWarnings,
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering panel: %w", err)
	}
	return buf.String(), nil
}

func Render(assets Assets, bucket mood.Bucket, counts mood.Counts, showWarnings bool) (string, error) {
	r, err := NewRenderer(assets)
	if err != nil {
		return "", err
	}
	return r.Render(bucket, counts, showWarnings)
}

func emphasis(counts mood.Counts, showWarnings bool) string {
	switch {
	case counts.Errors > 0:
		return ClassAlarm
	case showWarnings && counts.Warnings > 0:
		return ClassWarning
	}
	return ""
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
