package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"time"
)

// Page template names
const (
	PageHello            = "hello.html"
	PageSleep            = "sleep.html"
	PageNotFound         = "404.html"
	PageMethodNotAllowed = "405.html"
)

//go:embed pages/*.html
var embeddedPages embed.FS

// PageData is the data available to page templates
type PageData struct {
	Method   string
	Endpoint string
	Delay    time.Duration
}

// Pages renders the static response bodies
type Pages struct {
	tmpl *template.Template
}

// LoadPages parses the page templates from dir, or the embedded set when dir is empty
func LoadPages(dir string) (*Pages, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embeddedPages, "pages")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded pages: %w", err)
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	tmpl, err := template.ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse pages: %w", err)
	}

	for _, name := range []string{PageHello, PageSleep, PageNotFound, PageMethodNotAllowed} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("page %s is missing", name)
		}
	}
	return &Pages{tmpl: tmpl}, nil
}

// Render executes the named page
func (p *Pages) Render(name string, data PageData) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
