package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/user/page-analyzer/internal/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrResponseWrite wraps failures to send an already rendered page. Headers
// are out by then, so callers must not write an error response.
var ErrResponseWrite = errors.New("write response")

// Page names accepted by Render.
const (
	PageIndex = "index"
	PageURLs  = "urls"
	PageURL   = "url"
)

// Page is the data every template receives.
type Page struct {
	Flashes []entity.Flash
	Data    any
}

// IndexData backs the add-URL form.
type IndexData struct {
	Value string
	Error string
}

var funcs = template.FuncMap{
	"str": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"code": func(c *int) string {
		if c == nil {
			return ""
		}
		return fmt.Sprint(*c)
	},
	"ts": func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return t.Format("2006-01-02 15:04:05")
		case *time.Time:
			if t != nil {
				return t.Format("2006-01-02 15:04:05")
			}
		}
		return ""
	},
}

// Renderer renders the layout around one page template.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageIndex, PageURLs, PageURL} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes page with status. The page is rendered into a buffer first
// so a template error never produces a half-written 200.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w %s: %w", ErrResponseWrite, name, err)
	}
	return nil
}
