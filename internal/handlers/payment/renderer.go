package payment

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/kevin07696/authnet-service/internal/forms"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Card data is never written back into a page.
var sensitiveFields = map[string]bool{
	"card_num":    true,
	"card_number": true,
	"card_code":   true,
}

var templateFuncs = template.FuncMap{
	"fieldValue": func(form forms.Form, name string) string {
		if sensitiveFields[name] {
			return ""
		}
		return form.Values().Get(name)
	},
	"fieldErrors": func(form forms.Form, name string) []string {
		return form.Errors()[name]
	},
}

// Renderer executes the page templates. Built-in templates are embedded;
// merchants may add or override pages from a directory.
type Renderer struct {
	templates *template.Template
	logger    *zap.Logger
}

// NewRenderer parses the built-in templates, then any *.html found in overrides.
func NewRenderer(logger *zap.Logger, overrides ...fs.FS) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in templates: %w", err)
	}
	for _, fsys := range overrides {
		matches, err := fs.Glob(fsys, "*.html")
		if err != nil {
			return nil, fmt.Errorf("failed to list template overrides: %w", err)
		}
		if len(matches) == 0 {
			continue
		}
		if tmpl, err = tmpl.ParseFS(fsys, "*.html"); err != nil {
			return nil, fmt.Errorf("failed to parse template overrides: %w", err)
		}
	}
	return &Renderer{templates: tmpl, logger: logger}, nil
}

// Has reports whether a template with this name is loaded.
func (r *Renderer) Has(name string) bool {
	return r.templates.Lookup(name) != nil
}

// Render writes the named template. Nothing is written until execution succeeds.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("Failed to render template",
			zap.String("template", name),
			zap.Error(err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Warn("Failed to write response", zap.String("template", name), zap.Error(err))
	}
}
