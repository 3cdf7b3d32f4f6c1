package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
)

//go:embed templates/* static/* help.md
var embeddedFiles embed.FS

// mustSub roots the embedded FS at dir; the embed directive guarantees the
// directory exists.
func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(embeddedFiles, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// parseTemplates loads the embedded dashboard templates with the shared
// FuncMap.
func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"fmtMinutes": func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"add":        func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return templates, nil
}

// renderTemplate executes a template into a buffer first so a mid-render
// error becomes a clean 500 instead of a truncated page.
func renderTemplate(w http.ResponseWriter, templates *template.Template, name string, data interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[UI] template error for %s: %v", name, err)
		http.Error(w, "Template rendering failed", http.StatusInternalServerError)
		return
	}

	// The caller may have set a non-200 status (failed login); the first
	// write flushes whatever is pending.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[UI] error writing template response: %v", err)
	}
}
