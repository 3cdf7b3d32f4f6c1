package ui

import (
	"html/template"
	"log"

	"github.com/gomarkdown/markdown"
)

// helpHTML renders the embedded help page. The markdown source ships with
// the binary, so a parse failure is a build problem, not a runtime one.
func helpHTML() template.HTML {
	src, err := embeddedFiles.ReadFile("help.md")
	if err != nil {
		log.Printf("[UI] missing embedded help.md: %v", err)
		return template.HTML("<p>Help unavailable.</p>")
	}
	return template.HTML(markdown.ToHTML(src, nil, nil))
}
