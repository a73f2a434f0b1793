package ui

import (
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// handleMethodology renders the embedded methodology notes as HTML.
func (a *App) handleMethodology(w http.ResponseWriter, r *http.Request) {
	source, err := embeddedDocs.ReadFile("docs/metodologia.md")
	if err != nil {
		a.writeError(w, err)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML(source, p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(rendered)
}
