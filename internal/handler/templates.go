package handler

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names registered with the gin HTML renderer
const (
	templateIndex    = "index.html"
	templateNotFound = "404.html"
	templateError    = "error.html"
)

// LoadTemplates parses the pages compiled into the binary
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
