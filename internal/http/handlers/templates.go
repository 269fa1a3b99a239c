package handlers

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// homeTemplate is the template name rendered by Home.
const homeTemplate = "index.html"

// Templates parses the embedded HTML templates for gin.Engine.SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}
