package pages

import (
	"embed"
	"html/template"
)

//go:embed templates/*.gohtml
var FS embed.FS

var documentTmpl = template.Must(template.ParseFS(FS, "templates/document.gohtml"))
