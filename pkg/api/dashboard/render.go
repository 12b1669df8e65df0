package dashboard

import (
	"bytes"
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render writes the page as HTML. The output is buffered so a template error
// never leaves a half-written response.
func Render(w io.Writer, page Page) error {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "layout", page); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
