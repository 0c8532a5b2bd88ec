package overlay

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

//go:embed viewer.html.tmpl
var templateFS embed.FS

var viewerTemplate = template.Must(template.ParseFS(templateFS, "viewer.html.tmpl"))

// WriteHTML renders the standalone interactive viewer: page images as
// backgrounds with SVG bounding-box overlays, layer toggles per category,
// and an element inspector. The page data is embedded as a JSON payload.
func WriteHTML(w io.Writer, documentName string, pages []PageView) error {
	if pages == nil {
		pages = []PageView{}
	}

	payload, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding page data: %w", err)
	}

	data := struct {
		DocumentName string
		PagesJSON    template.JS
	}{
		DocumentName: documentName,
		PagesJSON:    template.JS(payload),
	}

	if err := viewerTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering viewer template: %w", err)
	}
	return nil
}
