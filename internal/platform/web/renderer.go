package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements echo.Renderer over the embedded page templates.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render writes the named template to w. The flash notice, if one is
// pending on this request, is popped and exposed to the template as .Flash.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	ctx, ok := data.(map[string]interface{})
	if !ok {
		if data == nil {
			ctx = map[string]interface{}{}
		} else {
			return fmt.Errorf("render %s: context must be a map", name)
		}
	}
	if _, present := ctx["Flash"]; !present {
		ctx["Flash"] = PopFlash(c)
	}
	return r.templates.ExecuteTemplate(w, name, ctx)
}
