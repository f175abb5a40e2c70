package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labworks/lims/internal/platform/web"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/analytes/new", h.NewAnalyteForm)
	e.POST("/analytes/new", h.CreateAnalyte)
}

func (h *Handler) NewAnalyteForm(c echo.Context) error {
	return c.Render(http.StatusOK, "create_analyte.html", map[string]interface{}{
		"Name":        "",
		"Description": "",
		"Error":       "",
	})
}

func (h *Handler) CreateAnalyte(c echo.Context) error {
	name := c.FormValue("name")
	description := c.FormValue("description")

	if _, err := h.svc.CreateAnalyte(c.Request().Context(), name, description); err != nil {
		// Validation failed: re-render the form with the submitted values.
		return c.Render(http.StatusBadRequest, "create_analyte.html", map[string]interface{}{
			"Name":        name,
			"Description": description,
			"Error":       err.Error(),
		})
	}

	web.SetFlash(c, "Analyte created successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}
