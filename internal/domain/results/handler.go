package results

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/labworks/lims/internal/domain/registry"
	"github.com/labworks/lims/internal/platform/web"
)

const resultFieldPrefix = "result_"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/patient/:id/edit", h.EditForm)
	e.POST("/patient/:id/edit", h.UpdateResults)
}

func (h *Handler) EditForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	patient, err := h.svc.GetPatientForEdit(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Render(http.StatusOK, "edit_patient.html", map[string]interface{}{
		"Patient": patient,
		"Error":   "",
	})
}

func (h *Handler) UpdateResults(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}

	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Translate result_<testID> form fields into a typed mapping before
	// the service sees anything.
	resultsByTestID := ParseResultFields(params)

	if err := h.svc.UpdateResults(c.Request().Context(), id, resultsByTestID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	web.SetFlash(c, "Lab results updated successfully!")
	return c.Redirect(http.StatusSeeOther, "/patients")
}

// ParseResultFields extracts result_<testID> entries from submitted form
// values. Fields whose suffix is not a valid UUID are ignored.
func ParseResultFields(params map[string][]string) map[uuid.UUID]string {
	results := make(map[uuid.UUID]string)
	for field, values := range params {
		if !strings.HasPrefix(field, resultFieldPrefix) || len(values) == 0 {
			continue
		}
		id, err := uuid.Parse(strings.TrimPrefix(field, resultFieldPrefix))
		if err != nil {
			continue
		}
		results[id] = values[0]
	}
	return results
}
