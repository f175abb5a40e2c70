package registry

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/labworks/lims/internal/domain/catalog"
	"github.com/labworks/lims/internal/platform/web"
)

// AnalyteLister supplies the analyte options shown on the registration
// form. Satisfied by catalog.Service.
type AnalyteLister interface {
	ListAnalytes(ctx context.Context) ([]*catalog.Analyte, error)
}

type Handler struct {
	svc      *Service
	analytes AnalyteLister
}

func NewHandler(svc *Service, analytes AnalyteLister) *Handler {
	return &Handler{svc: svc, analytes: analytes}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.RegisterForm)
	e.POST("/", h.RegisterPatient)
	e.GET("/patients", h.ListPatients)
}

func (h *Handler) RegisterForm(c echo.Context) error {
	analytes, err := h.analytes.ListAnalytes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Render(http.StatusOK, "register.html", map[string]interface{}{
		"Analytes": analytes,
		"Name":     "",
		"Age":      "",
		"Error":    "",
	})
}

func (h *Handler) RegisterPatient(c echo.Context) error {
	name := c.FormValue("name")
	ageRaw := strings.TrimSpace(c.FormValue("age"))
	gender := c.FormValue("gender")

	reg := Registration{Name: name, Gender: gender}

	if ageRaw != "" {
		age, err := strconv.Atoi(ageRaw)
		if err != nil {
			return h.renderRegisterError(c, name, ageRaw, "age must be an integer")
		}
		reg.Age = &age
	}

	// Multi-valued checkbox field; unparseable IDs are dropped here, the
	// service skips the ones that don't resolve.
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	for _, raw := range params["analytes"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		reg.AnalyteIDs = append(reg.AnalyteIDs, id)
	}

	if _, err := h.svc.RegisterPatient(c.Request().Context(), reg); err != nil {
		return h.renderRegisterError(c, name, ageRaw, err.Error())
	}

	web.SetFlash(c, "Patient registered successfully!")
	return c.Redirect(http.StatusSeeOther, "/patients")
}

func (h *Handler) renderRegisterError(c echo.Context, name, age, msg string) error {
	analytes, err := h.analytes.ListAnalytes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Render(http.StatusBadRequest, "register.html", map[string]interface{}{
		"Analytes": analytes,
		"Name":     name,
		"Age":      age,
		"Error":    msg,
	})
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.svc.ListPatients(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Render(http.StatusOK, "patients.html", map[string]interface{}{
		"Patients": patients,
		"Error":    "",
	})
}
