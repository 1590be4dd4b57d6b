package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sthmu/Student-Manager/database"
)

type HealthHandler struct {
	// Status is swappable in tests.
	Status func() database.Status
}

func NewHealthHandler(status func() database.Status) *HealthHandler {
	return &HealthHandler{Status: status}
}

// GET /health
func (h *HealthHandler) Check(c echo.Context) error {
	st := h.Status()
	status := "ok"
	if !st.Connected {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":   status,
		"database": st,
	})
}
