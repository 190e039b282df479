package handlers

import (
	"net/http"

	"chalethaven/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the last result of the background health monitor.
type HealthHandler struct {
	status func() utils.HealthStatus
}

func NewHealthHandler(status func() utils.HealthStatus) *HealthHandler {
	if status == nil {
		status = utils.GetHealthStatus
	}
	return &HealthHandler{status: status}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	st := h.status()
	code := http.StatusOK
	if !st.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, st)
}
