package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindlr/internal/services"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	parseService *services.ParseService
	version      string
}

func NewHealthController(parseService *services.ParseService, version string) *HealthController {
	return &HealthController{
		parseService: parseService,
		version:      version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.parseService != nil {
		parser := h.parseService.Parser()
		checks["locales"] = strings.Join(parser.Table().IDs(), ",")
		checks["mode"] = parser.Mode().String()
	} else {
		checks["locales"] = "not configured"
		status = "unhealthy"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
