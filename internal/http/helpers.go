package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body for requests that never reach a controller.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

func notFoundHandler(c *gin.Context) {
	respondError(c, http.StatusNotFound, "not_found", c.Request.URL.Path+" not found")
}

func methodNotAllowedHandler(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, "method_not_allowed", c.Request.Method+" not allowed on "+c.Request.URL.Path)
}
