package http

import (
	"github.com/mrlokans/kindlr/internal/services"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	ParseService *services.ParseService

	// MaxUploadBytes caps the size of uploaded clippings files
	MaxUploadBytes int64

	// Application info
	Version string
}
