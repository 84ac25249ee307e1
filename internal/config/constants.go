package config

const (
	// DefaultExportDir is where exported books are written when no directory is given
	DefaultExportDir = "./markdown"

	// DefaultMaxUploadBytes caps clippings files accepted over HTTP
	DefaultMaxUploadBytes = 10 * 1024 * 1024
)
