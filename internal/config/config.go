package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mrlokans/kindlr/internal/clippings"
)

type (
	Config struct {
		Parser
		HTTP
		Upload
		Export
		Global
	}

	Parser struct {
		Mode        string        // "fail-fast" (default) or "collect"
		Locales     []string      // Locale ids to match against, in order; empty means all
		LocalesFile string        // Optional locale table replacing the embedded one
		Timeout     time.Duration // Upper bound for one parse call made by the server
	}
	HTTP struct {
		Port int32
		Host string
	}
	Upload struct {
		MaxFileSize int64
	}
	Export struct {
		OutputDir string
		Format    string // "markdown" or "json"
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("parse_mode", clippings.ModeFailFast.String())
	v.SetDefault("parse_locales", "")
	v.SetDefault("locales_file", "")
	v.SetDefault("parse_timeout", "10s")
	v.SetDefault("max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("export_dir", DefaultExportDir)
	v.SetDefault("export_format", "markdown")

	return &Config{
		Parser: Parser{
			Mode:        v.GetString("PARSE_MODE"),
			Locales:     SplitList(v.GetString("PARSE_LOCALES")),
			LocalesFile: v.GetString("LOCALES_FILE"),
			Timeout:     v.GetDuration("PARSE_TIMEOUT"),
		},
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Upload: Upload{
			MaxFileSize: v.GetInt64("MAX_UPLOAD_BYTES"),
		},
		Export: Export{
			OutputDir: v.GetString("EXPORT_DIR"),
			Format:    v.GetString("EXPORT_FORMAT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

// ParserMode converts the configured mode name.
func (c *Config) ParserMode() (clippings.Mode, error) {
	return clippings.ParseMode(c.Parser.Mode)
}

// LoadTable builds the locale table described by the parser settings.
func (c *Config) LoadTable() (*clippings.Table, error) {
	table := clippings.DefaultTable()
	if c.Parser.LocalesFile != "" {
		loaded, err := clippings.LoadTableFile(c.Parser.LocalesFile)
		if err != nil {
			return nil, err
		}
		table = loaded
	}
	return table.Select(c.Parser.Locales...)
}

// NewClippingsParser builds a parser from the parser settings.
func (c *Config) NewClippingsParser() (*clippings.Parser, error) {
	mode, err := c.ParserMode()
	if err != nil {
		return nil, err
	}
	table, err := c.LoadTable()
	if err != nil {
		return nil, fmt.Errorf("failed to load locale table: %w", err)
	}
	return clippings.NewParser(table, mode), nil
}

// SplitList splits a comma-separated list, dropping blank items.
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
