package http

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindlr/internal/clippings"
	"github.com/mrlokans/kindlr/internal/config"
	"github.com/mrlokans/kindlr/internal/exporters"
	"github.com/mrlokans/kindlr/internal/services"
)

const clippingsFormField = "clippings_file"

var (
	errFileTooLarge  = errors.New("file too large")
	errNotConfigured = errors.New("clippings parser not configured")
)

type ClippingsController struct {
	parseService *services.ParseService
	maxFileSize  int64
}

func NewClippingsController(parseService *services.ParseService, maxFileSize int64) *ClippingsController {
	if maxFileSize <= 0 {
		maxFileSize = config.DefaultMaxUploadBytes
	}
	return &ClippingsController{
		parseService: parseService,
		maxFileSize:  maxFileSize,
	}
}

type FailureResponse struct {
	Entry int    `json:"entry"`
	Error string `json:"error"`
}

type ParseResponse struct {
	Success  bool                      `json:"success"`
	Error    string                    `json:"error,omitempty"`
	Entry    int                       `json:"entry,omitempty"`
	Mode     string                    `json:"mode,omitempty"`
	Total    int                       `json:"total"`
	Records  []clippings.IndexedRecord `json:"records"`
	Failures []FailureResponse         `json:"failures,omitempty"`
}

// Parse handles POST /api/clippings/parse. The clippings file is taken from
// the "clippings_file" multipart field or, failing that, the raw request body.
func (c *ClippingsController) Parse(ctx *gin.Context) {
	result, mode, status, err := c.parse(ctx)
	if err != nil {
		response := &ParseResponse{Success: false, Error: err.Error(), Records: []clippings.IndexedRecord{}}
		var entryErr *clippings.EntryError
		if errors.As(err, &entryErr) {
			response.Entry = entryErr.Index
		}
		ctx.JSON(status, response)
		return
	}

	response := &ParseResponse{
		Success: true,
		Mode:    mode.String(),
		Total:   len(result.Records),
		Records: result.Records,
	}
	if response.Records == nil {
		response.Records = []clippings.IndexedRecord{}
	}
	for _, failure := range result.Failures {
		response.Failures = append(response.Failures, FailureResponse{
			Entry: failure.Index,
			Error: failure.Err.Error(),
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// Markdown handles POST /api/clippings/markdown and renders every book as markdown.
func (c *ClippingsController) Markdown(ctx *gin.Context) {
	result, _, status, err := c.parse(ctx)
	if err != nil {
		ctx.String(status, "Failed to parse clippings: %v", err)
		return
	}

	books := exporters.GroupByBook(result.Plain())
	if len(result.Failures) > 0 {
		ctx.Header("X-Clippings-Failures", strconv.Itoa(len(result.Failures)))
	}
	ctx.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(exporters.GenerateMarkdownAll(books, time.Now())))
}

func (c *ClippingsController) parse(ctx *gin.Context) (clippings.Result, clippings.Mode, int, error) {
	if c.parseService == nil {
		return clippings.Result{}, clippings.ModeFailFast, http.StatusServiceUnavailable, errNotConfigured
	}

	mode := c.parseService.Parser().Mode()
	if raw := ctx.Query("mode"); raw != "" {
		parsed, err := clippings.ParseMode(raw)
		if err != nil {
			return clippings.Result{}, mode, http.StatusBadRequest, err
		}
		mode = parsed
	}

	content, err := c.readClippings(ctx)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			return clippings.Result{}, mode, http.StatusRequestEntityTooLarge,
				fmt.Errorf("file too large (max %d MB)", c.maxFileSize/(1024*1024))
		}
		return clippings.Result{}, mode, http.StatusBadRequest, err
	}

	result, err := c.parseService.ParseWithMode(ctx.Request.Context(), content, mode)
	if err != nil {
		if errors.Is(err, services.ErrParseTimeout) {
			log.Printf("Clippings parse timed out (%d bytes)", len(content))
			return result, mode, http.StatusGatewayTimeout, err
		}
		return result, mode, http.StatusUnprocessableEntity, err
	}

	return result, mode, http.StatusOK, nil
}

func (c *ClippingsController) readClippings(ctx *gin.Context) (string, error) {
	var reader io.Reader

	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		file, header, err := ctx.Request.FormFile(clippingsFormField)
		if err != nil {
			return "", fmt.Errorf("clippings file not provided")
		}
		defer file.Close()

		if header.Size > c.maxFileSize {
			return "", errFileTooLarge
		}
		reader = file
	} else {
		if ctx.Request.Body == nil {
			return "", fmt.Errorf("clippings file not provided")
		}
		reader = ctx.Request.Body
	}

	// Read with size limit
	data, err := io.ReadAll(io.LimitReader(reader, c.maxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read clippings: %w", err)
	}
	if int64(len(data)) > c.maxFileSize {
		return "", errFileTooLarge
	}
	return string(data), nil
}
