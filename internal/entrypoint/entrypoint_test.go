package entrypoint

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kindlr/internal/clippings"
	"github.com/mrlokans/kindlr/internal/config"
	"github.com/mrlokans/kindlr/internal/services"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.NewConfig()
	router, err := NewRouter(cfg, "test")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version": "test"`)
}

func TestNewRouter_InvalidParserConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Parser.Mode = "lenient"

	_, err := NewRouter(cfg, "test")
	assert.Error(t, err)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.NewConfig()
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = 0
	cfg.Global.ShutdownTimeoutInSeconds = 1

	ctx, cancel := context.WithCancel(context.Background())
	shutdownCalled := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, gin.New(), cfg, func(context.Context) { close(shutdownCalled) })
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	select {
	case <-shutdownCalled:
	default:
		t.Fatal("shutdown callback was not called")
	}
}

func TestParseShutdownLogger(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	service := services.NewParseService(clippings.NewParser(nil, clippings.ModeFailFast), time.Second)
	parseShutdownLogger(service)(context.Background())

	assert.Empty(t, buf.String())
}
