package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindlr/internal/config"
	http_controllers "github.com/mrlokans/kindlr/internal/http"
	"github.com/mrlokans/kindlr/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until ctx is cancelled or SIGINT/SIGTERM arrives,
// then shuts it down within the configured timeout.
func Serve(ctx context.Context, router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server exiting")
	return nil
}

// NewRouter wires the parse service from configuration into the HTTP router.
func NewRouter(cfg *config.Config, version string) (*gin.Engine, error) {
	parseService, err := newParseService(cfg)
	if err != nil {
		return nil, err
	}
	return newRouter(cfg, parseService, version), nil
}

func newParseService(cfg *config.Config) (*services.ParseService, error) {
	parser, err := cfg.NewClippingsParser()
	if err != nil {
		return nil, err
	}

	log.Printf("Parser mode: %s, locales: %s", parser.Mode(), strings.Join(parser.Table().IDs(), ","))

	return services.NewParseService(parser, cfg.Parser.Timeout), nil
}

func newRouter(cfg *config.Config, parseService *services.ParseService, version string) *gin.Engine {
	return http_controllers.NewRouter(http_controllers.RouterConfig{
		ParseService:   parseService,
		MaxUploadBytes: cfg.Upload.MaxFileSize,
		Version:        version,
	})
}

func Run(ctx context.Context, cfg *config.Config, version string) error {
	log.Printf("Starting kindlr v%s", version)

	parseService, err := newParseService(cfg)
	if err != nil {
		return fmt.Errorf("failed to configure server: %w", err)
	}

	return Serve(ctx, newRouter(cfg, parseService, version), cfg, parseShutdownLogger(parseService))
}

// parseShutdownLogger reports parses that are still running when shutdown starts.
// Their requests are still answered if they finish within the shutdown timeout.
func parseShutdownLogger(parseService *services.ParseService) ShutdownFunc {
	return func(ctx context.Context) {
		if n := parseService.InFlight(); n > 0 {
			log.Printf("%d parses still running at shutdown", n)
		}
	}
}
