// Package server is a development stand-in for the training backend. It
// serves the scenario delivery endpoints from a content directory.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"servertrain/internal/config"
	"servertrain/internal/content"
	"servertrain/internal/scenario"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthMessage is returned by GET /.
const HealthMessage = "Server Training Backend Running"

const shutdownTimeout = 5 * time.Second

// Source is the content the server exposes. *content.Store implements it.
type Source interface {
	ListModules() []scenario.Module
	RawModule(moduleID string) (json.RawMessage, error)
	Scenario(moduleID, scenarioID string) (*content.Payload, error)
}

// Server wires a Source to a gin router.
type Server struct {
	src    Source
	cfg    config.ServeConfig
	logger *zap.Logger
	router *gin.Engine
}

// New builds the router. A nil logger disables request logging.
func New(src Source, cfg config.ServeConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{src: src, cfg: cfg, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	// Module ids may contain escaped slashes.
	router.UseRawPath = true
	router.UnescapePathValues = true

	router.Use(ZapLogger(s.logger))
	router.Use(gin.Recovery())
	if mw := corsMiddleware(s.cfg.AllowOrigins); mw != nil {
		router.Use(mw)
	}

	router.GET("/", s.health)
	router.GET("/modules", s.listModules)
	router.GET("/modules/:module_id/raw", s.rawModule)
	router.GET("/modules/:module_id/scenario/:scenario_id", s.getScenario)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	corsConfig := cors.DefaultConfig()
	for _, o := range origins {
		if o == "*" {
			corsConfig.AllowAllOrigins = true
			break
		}
	}
	if !corsConfig.AllowAllOrigins {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Accept", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}

// Run listens on cfg.Addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("Content server listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Graceful shutdown failed", zap.Error(err))
		_ = srv.Close()
	}
	<-errCh
	s.logger.Info("Content server stopped")
	return nil
}
