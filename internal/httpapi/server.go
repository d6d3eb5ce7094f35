package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kleinimg/internal/config"
	compressionDomain "kleinimg/internal/domain/compression"
	statisticsDomain "kleinimg/internal/domain/statistics"
	"kleinimg/internal/metrics"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server exposes compression over HTTP for the admin panel
type Server struct {
	engine      *gin.Engine
	config      *config.Config
	logger      *slog.Logger
	compression compressionDomain.Service
	processor   compressionDomain.ImageProcessor
	statistics  statisticsDomain.Service
	metrics     *metrics.Metrics
}

// NewServer builds the router. metrics may be nil, in which case /metrics is not served.
func NewServer(
	cfg *config.Config,
	compression compressionDomain.Service,
	processor compressionDomain.ImageProcessor,
	statistics statisticsDomain.Service,
	m *metrics.Metrics,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:      gin.New(),
		config:      cfg,
		logger:      cfg.Logger,
		compression: compression,
		processor:   processor,
		statistics:  statistics,
		metrics:     m,
	}

	s.engine.Use(gin.Recovery(), requestLogger(s.logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/profiles", s.handleProfiles)
	s.engine.POST("/compress", s.handleCompress)
	s.engine.GET("/stats", s.handleStats)
	s.engine.GET("/history", s.handleHistory)
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler returns the router for use with httptest or a custom server
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
