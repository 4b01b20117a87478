// Package server exposes reconciliation over HTTP. The server is
// stateless: every request carries its own extracts, and nothing is
// persisted between calls.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ivyrecon/ivyrecon/pkg/logging"
)

// Server wraps the gin router and its HTTP listener.
type Server struct {
	router *gin.Engine
	logger zerolog.Logger
}

// New creates a Server with routes registered.
func New(logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router: gin.New(),
		logger: logger,
	}
	s.router.Use(gin.Recovery(), s.requestLog())
	s.routes()
	return s
}

// Router returns the underlying handler, used directly in tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info().Str("addr", addr).Msg("listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.POST("/reconcile", s.handleReconcile)
}

// requestLog tags each request context with a run ID so handlers log
// through logging.Ctx and every line of a request shares the same ID.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := logging.WithLogger(c.Request.Context(), &s.logger)
		ctx = logging.WithRunID(ctx, uuid.NewString())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logging.Ctx(ctx).Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
