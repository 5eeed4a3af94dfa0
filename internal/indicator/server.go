package indicator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// StatusReporter is what the HTTP endpoints read from. Satisfied by *Watcher.
type StatusReporter interface {
	Status() Status
	Healthy() bool
}

// NewRouter serves the watcher state for status-bar widgets.
//
//	GET /status   last observed state as JSON
//	GET /healthz  200 while polls succeed, 503 otherwise
func NewRouter(reporter StatusReporter, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, reporter.Status())
	})
	router.GET("/healthz", func(c *gin.Context) {
		if !reporter.Healthy() {
			status := reporter.Status()
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": status.Error})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("status endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Debug("http request",
			"method", c.Request.Method,
			"path", path,
			"client", c.ClientIP(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
