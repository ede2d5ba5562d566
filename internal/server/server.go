// Package server exposes the snapshot pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/naka-gawa/github-snapshot/internal/domain"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 10 * time.Second

// SnapshotGetter is the use case the handlers depend on.
type SnapshotGetter interface {
	GetSnapshot(ctx context.Context, username string) (*domain.Snapshot, error)
}

// SnapshotHandler serves snapshots as JSON.
type SnapshotHandler struct {
	svc    SnapshotGetter
	logger *logrus.Logger
}

func NewSnapshotHandler(svc SnapshotGetter, logger *logrus.Logger) *SnapshotHandler {
	return &SnapshotHandler{svc: svc, logger: logger}
}

// GetSnapshot handles GET /api/github/:username.
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	username := c.Param("username")
	snapshot, err := h.svc.GetSnapshot(c.Request.Context(), username)
	if err != nil {
		status := statusFor(err)
		var rateErr *domain.RateLimitError
		if errors.As(err, &rateErr) && rateErr.WaitKnown() {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(rateErr)))
		}
		entry := h.logger.WithFields(logrus.Fields{
			"username":   username,
			"status":     status,
			"request_id": c.GetString(RequestIDHeader),
		}).WithError(err)
		if status >= http.StatusInternalServerError {
			entry.Error("Snapshot request failed")
		} else {
			entry.Info("Snapshot request rejected")
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// HealthCheck handles GET /healthz.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func statusFor(err error) int {
	var (
		rateErr     *domain.RateLimitError
		upstreamErr *domain.UpstreamError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidUsername):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests
	case errors.As(err, &upstreamErr), errors.Is(err, domain.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func retryAfterSeconds(err *domain.RateLimitError) int {
	secs := int(err.Wait.Round(time.Second) / time.Second)
	return max(secs, 0)
}

// RequestID tags every request with an id, reusing the caller's when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one logrus entry per request.
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"request_id": c.GetString(RequestIDHeader),
		}).Debug("Handled request")
	}
}

// NewRouter wires the middleware and routes.
func NewRouter(svc SnapshotGetter, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	snapshots := NewSnapshotHandler(svc, logger)
	api := router.Group("/api/github")
	{
		api.GET("/:username", snapshots.GetSnapshot)
	}
	router.GET("/healthz", HealthCheck)
	return router
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *logrus.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
