// Package server exposes a quality-map gateway over the REST API the
// HTTP gateway consumes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dshills/qualitymap/internal/gateway"
	"github.com/dshills/qualitymap/internal/platform/logger"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires the API routes over gw.
func NewRouter(gw gateway.Gateway, log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.Nop()
	}
	h := NewHandler(gw, log)

	router := gin.New()
	router.Use(RequestID(), RequestLogger(log), gin.Recovery())

	router.GET("/healthz", h.Health)
	api := router.Group("/api")
	{
		api.GET("/criteria", h.ListCriteria)
		api.GET("/quality-maps/:id", h.GetQualityMap)
		api.PATCH("/quality-maps/:id", h.UpdateColumns)
		api.POST("/quality-deductions", h.UpsertChatDeduction)
		api.POST("/quality-call-deductions", h.UpsertCallDeduction)
	}
	return router
}

// Run serves router on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, router http.Handler, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
