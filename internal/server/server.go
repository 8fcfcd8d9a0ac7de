// Package server is a development backend for the kanban client. It serves
// the two board operations the client uses over the SQLite storage.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Register wires the board API routes on the provided Echo instance.
func Register(e *echo.Echo, store types.Store, logger log.FieldLogger) {
	e.GET("/healthz", healthz(store))
	g := e.Group("/api")
	g.GET("/boards/:id", getBoard(store))
	g.PUT("/boards/:id/tasks/:taskId", updateTask(store, logger))
}

// New returns an Echo instance with request logging, panic recovery and the
// board routes registered.
func New(store types.Store, logger log.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(RequestLogger(logger))
	Register(e, store, logger)
	return e
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	errc := make(chan error, 1)
	go func() { errc <- e.Start(addr) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

// RequestLogger logs one structured line per request.
func RequestLogger(logger log.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			entry := logger.WithFields(log.Fields{
				"method":   req.Method,
				"path":     req.URL.Path,
				"status":   c.Response().Status,
				"duration": time.Since(start).String(),
			})
			if err != nil {
				entry.WithError(err).Warn("request failed")
			} else {
				entry.Info("request")
			}
			return nil
		}
	}
}

func healthz(store types.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := store.GetTable(types.BoardsTable); err != nil {
			return c.String(http.StatusServiceUnavailable, err.Error())
		}
		return c.NoContent(http.StatusOK)
	}
}
