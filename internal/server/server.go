// Package server exposes the pipeline over HTTP, one document per session.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatdoc/internal/app"
	"chatdoc/internal/session"
)

// New builds the echo instance with every route registered.
func New(a *app.App, store session.Store, maxUploadBytes int64) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = errorHandler(log.New(log.Writer(), "[HTTP] ", log.LstdFlags))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h := &Handler{App: a, Store: store, MaxUploadBytes: maxUploadBytes}
	h.Register(e.Group("/api"))
	return e
}

// Run serves e on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("server stopped")
	return nil
}

func errorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		kind := app.Kind(err)
		msg := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			kind = "http"
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		} else {
			code = statusFor(kind)
		}

		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if c.Response().Committed {
			return
		}
		if req.Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, map[string]string{"error": msg, "kind": kind})
	}
}

func statusFor(kind string) int {
	switch kind {
	case "session_not_found":
		return http.StatusNotFound
	case "no_document_loaded":
		return http.StatusConflict
	case "extraction", "empty_document":
		return http.StatusUnprocessableEntity
	case "invalid_parameter", "invalid_question", "invalid_request":
		return http.StatusBadRequest
	case "synthesis", "embedding", "parse":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
