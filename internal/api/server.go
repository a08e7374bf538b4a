// Package api exposes the companion-app HTTP surface: a sync endpoint, a
// transaction submission endpoint, and operational handlers for health and
// metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/service"
)

// Config carries the listener settings.
type Config struct {
	Host string
	Port int
}

// Server is the HTTP API for companion apps and operators.
type Server struct {
	echo    *echo.Echo
	storage service.Storage
	logger  *slog.Logger
	cfg     Config
}

// New builds the server and registers all routes.
func New(cfg Config, storage service.Storage) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		storage: storage,
		logger:  common.ComponentLogger("api"),
		cfg:     cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			)
			return nil
		},
	}))

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/status", s.handleStatus)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.GET("/sync", s.handleSync)
	api.POST("/transactions", s.handleCreateTransaction)
	api.PUT("/limits", s.handleSetLimit)
	api.POST("/goals", s.handleCreateGoal)
	api.POST("/debts", s.handleCreateDebt)
	api.POST("/debts/:id/settle", s.handleSettleDebt)
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.logger.Info("starting http listener", "addr", addr)

	err := s.echo.Start(addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleStatus(c echo.Context) error {
	if err := s.storage.Ping(c.Request().Context()); err != nil {
		s.logger.Error("database ping failed", "error", err)
		return c.String(http.StatusInternalServerError, "DB error")
	}
	return c.String(http.StatusOK, "OK")
}
