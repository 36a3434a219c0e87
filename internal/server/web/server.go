// Package web is the HTTP surface of the user-management server: an echo
// application exposing the /api/users endpoints behind JWT authentication,
// answering everything in the ApiResponse envelope.
package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dbalakin/userman/internal/common"
	"github.com/dbalakin/userman/internal/logging"
	"github.com/dbalakin/userman/internal/server/config"
	"github.com/dbalakin/userman/internal/server/services"
)

type Server struct {
	echo    *echo.Echo
	address string
	logger  logging.Logger
}

func NewServer(cfg *config.Config, users *services.UserService, logger logging.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	h := NewHandler(users, logger)
	registerRoutes(e, h, []byte(cfg.SecretKey))

	return &Server{
		echo:    e,
		address: cfg.EndpointAddrHTTP,
		logger:  logger.With("module", "http_server"),
	}
}

// registerRoutes wires the endpoint table. Registration and login are
// public; everything else needs a valid token, and the destructive or
// privacy-sensitive endpoints additionally need the administrator role.
func registerRoutes(e *echo.Echo, h *Handler, secretKey []byte) {
	api := e.Group("/api/users")

	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	authed := api.Group("", accessToken(secretKey))
	authed.GET("", h.List)
	authed.GET("/search", h.Search, requireRole(common.AdministratorRole))
	authed.GET("/:id", h.GetByID)
	authed.PUT("", h.Update)
	authed.DELETE("/:id", h.Delete, requireRole(common.AdministratorRole))
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.echo.Shutdown(context.Background()); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
