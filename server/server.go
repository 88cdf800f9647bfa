package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/meetsense/internal/profile"
	"github.com/hrygo/meetsense/server/middleware"
	apiv1 "github.com/hrygo/meetsense/server/router/api/v1"
	"github.com/hrygo/meetsense/server/service/scheduler"
)

// Server is the HTTP front door for the scheduling engine.
type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
}

func NewServer(profile *profile.Profile, engine *scheduler.Engine) (*Server, error) {
	if profile == nil {
		return nil, errors.New("profile is required")
	}
	if engine == nil {
		return nil, errors.New("engine is required")
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORS())
	echoServer.Use(echomw.TimeoutWithConfig(echomw.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
	echoServer.Use(requestLogger())

	limiter := middleware.NewRateLimiter(profile.RateLimitRPS, profile.RateLimitBurst)
	echoServer.Use(limiter.Middleware())

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": profile.Version,
		})
	})

	schedulerService := apiv1.NewSchedulerService(profile, engine)
	schedulerService.Register(echoServer.Group("/api/v1"))
	// The upstream relay posts to the bare path.
	schedulerService.Register(echoServer.Group(""))

	return &Server{
		Profile:    profile,
		echoServer: echoServer,
	}, nil
}

// Start begins serving and blocks until the listener fails or shuts down.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("address", address), slog.String("mode", s.Profile.Mode))
	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "failed to start server")
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server gracefully", slog.String("error", err.Error()))
	}
	slog.Info("server stopped")
}

// requestLogger emits one structured line per request.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("http request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Int64("latency_ms", v.Latency.Milliseconds()),
			)
			return nil
		},
	})
}
