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

	"github.com/peakform/peakform/internal/profile"
	apiv1 "github.com/peakform/peakform/server/router/api/v1"
	"github.com/peakform/peakform/server/runner/cleanup"
	"github.com/peakform/peakform/server/runner/embedding"
	"github.com/peakform/peakform/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiService *apiv1.APIV1Service
}

func NewServer(ctx context.Context, p *profile.Profile, s *store.Store) (*Server, error) {
	server := &Server{
		Profile: p,
		Store:   s,
	}

	echoServer := echo.New()
	echoServer.Debug = true
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomw.Recover())

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": p.Version,
		})
	})

	apiService := apiv1.NewAPIV1Service(p, s)
	apiService.Register(echoServer)

	server.echoServer = echoServer
	server.apiService = apiService

	if err := s.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return server, nil
}

func (s *Server) Start(ctx context.Context) error {
	s.StartBackgroundRunners(ctx)

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("address", address))
	return s.echoServer.Start(address)
}

// StartBackgroundRunners launches the cleanup sweeper and, when semantic
// search is configured, the embedding backfill runner.
func (s *Server) StartBackgroundRunners(ctx context.Context) {
	cleanupRunner := cleanup.NewRunner(s.Store)
	go cleanupRunner.Run(ctx)

	s.apiService.Stats.Start(ctx)

	if s.apiService.EmbeddingService != nil {
		embeddingRunner := embedding.NewRunner(s.Store, s.apiService.EmbeddingService, s.Profile.AIEmbeddingModel)
		go embeddingRunner.Run(ctx)
	}
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.Any("err", err))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.Any("err", err))
	}
	slog.Info("server shutdown")
}
