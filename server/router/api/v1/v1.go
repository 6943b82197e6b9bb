// Package v1 exposes the memory engine over a REST API. Identity arrives as
// a gateway-forwarded header; every route below /api/v1 requires it.
package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/peakform/peakform/internal/profile"
	"github.com/peakform/peakform/plugin/ai"
	aicontext "github.com/peakform/peakform/plugin/ai/context"
	"github.com/peakform/peakform/server/auth"
	"github.com/peakform/peakform/server/middleware"
	"github.com/peakform/peakform/server/stats"
	"github.com/peakform/peakform/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Engine  *aicontext.Engine
	// proEngine is the same engine with the raised PRO record cap.
	proEngine        *aicontext.Engine
	Sweeper          *aicontext.Sweeper
	EmbeddingService ai.EmbeddingService
	Stats            *stats.Collector

	resolver    auth.Resolver
	rateLimiter *middleware.RateLimiter
	// buildSemaphore caps concurrent context builds; each build fans out to
	// every source category at once.
	buildSemaphore *semaphore.Weighted
}

func NewAPIV1Service(p *profile.Profile, s *store.Store) *APIV1Service {
	engineConfig := aicontext.Config{
		RecordLimit:      p.ContextRecordLimit,
		ProvenanceWindow: time.Duration(p.ProvenanceWindowDays) * 24 * time.Hour,
	}

	memories := aicontext.NewStoreMemoryProvider(s)
	adapters := aicontext.NewStoreAdapters(s)
	engine := aicontext.NewEngine(adapters, memories, engineConfig)

	// PRO plan gets twice the per-category record cap.
	proConfig := engineConfig
	proConfig.RecordLimit = engineConfig.RecordLimit * 2
	if proConfig.RecordLimit <= 0 {
		proConfig.RecordLimit = aicontext.DefaultConfig().RecordLimit * 2
	}
	proEngine := aicontext.NewEngine(adapters, memories, proConfig)

	service := &APIV1Service{
		Profile:        p,
		Store:          s,
		Engine:         engine,
		proEngine:      proEngine,
		Sweeper:        aicontext.NewSweeper(memories),
		Stats:          stats.NewCollector(s),
		resolver:       auth.NewResolver(s),
		rateLimiter:    middleware.NewRateLimiter(10, 20),
		buildSemaphore: semaphore.NewWeighted(8),
	}

	if p.IsAIEnabled() {
		aiConfig := ai.NewConfigFromProfile(p)
		if err := aiConfig.Validate(); err != nil {
			slog.Warn("invalid AI configuration, semantic search disabled", slog.Any("err", err))
		} else if embedding, err := ai.NewEmbeddingService(&aiConfig.Embedding); err != nil {
			slog.Warn("failed to initialize embedding service", slog.Any("err", err))
		} else {
			service.EmbeddingService = embedding
		}
	}

	return service
}

// Register mounts all v1 routes on the given Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	group := echoServer.Group("/api/v1")
	group.Use(echomw.CORS())
	group.Use(s.authMiddleware)
	group.Use(middleware.RateLimitMiddleware(s.rateLimiter, func(c echo.Context) string {
		return c.Request().Header.Get(auth.UserIDHeader)
	}))

	group.GET("/context", s.GetContext)

	group.POST("/memories", s.CreateMemory)
	group.GET("/memories", s.ListMemories)
	group.GET("/memories/search", s.SearchMemories)
	group.GET("/memories/:uid", s.GetMemory)
	group.POST("/memories/:uid/supersede", s.SupersedeMemory)
	group.GET("/memories/:uid/provenance", s.ExplainMemory)

	group.POST("/maintenance/cleanup", s.RunCleanup)

	group.GET("/metrics", s.GetMetrics)
	group.GET("/stats", s.GetStats)
}

// authMiddleware resolves the gateway identity header and stores the user in
// the request context. Requests without a resolvable identity are rejected.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		user, err := s.resolver.Resolve(ctx, c.Request().Header.Get(auth.UserIDHeader))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve identity")
		}
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		c.SetRequest(c.Request().WithContext(auth.SetUserInContext(ctx, user)))
		return next(c)
	}
}

// currentUser returns the user resolved by authMiddleware.
func currentUser(c echo.Context) *store.User {
	return auth.UserFromContext(c.Request().Context())
}
