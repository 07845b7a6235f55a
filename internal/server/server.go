// file: internal/server/server.go
// version: 2.0.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e9f

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/jdfalk/cfr-navigator/internal/cache"
	"github.com/jdfalk/cfr-navigator/internal/catalog"
	"github.com/jdfalk/cfr-navigator/internal/config"
	"github.com/jdfalk/cfr-navigator/internal/database"
	"github.com/jdfalk/cfr-navigator/internal/metrics"
	"github.com/jdfalk/cfr-navigator/internal/progress"
	"github.com/jdfalk/cfr-navigator/internal/realtime"
	"github.com/jdfalk/cfr-navigator/internal/search"
	"github.com/jdfalk/cfr-navigator/internal/server/middleware"
)

// Version is reported by the health endpoint.
var Version = "dev"

const defaultSearchCacheSize = 512

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine

	catalog  *catalog.Catalog
	progress *progress.Service
	hub      *realtime.EventHub
	searches *cache.Cache[search.Response]

	opts      Options
	startedAt time.Time
}

// Options tune the HTTP surface.
type Options struct {
	StaticDir          string
	DatabaseType       string
	RateLimitPerMinute int // 0 disables rate limiting
	RateLimitBurst     int
	MaxBodyBytes       int64
	SearchCacheTTL     time.Duration // 0 disables the search cache
	SearchCacheSize    int
}

// OptionsFromConfig maps application config onto server options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		StaticDir:          cfg.StaticDir,
		DatabaseType:       cfg.DatabaseType,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RateLimitBurst:     cfg.RateLimitBurst,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		SearchCacheTTL:     cfg.SearchCacheTTL,
	}
}

// ServerConfig holds listener configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration // 0 keeps SSE streams open
	IdleTimeout  time.Duration
}

// NewServer wires the catalog and progress store into a router.
func NewServer(cat *catalog.Catalog, store database.Store, opts Options) *Server {
	if opts.SearchCacheSize <= 0 {
		opts.SearchCacheSize = defaultSearchCacheSize
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(requestLogging())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	if opts.RateLimitPerMinute > 0 {
		limiter := middleware.NewIPRateLimiter(opts.RateLimitPerMinute, opts.RateLimitBurst).
			Exempt("/metrics", "/api/events")
		router.Use(limiter.Middleware())
	}
	router.Use(middleware.MaxRequestBodySize(opts.MaxBodyBytes))

	// Register metrics (idempotent)
	metrics.Register()

	s := &Server{
		router:    router,
		catalog:   cat,
		progress:  progress.NewService(store),
		hub:       realtime.NewEventHub(),
		searches:  cache.NewBounded[search.Response](opts.SearchCacheTTL, opts.SearchCacheSize),
		opts:      opts,
		startedAt: time.Now(),
	}

	cat.OnReload(s.catalogReloaded)
	s.setupRoutes()
	return s
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler { return s.router }

// Hub returns the event hub.
func (s *Server) Hub() *realtime.EventHub { return s.hub }

func (s *Server) catalogReloaded(snap *catalog.Snapshot) {
	dropped := s.searches.Len()
	s.searches.InvalidateAll()
	s.hub.SendCatalogReloaded(snap.Generation, snap.Len())
	NewServiceLogger("catalog", "").LogOperation("reload", map[string]any{
		"generation":     snap.Generation,
		"conditions":     snap.Len(),
		"cached_dropped": dropped,
	})
}

// Start serves until SIGINT or SIGTERM.
func (s *Server) Start(cfg ServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx, cfg)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	// SSE handlers return once their client channel is closed.
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	s.router.GET("/api/events", s.hub.HandleSSE)

	// The bundled front end reads the raw catalog from these two paths.
	s.router.GET("/api/conditions", s.legacyListConditions)
	s.router.GET("/api/conditions/:id", s.legacyGetCondition)

	api := s.router.Group("/api/v1")
	{
		api.GET("/conditions", s.searchConditions)
		api.GET("/conditions/:id", s.getCondition)
		api.GET("/conditions/:id/jump", s.jumpCondition)

		api.GET("/conditions/:id/notes", s.getNotes)
		api.PUT("/conditions/:id/notes", s.saveNotes)
		api.DELETE("/conditions/:id/notes", s.clearNotes)

		api.GET("/conditions/:id/evidence", s.getEvidence)
		api.DELETE("/conditions/:id/evidence", s.clearEvidence)
		api.GET("/conditions/:id/evidence/export", s.exportEvidence)
		api.PUT("/conditions/:id/evidence/:index", s.setEvidence)

		api.GET("/query/parse", s.parseQuery)
		api.GET("/systems", s.listSystems)
		api.GET("/progress", s.listProgress)
	}

	s.setupStaticFiles()
}

// legacyAPIRedirect returns the /api/v1 path for an unversioned API path.
func legacyAPIRedirect(path string) (string, bool) {
	if !strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/api/v1/") ||
		strings.HasPrefix(path, "/api/health") ||
		strings.HasPrefix(path, "/api/events") {
		return "", false
	}
	return strings.Replace(path, "/api/", "/api/v1/", 1), true
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "OPTIONS, GET, PUT, DELETE")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogging logs one line per request once it has been handled.
func requestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		rl := NewRequestLogger(
			middleware.GetRequestID(c),
			c.ClientIP(),
			c.Request.UserAgent(),
			c.Request.Method,
			c.Request.URL.Path,
		)
		c.Next()
		rl.LogResponse(c.Writer.Status(), c.Writer.Size())
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	snap := s.catalog.Snapshot()
	resp := HealthResponse{
		Status:       "ok",
		Version:      Version,
		Uptime:       int64(time.Since(s.startedAt).Seconds()),
		Timestamp:    time.Now().Unix(),
		Conditions:   snap.Len(),
		Generation:   snap.Generation,
		DatabaseType: s.opts.DatabaseType,
		EventClients: s.hub.GetClientCount(),
	}
	if snap.Generation == 0 {
		resp.Status = "degraded"
	} else {
		loaded := snap.LoadedAt
		resp.LoadedAt = &loaded
	}
	c.JSON(http.StatusOK, resp)
}

// GetDefaultServerConfig returns default server configuration
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         "3000",
		Host:         "localhost",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
}

// ServerConfigFromConfig builds listener settings from application config.
func ServerConfigFromConfig(cfg config.Config) ServerConfig {
	sc := GetDefaultServerConfig()
	if cfg.Host != "" {
		sc.Host = cfg.Host
	}
	if cfg.Port > 0 {
		sc.Port = strconv.Itoa(cfg.Port)
	}
	return sc
}
