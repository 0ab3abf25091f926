package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/log"
	"github.com/chartsync/chartsync/pkg/metrics"
	"github.com/chartsync/chartsync/pkg/reconciler"
)

// Server exposes reconciliation over HTTP
type Server struct {
	engine  *reconciler.Engine
	journal *journal.Journal
	logger  zerolog.Logger
	http    *http.Server
}

// NewServer creates an API server around an engine. The journal is
// optional; without it the history endpoint reports empty.
func NewServer(engine *reconciler.Engine, j *journal.Journal) *Server {
	return &Server{
		engine:  engine,
		journal: j,
		logger:  log.WithComponent("api"),
	}
}

// Router builds the HTTP routing table. Exposed separately so tests
// can drive it without a listener.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestMetrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.GET("/healthz", gin.WrapF(metrics.HealthHandler()))
	r.GET("/readyz", gin.WrapF(metrics.ReadyHandler()))
	r.GET("/livez", gin.WrapF(metrics.LivenessHandler()))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/reconcile", s.reconcile)
		v1.GET("/version", s.version)
		v1.GET("/releases", s.listReleases)
		v1.GET("/releases/:name", s.releaseStatus)
		v1.GET("/releases/:name/history", s.releaseHistory)
		v1.GET("/history", s.history)
	}

	return r
}

// Start begins serving on addr and blocks until shutdown
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("API listening")
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
