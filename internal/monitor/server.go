package monitor

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/scanctl/internal/clock"
	"github.com/danmuck/scanctl/internal/observability"
	"github.com/danmuck/scanctl/internal/probe"
	"github.com/danmuck/scanctl/internal/program"
)

var ErrPhaseNotRunning = errors.New("monitor: runtime not running")

// StatusView is the monitor-facing snapshot of runtime state.
type StatusView struct {
	Program  string          `json:"program"`
	Phase    string          `json:"phase"`
	PeriodNS int64           `json:"period_ns"`
	Tick     int64           `json:"tick"`
	Cycles   int64           `json:"cycles"`
	Overruns int64           `json:"overruns"`
	Stamp    *clock.TimeSpec `json:"stamp,omitempty"`
}

// StatusFunc renders the current runtime status.
type StatusFunc func() StatusView

// ReprogramFunc swaps the scan cadence of the running runtime.
type ReprogramFunc func(period time.Duration) error

// Server is the HTTP monitor surface for one scan runtime. The runtime
// core never depends on it; the service wires the hooks below before
// Serve.
type Server struct {
	ID       string
	Addr     string
	Appeared time.Time

	Status    StatusFunc
	Reprogram ReprogramFunc
	Store     *probe.SnapshotStore
	Programs  []program.Metadata

	router *gin.Engine
}

func Appear(id, addr string, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(id))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Server{
		ID:       id,
		Addr:     addr,
		Appeared: time.Now(),
		router:   r,
	}
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"runtime": s.ID,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/ready", func(c *gin.Context) {
		ready := false
		phase := ""
		if s.Status != nil {
			phase = s.Status().Phase
			ready = phase == "running"
		}
		c.JSON(http.StatusOK, gin.H{
			"ready":   ready,
			"phase":   phase,
			"uptime":  time.Since(s.Appeared).String(),
			"runtime": s.ID,
			"version": "0.0.1",
		})
	})

	s.router.GET("/status", func(c *gin.Context) {
		if s.Status == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "status unavailable"})
			return
		}
		c.JSON(http.StatusOK, s.Status())
	})

	s.router.GET("/programs", func(c *gin.Context) {
		list := make([]gin.H, 0, len(s.Programs))
		for _, meta := range s.Programs {
			list = append(list, gin.H{
				"id":          meta.ID,
				"name":        meta.Name,
				"description": meta.Description,
			})
		}
		c.JSON(http.StatusOK, gin.H{"programs": list})
	})

	s.router.GET("/snapshot/latest", func(c *gin.Context) {
		if s.Store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "probe disabled"})
			return
		}
		snap, ok := s.Store.Latest()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot"})
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	s.router.POST("/reprogram", func(c *gin.Context) {
		if s.Reprogram == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reprogram unavailable"})
			return
		}
		var req struct {
			Period string `json:"period"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		period, err := time.ParseDuration(req.Period)
		if err != nil || period <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad period"})
			return
		}
		if err := s.Reprogram(period); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrPhaseNotRunning) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		log.Info().Str("runtime", s.ID).Str("period", period.String()).Msg("monitor reprogram accepted")
		c.JSON(http.StatusOK, gin.H{"status": "ok", "period": period.String()})
	})
}

func (s *Server) Serve() error {
	s.RegisterRoutes()
	return s.router.Run(s.Addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
