// Package admin exposes a read-only HTTP introspection surface over a
// running sysexconf engine: connection state, installed layout, and
// Prometheus metrics. It never calls the engine's non-reentrant
// HandleMessage entry point; every route reads only the engine's
// layout/connection accessors or the Stats snapshot populated by the
// transport goroutine.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/faderbank/sysexconf/internal/observability"
	"github.com/faderbank/sysexconf/internal/sysex"
)

// Server is the admin HTTP surface. It is safe to run on its own
// goroutine alongside the transport loop driving the engine.
type Server struct {
	engine    *sysex.Engine
	stats     *observability.Stats
	router    *gin.Engine
	startedAt time.Time
}

// NewServer builds the admin router for engine, observing status counts
// through stats. logger drives the request-logging middleware.
func NewServer(engine *sysex.Engine, stats *observability.Stats, logger zerolog.Logger) *Server {
	s := &Server{
		engine:    engine,
		stats:     stats,
		router:    gin.New(),
		startedAt: time.Now(),
	}
	s.router.Use(gin.Recovery())
	s.router.Use(observability.RequestLogger(logger))
	s.router.Use(observability.RequestMetricsMiddleware())
	s.registerRoutes()
	return s
}

// Router exposes the underlying gin engine, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// ListenAndServe runs the admin HTTP surface. It blocks until the server
// stops or fails.
func (s *Server) ListenAndServe(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/connection", s.handleConnection)
	s.router.GET("/layout", s.handleLayout)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "sysexd",
		"uptime":  time.Since(s.startedAt).String(),
	})
}

func (s *Server) handleConnection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"open":   s.engine.IsConnectionOpen(),
		"silent": s.engine.IsSilent(),
		"status_counts": statusCountLabels(s.stats.Snapshot()),
	})
}

func (s *Server) handleLayout(c *gin.Context) {
	blockCount := s.engine.BlockCount()
	blocks := make([]gin.H, 0, blockCount)
	for b := 0; b < blockCount; b++ {
		sectionCount := s.engine.SectionCount(b)
		sections := make([]gin.H, 0, sectionCount)
		for sec := 0; sec < sectionCount; sec++ {
			min, max := s.engine.ValueRange(b, sec)
			sections = append(sections, gin.H{
				"index":           sec,
				"parameter_count": s.engine.ParameterCount(b, sec),
				"value_min":       min,
				"value_max":       max,
				"part_count":      s.engine.PartCount(b, sec),
			})
		}
		blocks = append(blocks, gin.H{
			"index":    b,
			"sections": sections,
		})
	}
	c.JSON(http.StatusOK, gin.H{"block_count": blockCount, "blocks": blocks})
}

func statusCountLabels(snapshot map[sysex.Status]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(snapshot))
	for status, count := range snapshot {
		out[statusHex(status)] = count
	}
	return out
}

func statusHex(status sysex.Status) string {
	const hexDigits = "0123456789ABCDEF"
	return string([]byte{'0', 'x', hexDigits[status>>4], hexDigits[status&0x0F]})
}
