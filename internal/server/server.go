package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"confposter/pkg/logger"
	"confposter/pkg/scheduler"
)

// Server exposes the publisher over HTTP: one endpoint to invoke a
// tenant operation and one to read recent log entries. It exists for an
// external scheduler or an operator, not for end users; there is no auth.
type Server struct {
	engine  *gin.Engine
	runners map[string]*scheduler.Scheduler
	ring    *logger.Ring
	logger  logger.Logger

	// runMu serializes post runs within this process so an overlapping
	// manual trigger cannot double-publish the same rows.
	runMu sync.Mutex
}

// New creates the HTTP server for the given tenant schedulers.
func New(runners map[string]*scheduler.Scheduler, ring *logger.Ring, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:  engine,
		runners: make(map[string]*scheduler.Scheduler, len(runners)),
		ring:    ring,
		logger:  log,
	}
	for name, sched := range runners {
		s.runners[strings.ToLower(name)] = sched
	}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/api/logs", s.handleLogs)
	engine.POST("/api/run/:tenant/:op", s.handleRun)

	return s
}

// Handler returns the http.Handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe runs the server on the given port until the listener
// fails or the process exits.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.InfoWithFields("http server listening", map[string]interface{}{
		"addr": addr,
	})
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleLogs returns the most recent captured log entries.
func (s *Server) handleLogs(c *gin.Context) {
	if s.ring == nil {
		c.JSON(http.StatusOK, []logger.Entry{})
		return
	}
	c.JSON(http.StatusOK, s.ring.Recent(100))
}

// handleRun invokes one operation for one tenant. Malformed invocation
// parameters are the only errors surfaced with a failure status; the
// operations themselves never fail the request.
func (s *Server) handleRun(c *gin.Context) {
	tenant := strings.ToLower(c.Param("tenant"))
	op := strings.ToLower(c.Param("op"))

	sched, ok := s.runners[tenant]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("unknown tenant %q", tenant)})
		return
	}

	ctx := c.Request.Context()
	var result interface{}

	switch op {
	case "post":
		s.runMu.Lock()
		result = sched.Run(ctx)
		s.runMu.Unlock()
	case "count":
		result = sched.CountReady(ctx)
	case "test":
		result = sched.TestQuota(ctx)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("unknown operation %q", op)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
