// Package inspect serves the stub backend's widget graph and loop state over
// HTTP so a developer can look inside a running host.
//
// Endpoints:
//
//	GET  /health        {"status":"ok"}
//	GET  /widgets       all widgets in creation order
//	GET  /widgets/:id   one widget, 404 when unknown
//	GET  /widgets/:id/children
//	GET  /loop          {"state":"running"|"idle"}
//	POST /loop/quit     stops the loop
//	GET  /traces        recent trace records
package inspect

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vitte-lang/desktop/pkg/loop"
	"github.com/vitte-lang/desktop/pkg/registry"
	"github.com/vitte-lang/desktop/pkg/trace"
	"github.com/vitte-lang/desktop/pkg/widget"
)

// Source is what the server reads from.
type Source interface {
	Registry() *registry.Registry
	Loop() *loop.Controller
}

// Server is the inspection HTTP server.
type Server struct {
	src    Source
	traces *trace.Recorder
	echo   *echo.Echo

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New builds a server over src. traces may be nil, in which case /traces
// returns an empty list.
func New(src Source, traces *trace.Recorder) *Server {
	s := &Server{src: src, traces: traces}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/health", s.handleHealth)
	e.GET("/widgets", s.handleWidgets)
	e.GET("/widgets/:id", s.handleWidget)
	e.GET("/widgets/:id/children", s.handleChildren)
	e.GET("/loop", s.handleLoop)
	e.POST("/loop/quit", s.handleQuit)
	e.GET("/traces", s.handleTraces)
	s.echo = e
	return s
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when addr uses port 0. Starting a running
// server returns its current address.
func (s *Server) Start(addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr().String(), nil
	}

	// Bind first to fail fast on port conflicts.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("inspect listen: %w", err)
	}
	srv := &http.Server{Handler: s.echo, ReadHeaderTimeout: 5 * time.Second}
	s.server = srv
	s.listener = ln

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.mu.Lock()
			s.server = nil
			s.listener = nil
			s.mu.Unlock()
			s.echo.Logger.Errorf("inspect server error: %v", err)
		}
	}()
	return ln.Addr().String(), nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWidgets(c echo.Context) error {
	return c.JSON(http.StatusOK, s.src.Registry().Snapshot())
}

func (s *Server) handleWidget(c echo.Context) error {
	w, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w.Snapshot())
}

func (s *Server) handleChildren(c echo.Context) error {
	w, err := s.lookup(c)
	if err != nil {
		return err
	}
	children := s.src.Registry().Children(w.ID())
	if children == nil {
		children = []widget.Snapshot{}
	}
	return c.JSON(http.StatusOK, children)
}

func (s *Server) lookup(c echo.Context) (*widget.Widget, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid widget id")
	}
	w, ok := s.src.Registry().Lookup(widget.ID(id))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "widget not found")
	}
	return w, nil
}

type loopStatus struct {
	State   string `json:"state"`
	Widgets int    `json:"widgets"`
}

func (s *Server) status() loopStatus {
	return loopStatus{
		State:   s.src.Loop().State().String(),
		Widgets: s.src.Registry().Len(),
	}
}

func (s *Server) handleLoop(c echo.Context) error {
	return c.JSON(http.StatusOK, s.status())
}

func (s *Server) handleQuit(c echo.Context) error {
	s.src.Loop().Quit()
	return c.JSON(http.StatusOK, s.status())
}

func (s *Server) handleTraces(c echo.Context) error {
	records := []trace.Record{}
	if s.traces != nil {
		records = s.traces.Records()
	}
	return c.JSON(http.StatusOK, records)
}
