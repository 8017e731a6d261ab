// Package web provides an HTTP status server for the mode-button daemon.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/sweeney/mode-button/internal/status"
)

// LEDHolder reports which activity currently drives the LED ("" when free).
type LEDHolder interface {
	Holder() string
}

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	led        LEDHolder
}

// New creates a Server that reads state from the given tracker and LED
// arbiter. led may be nil. If metrics is non-nil it is mounted at /metrics.
func New(addr string, tracker *status.Tracker, led LEDHolder, metrics http.Handler) *Server {
	s := &Server{tracker: tracker, led: led}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/led", s.handleLED)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Handler returns the server's request router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, s.ledHolder())
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// LEDJSON is the /led response.
type LEDJSON struct {
	LED LEDInner `json:"led"`
}

// LEDInner describes the current LED owner.
type LEDInner struct {
	Busy   bool   `json:"busy"`
	Holder string `json:"holder,omitempty"`
}

func (s *Server) ledHolder() string {
	if s.led == nil {
		return ""
	}
	return s.led.Holder()
}

// handleLED reports who holds the LED right now. Polling it while pressing
// the button shows the heartbeat yielding to the classifier.
func (s *Server) handleLED(w http.ResponseWriter, r *http.Request) {
	if s.led == nil {
		http.Error(w, "led arbiter not available", http.StatusServiceUnavailable)
		return
	}
	holder := s.led.Holder()
	data, _ := json.Marshal(LEDJSON{LED: LEDInner{Busy: holder != "", Holder: holder}})
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
