package metric

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the scrape endpoint at /metrics on a TCP address.
type Server struct {
	addr    string
	metrics *Metrics

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

// NewServer creates a metrics server. It does not bind until Start.
func NewServer(addr string, metrics *Metrics) *Server {
	return &Server{addr: addr, metrics: metrics}
}

// Start binds the address and serves in the background. It returns once
// the listener is bound, so a bad address fails here rather than later.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return fmt.Errorf("metrics server already running on %s", s.listener.Addr())
	}
	if s.metrics == nil {
		return fmt.Errorf("metrics server needs a metric set")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind metrics address %q: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metrics.Registry(),
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.listener = ln
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() { _ = s.server.Serve(ln) }()
	return nil
}

// Stop closes the server. Safe to call when not started.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	err := s.server.Close()
	s.server = nil
	s.listener = nil
	return err
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
