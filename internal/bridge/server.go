package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/muurk/locsim/internal/logging"
	"github.com/muurk/locsim/internal/mapstate"
	"github.com/muurk/locsim/internal/version"
)

// Config holds the bridge configuration
type Config struct {
	Addr string // Listen address, e.g. ":8787"

	// UserLocationRate caps user_location messages accepted per connection
	// per second. Zero disables throttling.
	UserLocationRate  float64
	UserLocationBurst int
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() *Config {
	return &Config{
		Addr:              ":8787",
		UserLocationRate:  5,
		UserLocationBurst: 1,
	}
}

// EventSource exposes the event streams a bridge relays. mapstate.Store
// satisfies it.
type EventSource interface {
	GoToPointEvents() *mapstate.Broadcaster[mapstate.Coordinate]
	CenterMapEvents() *mapstate.Broadcaster[struct{}]
}

// Dispatcher hands a decoded inbound message to the goroutine that owns the
// map state. It must not block for long.
type Dispatcher func(msg any)

// Server relays map events to connected surfaces over WebSocket and forwards
// their taps and location fixes to a Dispatcher.
type Server struct {
	config   *Config
	events   EventSource
	dispatch Dispatcher
	upgrader websocket.Upgrader

	mu         sync.Mutex
	conns      map[*connection]struct{}
	lastState  *StateSnapshot
	httpServer *http.Server
	listener   net.Listener
	wg         sync.WaitGroup
}

// New creates a new Server instance
func New(config *Config, events EventSource, dispatch Dispatcher) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if dispatch == nil {
		dispatch = func(any) {}
	}
	return &Server{
		config:   config,
		events:   events,
		dispatch: dispatch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Map surfaces are local web views or apps on the same LAN
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*connection]struct{}),
	}
}

// Handler returns the HTTP handler serving /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Listen binds the configured address. Call Serve afterwards.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	logging.Info("Map bridge listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Port returns the bound TCP port, or 0 before Listen.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// Serve accepts connections until Shutdown is called.
func (s *Server) Serve() error {
	s.mu.Lock()
	srv, listener := s.httpServer, s.listener
	s.mu.Unlock()
	if srv == nil {
		return errors.New("bridge: Serve called before Listen")
	}

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge serve failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections, closes open ones and waits for
// their handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	// Hijacked WebSocket connections are not tracked by http.Server
	s.mu.Lock()
	for c := range s.conns {
		c.close()
	}
	s.mu.Unlock()
	s.wg.Wait()

	logging.Info("Map bridge stopped")
	return err
}

// PublishState pushes a state snapshot to every connected surface and keeps
// it for surfaces that connect later.
func (s *Server) PublishState(state mapstate.State) {
	snap := Snapshot(state)
	msg := Message{Type: TypeState, State: snap}

	s.mu.Lock()
	s.lastState = snap
	conns := make([]*connection, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.enqueue(msg)
	}
}

// Connections returns the number of connected surfaces.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "ok %d\n", s.Connections())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	var limiter *rate.Limiter
	if s.config.UserLocationRate > 0 {
		burst := s.config.UserLocationBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(s.config.UserLocationRate), burst)
	}

	c := newConnection(ws, r.RemoteAddr, limiter)
	goToPoint := s.events.GoToPointEvents().Subscribe()
	centerMap := s.events.CenterMapEvents().Subscribe()

	s.mu.Lock()
	s.conns[c] = struct{}{}
	last := s.lastState
	s.mu.Unlock()

	logging.LogConnection(c.remoteAddr, "surface_connected")

	defer func() {
		goToPoint.Unsubscribe()
		centerMap.Unsubscribe()
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
		c.close()
		logging.LogConnection(c.remoteAddr, "surface_disconnected")
	}()

	c.enqueue(Message{Type: TypeHello, Version: version.Version, Protocol: version.Protocol})
	if last != nil {
		c.enqueue(Message{Type: TypeState, State: last})
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop(goToPoint, centerMap)
	}()

	c.readLoop(s.dispatch)
	c.close()
	<-writerDone
}
