// Package server runs the quiz protocol TCP listener: one goroutine per
// accepted connection, all sharing the player registry.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/triviad/triviad/internal/metrics"
	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/protocol"
	"github.com/triviad/triviad/internal/services/quiz"
	"github.com/triviad/triviad/internal/services/scoreboard"
)

// Config holds configuration for the TCP server
type Config struct {
	ListenAddr      string
	MaxPayload      int
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults for server configuration
func DefaultConfig() Config {
	return Config{
		ListenAddr:      ":4242",
		MaxPayload:      protocol.DefaultMaxPayload,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server accepts quiz connections and runs one session per connection
type Server struct {
	cfg        Config
	quiz       *quiz.Controller
	scoreboard *scoreboard.Service
	metrics    *metrics.Metrics
	logger     *slog.Logger

	listener net.Listener

	mu    sync.Mutex
	conns map[model.SessionID]*protocol.Conn

	wg sync.WaitGroup
}

// New creates a new quiz server
func New(
	cfg Config,
	quizController *quiz.Controller,
	board *scoreboard.Service,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Server {
	return &Server{
		cfg:        cfg,
		quiz:       quizController,
		scoreboard: board,
		metrics:    m,
		logger:     logger,
		conns:      make(map[model.SessionID]*protocol.Conn),
	}
}

// Listen binds the configured address
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err)
	}
	s.listener = listener
	s.logger.Info("quiz server listening", slog.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound listen address. Valid after Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.ListenAddr
	}
	return s.listener.Addr().String()
}

// Serve accepts connections until the listener is closed. Each connection
// gets a fresh session identity and its own goroutine.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		id := model.SessionID(uuid.NewString())
		framed := protocol.NewConn(conn, s.cfg.MaxPayload)

		s.track(id, framed)
		s.wg.Add(1)
		s.metrics.ActiveSessions.Inc()

		s.logger.Info("connection accepted",
			slog.String("session_id", string(id)),
			slog.String("remote_addr", conn.RemoteAddr().String()),
		)

		go func() {
			defer s.wg.Done()
			defer s.metrics.ActiveSessions.Dec()
			defer s.untrack(id)

			sess := newSession(id, framed, s.quiz, s.scoreboard, s.metrics, s.logger)
			sess.run(ctx)
		}()
	}
}

// Shutdown broadcasts SERVER_TERMINATED to every live connection
// (best-effort), closes the listener and connections, and waits for
// sessions to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down quiz server")

	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Error("listener close failed", slog.String("error", err.Error()))
		}
	}

	s.mu.Lock()
	for id, conn := range s.conns {
		if err := conn.Send(protocol.TokenServerTerminated); err != nil {
			s.logger.Debug("termination notice not delivered",
				slog.String("session_id", string(id)),
			)
		}
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	select {
	case <-done:
		s.logger.Info("quiz server stopped")
		return nil
	case <-shutdownCtx.Done():
		return fmt.Errorf("shutdown: %w", shutdownCtx.Err())
	}
}

func (s *Server) track(id model.SessionID, conn *protocol.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[id] = conn
}

func (s *Server) untrack(id model.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, id)
}
