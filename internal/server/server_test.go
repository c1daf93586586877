package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/triviad/triviad/internal/metrics"
	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/protocol"
	"github.com/triviad/triviad/internal/services/questions"
	"github.com/triviad/triviad/internal/services/quiz"
	"github.com/triviad/triviad/internal/services/scoreboard"
	"github.com/triviad/triviad/internal/storage/memory"
	"github.com/triviad/triviad/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, *memory.Registry) {
	t.Helper()

	registry := memory.New()
	bank := questions.New(testutil.NopLogger())
	bank.LoadQuestions(model.ThemeTech, []model.Question{{Text: "q", Answer: "a"}})
	bank.LoadQuestions(model.ThemeGeneral, []model.Question{{Text: "q", Answer: "a"}})

	m := metrics.New()
	controller := quiz.NewController(registry, bank, m, testutil.NopLogger())
	board := scoreboard.New(registry, bank)

	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.ShutdownTimeout = 5 * time.Second

	return New(cfg, controller, board, m, testutil.NopLogger()), registry
}

func TestServerAcceptsAndRegisters(t *testing.T) {
	srv, registry := newTestServer(t)
	require.NoError(t, srv.Listen())

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(context.Background()) }()

	raw, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	conn := protocol.NewConn(raw, protocol.DefaultMaxPayload)

	require.NoError(t, conn.Send("alice"))
	msg, err := conn.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TokenOK, msg)

	require.Eventually(t, func() bool {
		snap, err := registry.Snapshot(context.Background())
		return err == nil && len(snap) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, <-serveDone)
}

func TestShutdownBroadcastsTermination(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NoError(t, srv.Listen())

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(context.Background()) }()

	raw, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	conn := protocol.NewConn(raw, protocol.DefaultMaxPayload)

	require.NoError(t, conn.Send("alice"))
	msg, err := conn.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TokenOK, msg)

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- srv.Shutdown(context.Background()) }()

	msg, err = conn.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TokenServerTerminated, msg)

	require.NoError(t, <-shutdownDone)
	require.NoError(t, <-serveDone)
}

func TestShutdownDrainsRegistry(t *testing.T) {
	srv, registry := newTestServer(t)
	require.NoError(t, srv.Listen())

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(context.Background()) }()

	raw, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	conn := protocol.NewConn(raw, protocol.DefaultMaxPayload)

	require.NoError(t, conn.Send("alice"))
	_, err = conn.Receive()
	require.NoError(t, err)

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, <-serveDone)

	snap, err := registry.Snapshot(context.Background())
	require.NoError(t, err)
	require.Empty(t, snap)
}
