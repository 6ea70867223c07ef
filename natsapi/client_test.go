package natsapi

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/api"
	"github.com/domino14/tilegrid/config"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/runner"
	"github.com/domino14/tilegrid/store"
)

// slowBackend delays selected calls and counts how often each one ran.
type slowBackend struct {
	api.Backend
	joinDelay time.Duration
	getDelay  time.Duration
	joins     atomic.Int32
	gets      atomic.Int32
}

func (b *slowBackend) JoinGame(ctx context.Context, gameID string) (*api.JoinResponse, error) {
	b.joins.Add(1)
	time.Sleep(b.joinDelay)
	return b.Backend.JoinGame(ctx, gameID)
}

// GetGame is slow on its first call only.
func (b *slowBackend) GetGame(ctx context.Context, gameID, playerID string) (*api.GameResponse, error) {
	if b.gets.Add(1) == 1 {
		time.Sleep(b.getDelay)
	}
	return b.Backend.GetGame(ctx, gameID, playerID)
}

func runNatsServer(t *testing.T) *nats.Conn {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	require.NoError(t, err)
	go ns.Start()
	t.Cleanup(ns.Shutdown)
	require.True(t, ns.ReadyForConnections(5*time.Second), "nats server not ready")
	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func newSlowBackend(t *testing.T) *slowBackend {
	t.Helper()
	r, err := runner.New(config.DefaultConfig(), store.NewMemoryStore(),
		runner.WithDictionary(lexicon.AcceptAll{}),
		runner.WithRandomizer(alphabet.NewSeededRandomizer(5)))
	require.NoError(t, err)
	return &slowBackend{Backend: api.NewService(r)}
}

func startResponder(t *testing.T, nc *nats.Conn, backend api.Backend) {
	t.Helper()
	resp := NewResponder(backend, "tg", 0)
	require.NoError(t, resp.Start(nc))
	t.Cleanup(func() { resp.Stop() })
	require.NoError(t, nc.Flush())
}

func TestJoinNotResentAfterTimeout(t *testing.T) {
	is := is.New(t)
	nc := runNatsServer(t)
	backend := newSlowBackend(t)
	backend.joinDelay = 150 * time.Millisecond
	startResponder(t, nc, backend)

	ctx := context.Background()
	created, err := backend.CreateGame(ctx, api.CreateGameRequest{})
	is.NoErr(err)

	client := NewClient(nc, "tg", 50*time.Millisecond, 3)
	_, err = client.JoinGame(ctx, created.ID)
	is.True(err != nil)
	assert.ErrorIs(t, err, nats.ErrTimeout)

	// let the in-flight join finish before counting
	time.Sleep(300 * time.Millisecond)
	is.Equal(backend.joins.Load(), int32(1))
	g, err := backend.Backend.GetGame(ctx, created.ID, "")
	is.NoErr(err)
	is.Equal(len(g.Players), 1)
}

func TestGetResentAfterTimeout(t *testing.T) {
	is := is.New(t)
	nc := runNatsServer(t)
	backend := newSlowBackend(t)
	backend.getDelay = 150 * time.Millisecond
	startResponder(t, nc, backend)

	ctx := context.Background()
	created, err := backend.CreateGame(ctx, api.CreateGameRequest{})
	is.NoErr(err)

	client := NewClient(nc, "tg", 100*time.Millisecond, 3)
	g, err := client.GetGame(ctx, created.ID, "")
	is.NoErr(err)
	is.Equal(g.ID, created.ID)
	is.True(backend.gets.Load() >= 2)
}

func TestCreateWithoutResponders(t *testing.T) {
	nc := runNatsServer(t)
	client := NewClient(nc, "tg", 50*time.Millisecond, 2)
	_, err := client.CreateGame(context.Background(), api.CreateGameRequest{})
	assert.ErrorIs(t, err, nats.ErrNoResponders)
}

func TestRetryIf(t *testing.T) {
	is := is.New(t)
	for _, op := range []string{OpGetGame, OpGetMove, OpTranscript, OpSubmitMove} {
		is.True(retryIf(op)(nats.ErrTimeout))
		is.True(retryIf(op)(nats.ErrNoResponders))
	}
	for _, op := range []string{OpCreateGame, OpJoinGame} {
		is.True(!retryIf(op)(nats.ErrTimeout))
		is.True(retryIf(op)(nats.ErrNoResponders))
	}
	is.True(!retryIf(OpGetGame)(store.ErrNotFound))
}
