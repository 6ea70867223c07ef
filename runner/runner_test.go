package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/config"
	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/move"
	"github.com/domino14/tilegrid/store"
)

func sequentialIDs() func() string {
	var n int64
	return func() string {
		return fmt.Sprintf("id-%d", atomic.AddInt64(&n, 1))
	}
}

func newRunner(t *testing.T, st store.Store, dict lexicon.Dictionary) *Runner {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigPoolSize, 100)
	r, err := New(cfg, st,
		WithDictionary(dict),
		WithRandomizer(alphabet.NewSeededRandomizer(42)),
		WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	return r
}

// twoPlayerGame creates a 15x15 game and seats two players.
func twoPlayerGame(t *testing.T, r *Runner) (string, []*game.Player) {
	t.Helper()
	ctx := context.Background()
	g, err := r.CreateGame(ctx, GameOptions{Width: 15, MaxPlayers: 2})
	require.NoError(t, err)
	var players []*game.Player
	for i := 0; i < 2; i++ {
		p, err := r.JoinGame(ctx, g.ID)
		require.NoError(t, err)
		players = append(players, p)
	}
	return g.ID, players
}

func TestNewLoadsConfiguredLexicon(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigLexicon, lexicon.AcceptAllName)
	r, err := New(cfg, store.NewMemoryStore())
	is.NoErr(err)
	is.Equal(r.Dictionary().Name(), "AcceptAll")

	cfg.Set(config.ConfigLexicon, "nonsense")
	_, err = New(cfg, store.NewMemoryStore())
	is.True(errors.Is(err, lexicon.ErrUnknownLexicon))
}

func TestCreateGameDefaults(t *testing.T) {
	is := is.New(t)
	r := newRunner(t, store.NewMemoryStore(), lexicon.Default())
	g, err := r.CreateGame(context.Background(), GameOptions{})
	is.NoErr(err)
	is.Equal(g.Width, 15)
	is.Equal(g.MaxPlayers, 2)
	is.Equal(g.Pool.TilesRemaining(), 100)

	_, err = r.CreateGame(context.Background(), GameOptions{Width: 1, MaxPlayers: 2})
	is.True(errors.Is(err, game.ErrInvalidGameOptions))
}

func TestJoinGame(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	r := newRunner(t, store.NewMemoryStore(), lexicon.Default())
	gameID, players := twoPlayerGame(t, r)
	is.Equal(players[0].Order, 0)
	is.Equal(players[1].Order, 1)
	is.Equal(players[0].Rack.NumTiles(), alphabet.RackTileLimit)

	view, err := r.GameState(ctx, gameID, "")
	is.NoErr(err)
	is.Equal(view.Game.Status, game.StatusPlaying)
	is.Equal(view.Game.Pool.TilesRemaining(), 86)
	is.Equal(len(view.Players), 2)

	_, err = r.JoinGame(ctx, gameID)
	is.True(errors.Is(err, game.ErrGameAlreadyStarted))

	_, err = r.JoinGame(ctx, "missing")
	is.True(errors.Is(err, store.ErrNotFound))
	is.True(!game.IsRuleViolation(err))
}

func TestFirstMoveAtCenter(t *testing.T) {
	for name, st := range map[string]func(t *testing.T) store.Store{
		"memory": func(t *testing.T) store.Store { return store.NewMemoryStore() },
		"sqlite": func(t *testing.T) store.Store {
			s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "e2e.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			ctx := context.Background()
			r := newRunner(t, st(t), lexicon.Default())
			gameID, players := twoPlayerGame(t, r)

			letter := players[0].Rack[3]
			out, err := r.SubmitMove(ctx, gameID, players[0].ID, 0,
				[]move.Placement{{Pos: 112, Letter: letter}})
			is.NoErr(err)
			is.Equal(out.Move.Score, 0)
			is.Equal(out.Game.NextMoveSeq, 1)
			is.Equal(out.Game.NextPlayerOrder, 1)
			is.Equal(out.Player.Rack.NumTiles(), alphabet.RackTileLimit)

			view, err := r.GameState(ctx, gameID, players[1].ID)
			is.NoErr(err)
			is.Equal(view.Game.Board.Letter(112), letter)
			is.Equal(view.Game.NextPlayerOrder, 1)
			is.Equal(view.Viewer.Rack, players[1].Rack)

			m, err := r.GetMove(ctx, gameID, 0)
			is.NoErr(err)
			is.Equal(m.Placements, []move.Placement{{Pos: 112, Letter: letter}})
			is.Equal(m.PlayerID, players[0].ID)
		})
	}
}

func TestDisconnectedMoveIsRejected(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	r := newRunner(t, store.NewMemoryStore(), lexicon.Default())
	gameID, players := twoPlayerGame(t, r)

	before, err := r.GameState(ctx, gameID, players[0].ID)
	is.NoErr(err)
	_, err = r.SubmitMove(ctx, gameID, players[0].ID, 0,
		[]move.Placement{{Pos: 0, Letter: players[0].Rack[0]}})
	is.True(errors.Is(err, game.ErrNotConnected))

	after, err := r.GameState(ctx, gameID, players[0].ID)
	is.NoErr(err)
	is.True(after.Game.Board.Equals(before.Game.Board))
	is.Equal(after.Viewer.Rack, before.Viewer.Rack)
	is.Equal(after.Game.NextMoveSeq, 0)
}

func TestUnknownWordIsRejected(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	r := newRunner(t, store.NewMemoryStore(), lexicon.NewWordList("empty"))
	gameID, players := twoPlayerGame(t, r)
	rack := players[0].Rack

	_, err := r.SubmitMove(ctx, gameID, players[0].ID, 0, []move.Placement{
		{Pos: 111, Letter: rack[0]}, {Pos: 112, Letter: rack[1]}, {Pos: 113, Letter: rack[2]}})
	var uw *game.UnknownWordError
	is.True(errors.As(err, &uw))
	is.Equal(len(uw.Word), 3)

	view, err := r.GameState(ctx, gameID, players[0].ID)
	is.NoErr(err)
	is.Equal(view.Viewer.Rack, rack)
	is.Equal(view.Viewer.Score, 0)
	is.True(!view.Game.Board.HasTiles())
	_, err = r.GetMove(ctx, gameID, 0)
	is.True(errors.Is(err, store.ErrNotFound))
}

func TestTurnOrderAndSequencing(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	r := newRunner(t, store.NewMemoryStore(), lexicon.AcceptAll{})
	gameID, players := twoPlayerGame(t, r)

	_, err := r.SubmitMove(ctx, gameID, players[1].ID, 0, nil)
	is.True(errors.Is(err, game.ErrNotPlayersTurn))
	_, err = r.SubmitMove(ctx, gameID, players[0].ID, 5, nil)
	is.True(errors.Is(err, game.ErrNotNextMove))

	out, err := r.SubmitMove(ctx, gameID, players[0].ID, 0,
		[]move.Placement{{Pos: 112, Letter: players[0].Rack[0]}})
	is.NoErr(err)
	// a resubmission of the same move is stale
	_, err = r.SubmitMove(ctx, gameID, players[0].ID, 0,
		[]move.Placement{{Pos: 113, Letter: out.Player.Rack[0]}})
	is.True(errors.Is(err, game.ErrNotNextMove))

	out, err = r.SubmitMove(ctx, gameID, players[1].ID, 1,
		[]move.Placement{{Pos: 113, Letter: players[1].Rack[0]}})
	is.NoErr(err)
	is.Equal(out.Move.Score, 1)
	is.Equal(out.Player.Score, 1)
	is.Equal(out.Game.NextPlayerOrder, 0)
	is.Equal(out.Game.NextMoveSeq, 2)
}

func TestPlayerMustBelongToGame(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	r := newRunner(t, store.NewMemoryStore(), lexicon.AcceptAll{})
	g1, _ := twoPlayerGame(t, r)
	_, others := twoPlayerGame(t, r)

	_, err := r.GameState(ctx, g1, others[0].ID)
	is.True(errors.Is(err, game.ErrPlayerNotInGame))
	_, err = r.SubmitMove(ctx, g1, others[0].ID, 0, nil)
	is.True(errors.Is(err, game.ErrPlayerNotInGame))
	_, err = r.GameState(ctx, g1, "nobody")
	is.True(errors.Is(err, store.ErrNotFound))
}

func TestReadsDoNotAdvanceTheGame(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	r := newRunner(t, store.NewMemoryStore(), lexicon.AcceptAll{})
	gameID, players := twoPlayerGame(t, r)
	_, err := r.SubmitMove(ctx, gameID, players[0].ID, 0,
		[]move.Placement{{Pos: 112, Letter: players[0].Rack[0]}})
	is.NoErr(err)

	for i := 0; i < 5; i++ {
		view, err := r.GameState(ctx, gameID, players[i%2].ID)
		is.NoErr(err)
		is.Equal(view.Game.NextMoveSeq, 1)
		is.Equal(view.Game.NextPlayerOrder, 1)
		_, err = r.GetMove(ctx, gameID, 0)
		is.NoErr(err)
		_, err = r.History(ctx, gameID)
		is.NoErr(err)
	}
}

func TestConcurrentSubmissionsCommitOnce(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t, store.NewMemoryStore(), lexicon.AcceptAll{})
	gameID, players := twoPlayerGame(t, r)
	placements := []move.Placement{{Pos: 112, Letter: players[0].Rack[0]}}

	var wg sync.WaitGroup
	var accepted, stale int64
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.SubmitMove(ctx, gameID, players[0].ID, 0, placements)
			switch {
			case err == nil:
				atomic.AddInt64(&accepted, 1)
			case errors.Is(err, game.ErrNotNextMove):
				atomic.AddInt64(&stale, 1)
			default:
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, accepted)
	assert.EqualValues(t, 15, stale)
	assert.Equal(t, 0, r.locks.size())

	h, err := r.History(ctx, gameID)
	require.NoError(t, err)
	assert.Len(t, h.Moves, 1)
}

func TestHistory(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	r := newRunner(t, store.NewMemoryStore(), lexicon.AcceptAll{})
	gameID, players := twoPlayerGame(t, r)
	_, err := r.SubmitMove(ctx, gameID, players[0].ID, 0,
		[]move.Placement{{Pos: 112, Letter: players[0].Rack[0]}})
	is.NoErr(err)
	_, err = r.SubmitMove(ctx, gameID, players[1].ID, 1, nil)
	is.NoErr(err)

	h, err := r.History(ctx, gameID)
	is.NoErr(err)
	is.Equal(h.Game.ID, gameID)
	is.Equal(len(h.Players), 2)
	is.Equal(len(h.Moves), 2)
	is.Equal(h.Moves[1].Seq, 1)
	is.Equal(h.Moves[1].PlayerID, players[1].ID)
}
