package transcript

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/config"
	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/move"
	"github.com/domino14/tilegrid/runner"
	"github.com/domino14/tilegrid/store"
)

func playedHistory(t *testing.T) *runner.History {
	t.Helper()
	ctx := context.Background()
	r, err := runner.New(config.DefaultConfig(), store.NewMemoryStore(),
		runner.WithDictionary(lexicon.AcceptAll{}),
		runner.WithRandomizer(alphabet.NewSeededRandomizer(11)))
	require.NoError(t, err)
	g, err := r.CreateGame(ctx, runner.GameOptions{Width: 7, MaxPlayers: 2})
	require.NoError(t, err)
	p0, err := r.JoinGame(ctx, g.ID)
	require.NoError(t, err)
	p1, err := r.JoinGame(ctx, g.ID)
	require.NoError(t, err)

	_, err = r.SubmitMove(ctx, g.ID, p0.ID, 0, []move.Placement{
		{Pos: 24, Letter: p0.Rack[0]}, {Pos: 25, Letter: p0.Rack[1]}})
	require.NoError(t, err)
	_, err = r.SubmitMove(ctx, g.ID, p1.ID, 1, []move.Placement{
		{Pos: 31, Letter: p1.Rack[0]}, {Pos: 32, Letter: p1.Rack[1]}})
	require.NoError(t, err)
	h, err := r.History(ctx, g.ID)
	require.NoError(t, err)
	return h
}

func TestRoundTripAndReplay(t *testing.T) {
	is := is.New(t)
	h := playedHistory(t)
	tr := New(h, "AcceptAll")
	is.Equal(len(tr.Moves), 2)
	is.Equal(tr.Moves[1].Player, 1)
	is.Equal(tr.Moves[0].Score, 1)
	// two across words, plus two down words formed by the second move
	is.Equal(tr.Moves[1].Score, 3)

	var buf bytes.Buffer
	is.NoErr(tr.Write(&buf))
	is.True(strings.Contains(buf.String(), "game_id: "+h.Game.ID))

	back, err := Read(&buf)
	is.NoErr(err)
	is.Equal(back, tr)

	b, err := back.Replay(lexicon.AcceptAll{})
	is.NoErr(err)
	is.True(b.Equals(h.Game.Board))
}

func TestReplayDetectsTampering(t *testing.T) {
	h := playedHistory(t)
	type tampertest struct {
		name   string
		tamper func(tr *Transcript)
		err    error
	}
	testCases := []tampertest{
		{"score", func(tr *Transcript) { tr.Moves[0].Score = 5 }, ErrReplayMismatch},
		{"player total", func(tr *Transcript) { tr.Players[1].Score++ }, ErrReplayMismatch},
		{"board", func(tr *Transcript) { tr.Board[0] = "QQQQQQQ" }, ErrReplayMismatch},
		{"turn order", func(tr *Transcript) { tr.Moves[1].Player = 0 }, ErrReplayMismatch},
		{"sequence", func(tr *Transcript) { tr.Moves[1].Seq = 7 }, ErrReplayMismatch},
		{"occupied", func(tr *Transcript) { tr.Moves[1].Placements = "24,A" }, game.ErrCellOccupied},
		{"disconnected", func(tr *Transcript) { tr.Moves[1].Placements = "0,A" }, game.ErrNotConnected},
		{"malformed", func(tr *Transcript) { tr.Moves[1].Placements = "x,A" }, move.ErrMalformedPlacements},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			tr := New(h, "")
			tc.tamper(tr)
			_, err := tr.Replay(lexicon.AcceptAll{})
			is.True(errors.Is(err, tc.err))
		})
	}
}

func TestReplayAgainstDictionary(t *testing.T) {
	is := is.New(t)
	src := `game_id: g
width: 5
max_players: 2
status: playing
players:
  - {order: 0, id: a, score: 1}
  - {order: 1, id: b, score: 0}
moves:
  - {seq: 0, player: 0, placements: "11,C,12,A,13,B", score: 1}
  - {seq: 1, player: 1, placements: "", score: 0}
board: [".....", ".....", ".CAB.", ".....", "....."]
`
	tr, err := Read(strings.NewReader(src))
	is.NoErr(err)
	_, err = tr.Replay(lexicon.Default())
	is.NoErr(err)

	_, err = tr.Replay(lexicon.NewWordList("none"))
	is.True(errors.Is(err, game.ErrUnknownWord))
}
