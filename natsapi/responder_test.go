package natsapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/api"
	"github.com/domino14/tilegrid/config"
	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/runner"
	"github.com/domino14/tilegrid/store"
	"github.com/domino14/tilegrid/transcript"
)

func newTestResponder(t *testing.T) *Responder {
	t.Helper()
	r, err := runner.New(config.DefaultConfig(), store.NewMemoryStore(),
		runner.WithDictionary(lexicon.AcceptAll{}),
		runner.WithRandomizer(alphabet.NewSeededRandomizer(3)))
	require.NoError(t, err)
	return NewResponder(api.NewService(r), "tg", 0)
}

// call sends req to op and decodes the reply into out.
func call(t *testing.T, r *Responder, op string, req Request, out any) error {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return decodeReply(r.Handle(context.Background(), subject("tg", op), data), out)
}

func TestPlayOverResponder(t *testing.T) {
	is := is.New(t)
	r := newTestResponder(t)

	var created api.CreateGameResponse
	is.NoErr(call(t, r, OpCreateGame, Request{Size: 9, MaxPlayers: 2}, &created))
	is.True(created.ID != "")

	var p0, p1 api.JoinResponse
	is.NoErr(call(t, r, OpJoinGame, Request{Game: created.ID}, &p0))
	is.NoErr(call(t, r, OpJoinGame, Request{Game: created.ID}, &p1))
	is.Equal(p1.Order, 1)

	var gr api.GameResponse
	is.NoErr(call(t, r, OpGetGame, Request{Game: created.ID, Player: p1.ID}, &gr))
	is.Equal(gr.Status, "playing")
	is.Equal(gr.Size, 9)
	is.Equal(gr.Player.Rack, p1.Rack)

	// center of a 9x9 board
	placements := "40," + p0.Rack[:1]
	var sr api.SubmitMoveResponse
	is.NoErr(call(t, r, OpSubmitMove, Request{Game: created.ID, Player: p0.ID, Seq: 0,
		Placements: placements}, &sr))
	is.Equal(sr.Game.NextMove, 1)
	is.Equal(sr.Game.NextPlayer, 1)

	var mr api.MoveResponse
	is.NoErr(call(t, r, OpGetMove, Request{Game: created.ID, Seq: 0}, &mr))
	is.Equal(mr.Placements, placements)
	is.Equal(mr.Player, p0.ID)

	var tr transcript.Transcript
	is.NoErr(call(t, r, OpTranscript, Request{Game: created.ID}, &tr))
	is.Equal(len(tr.Moves), 1)
	_, err := tr.Replay(lexicon.AcceptAll{})
	is.NoErr(err)
}

func TestResponderErrors(t *testing.T) {
	r := newTestResponder(t)
	var created api.CreateGameResponse
	require.NoError(t, call(t, r, OpCreateGame, Request{Size: 9, MaxPlayers: 2}, &created))
	var p0 api.JoinResponse
	require.NoError(t, call(t, r, OpJoinGame, Request{Game: created.ID}, &p0))

	type errtest struct {
		name string
		op   string
		req  Request
		want error
	}
	testCases := []errtest{
		{"missing game", OpGetGame, Request{}, api.ErrBadRequest},
		{"unknown game", OpGetGame, Request{Game: "nope"}, store.ErrNotFound},
		{"unknown op", "game.delete", Request{Game: created.ID}, api.ErrBadRequest},
		{"bad options", OpCreateGame, Request{Size: 2, MaxPlayers: 2}, game.ErrInvalidGameOptions},
		{"not started", OpSubmitMove, Request{Game: created.ID, Player: p0.ID}, game.ErrGameNotPlaying},
		{"missing player", OpSubmitMove, Request{Game: created.ID}, api.ErrBadRequest},
		{"missing move", OpGetMove, Request{Game: created.ID, Seq: 2}, store.ErrNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out json.RawMessage
			err := call(t, r, tc.op, tc.req, &out)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestHandleBadJSON(t *testing.T) {
	is := is.New(t)
	r := newTestResponder(t)
	reply := r.Handle(context.Background(), "tg."+OpCreateGame, []byte("{not json"))
	var er api.ErrorResponse
	is.NoErr(json.Unmarshal(reply, &er))
	is.Equal(er.Error, "bad_request")
}

func TestDecodeReply(t *testing.T) {
	is := is.New(t)
	var jr api.JoinResponse
	is.NoErr(decodeReply([]byte(`{"id":"abc","order":1,"rack":"A,B"}`), &jr))
	is.Equal(jr.ID, "abc")

	err := decodeReply([]byte(`{"error":"game_full","message":"game is full"}`), &jr)
	is.True(errors.Is(err, game.ErrGameFull))

	is.True(decodeReply([]byte("garbage"), &jr) != nil)
}
