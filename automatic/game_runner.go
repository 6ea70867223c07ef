// Package automatic plays computer vs computer games through any
// api.Backend, for load testing and for collecting move data.
package automatic

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/api"
	"github.com/domino14/tilegrid/board"
	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/move"
)

// LogHeader is the first line of a turn log.
const LogHeader = "playerID,gameID,turn,rack,play,score,totalscore,poolremaining\n"

// GameRunner plays whole games, every seat choosing its best static move.
type GameRunner struct {
	backend  api.Backend
	dict     lexicon.Dictionary
	opts     api.CreateGameRequest
	maxTurns int
	logchan  chan string
}

// Result is the outcome of one automatic game.
type Result struct {
	GameID string
	Scores []int
	Turns  int
}

// NewGameRunner returns a runner. If logchan is not nil, one CSV line is
// sent to it per turn.
func NewGameRunner(backend api.Backend, dict lexicon.Dictionary, opts api.CreateGameRequest,
	maxTurns int, logchan chan string) *GameRunner {
	return &GameRunner{backend: backend, dict: dict, opts: opts, maxTurns: maxTurns, logchan: logchan}
}

// PlayGame creates a game, fills every seat, and plays until maxTurns
// moves were made or every player passed twice in a row.
func (r *GameRunner) PlayGame(ctx context.Context) (*Result, error) {
	created, err := r.backend.CreateGame(ctx, r.opts)
	if err != nil {
		return nil, err
	}
	gameID := created.ID
	gr, err := r.backend.GetGame(ctx, gameID, "")
	if err != nil {
		return nil, err
	}
	seats := make([]string, gr.MaxPlayers)
	for i := range seats {
		jr, err := r.backend.JoinGame(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("failed to join seat %d: %w", i, err)
		}
		seats[jr.Order] = jr.ID
	}
	l := log.With().Str("game-id", gameID).Logger()

	passes := 0
	turns := 0
	for ; turns < r.maxTurns && passes < 2*len(seats); turns++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scored, err := r.PlayBestStaticTurn(ctx, gameID, seats)
		if err != nil {
			return nil, err
		}
		if scored {
			passes = 0
		} else {
			passes++
		}
	}

	gr, err = r.backend.GetGame(ctx, gameID, "")
	if err != nil {
		return nil, err
	}
	res := &Result{GameID: gameID, Scores: make([]int, len(gr.Players)), Turns: turns}
	for _, p := range gr.Players {
		res.Scores[p.Order] = p.Score
	}
	l.Debug().Ints("scores", res.Scores).Int("turns", turns).Msg("game-over")
	return res, nil
}

// PlayBestStaticTurn plays one turn for the player on turn. It returns
// whether any tile was placed.
func (r *GameRunner) PlayBestStaticTurn(ctx context.Context, gameID string, seats []string) (bool, error) {
	gr, err := r.backend.GetGame(ctx, gameID, "")
	if err != nil {
		return false, err
	}
	playerID := seats[gr.NextPlayer]
	gr, err = r.backend.GetGame(ctx, gameID, playerID)
	if err != nil {
		return false, err
	}
	b, err := board.FromString(gr.Size, gr.Board)
	if err != nil {
		return false, err
	}
	rack, err := alphabet.RackFromString(gr.Player.Rack)
	if err != nil {
		return false, err
	}
	placements, _ := BestStaticMove(b, rack, r.dict)

	resp, err := r.backend.SubmitMove(ctx, gameID, playerID, gr.NextMove,
		api.SubmitMoveRequest{Placements: move.EncodePlacements(placements)})
	if game.IsRuleViolation(err) && len(placements) > 0 {
		// the server's dictionary may differ from ours
		log.Debug().Err(err).Str("game-id", gameID).Msg("static-move-rejected-passing")
		placements = nil
		resp, err = r.backend.SubmitMove(ctx, gameID, playerID, gr.NextMove, api.SubmitMoveRequest{})
	}
	if err != nil {
		return false, err
	}
	if r.logchan != nil {
		m := &move.Move{Seq: gr.NextMove, Placements: placements, Score: resp.Score}
		r.logchan <- fmt.Sprintf("%s,%s,%d,%s,%s,%d,%d,%d\n", playerID, gameID, gr.NextMove,
			rack.UserVisible(), m.ShortDescription(), resp.Score, resp.Player.Score, gr.Pool)
	}
	return len(placements) > 0, nil
}

var errNoGames = errors.New("number of games must be positive")
