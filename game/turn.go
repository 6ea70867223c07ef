package game

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/move"
)

// JoinResult is the outcome of a successful join: the game and the new
// player as they must be committed together.
type JoinResult struct {
	Game   *Game
	Player *Player
	fence  Fence
}

// Fence describes the game state the join was computed against.
func (r *JoinResult) Fence() Fence {
	return r.fence
}

// TurnResult is the outcome of a successful turn: the game, the acting
// player and the move record as they must be committed together.
type TurnResult struct {
	Game   *Game
	Player *Player
	Move   *move.Move
	fence  Fence
}

// Fence describes the game state the turn was computed against.
func (r *TurnResult) Fence() Fence {
	return r.fence
}

// Join seats a new player in the next free turn slot and deals them a rack
// from the pool. Seating the last player starts the game. g is not
// modified.
func (g *Game) Join(playerID string) (*JoinResult, error) {
	// seats are only free while the game can still start
	if !g.Status.CanBecome(StatusPlaying) {
		return nil, fmt.Errorf("%w: game %v is %v", ErrGameAlreadyStarted, g.ID, g.Status)
	}
	if g.NextPlayerOrder >= g.MaxPlayers {
		return nil, fmt.Errorf("%w: game %v seats %d", ErrGameFull, g.ID, g.MaxPlayers)
	}
	next := g.Copy()
	p := &Player{
		ID:     playerID,
		GameID: g.ID,
		Order:  next.NextPlayerOrder,
	}
	next.Pool, p.Rack = alphabet.RefillRack(next.Pool, alphabet.NewRack())
	next.NextPlayerOrder++
	if next.NextPlayerOrder == next.MaxPlayers {
		next.NextPlayerOrder = 0
		next.Status = StatusPlaying
	}
	next.UpdatedAt = time.Now().UTC()

	log.Debug().Str("game-id", g.ID).Str("player-id", playerID).Int("order", p.Order).
		Str("status", next.Status.String()).Msg("player-joined")
	return &JoinResult{Game: next, Player: p, fence: g.Fence()}, nil
}

// PlayTurn validates and scores placements submitted by player as move
// number seq, refills the player's rack and passes the turn on. Neither g
// nor player is modified; any error leaves nothing to commit.
func (g *Game) PlayTurn(player *Player, seq int, placements []move.Placement, dict lexicon.Dictionary) (*TurnResult, error) {
	if g.Status != StatusPlaying {
		return nil, fmt.Errorf("%w: game %v is %v", ErrGameNotPlaying, g.ID, g.Status)
	}
	if player.GameID != g.ID {
		return nil, fmt.Errorf("%w: player %v, game %v", ErrPlayerNotInGame, player.ID, g.ID)
	}
	if seq != g.NextMoveSeq {
		return nil, fmt.Errorf("%w: got move %d, expected %d", ErrNotNextMove, seq, g.NextMoveSeq)
	}
	if player.Order != g.NextPlayerOrder {
		return nil, fmt.Errorf("%w: player order %d, expected %d", ErrNotPlayersTurn,
			player.Order, g.NextPlayerOrder)
	}

	b, rack, err := ApplyMove(g.Board, player.Rack, placements)
	if err != nil {
		return nil, err
	}
	if !b.IsConnected() {
		return nil, ErrNotConnected
	}
	score, err := TallyScore(placements, b, dict)
	if err != nil {
		return nil, err
	}

	next := g.Copy()
	next.Board = b
	nextPlayer := player.Copy()
	next.Pool, nextPlayer.Rack = alphabet.RefillRack(next.Pool, rack)
	nextPlayer.Score += score
	next.NextMoveSeq++
	next.NextPlayerOrder = (next.NextPlayerOrder + 1) % next.MaxPlayers
	now := time.Now().UTC()
	next.UpdatedAt = now

	m := &move.Move{
		GameID:     g.ID,
		PlayerID:   player.ID,
		Seq:        seq,
		Placements: append([]move.Placement{}, placements...),
		Score:      score,
		CreatedAt:  now,
	}
	log.Debug().Str("game-id", g.ID).Str("player-id", player.ID).Int("seq", seq).
		Int("score", score).Str("move", m.ShortDescription()).Msg("turn-played")
	return &TurnResult{Game: next, Player: nextPlayer, Move: m, fence: g.Fence()}, nil
}
