// Package game holds the rules of a tilegrid game: applying placements,
// scoring the words they form, and advancing joins and turns. Every
// transition works on copies and returns new values; persisting them is up
// to the caller.
package game

import (
	"fmt"
	"time"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/board"
)

const (
	MinBoardWidth = 3
	MaxBoardWidth = 31
	MaxPlayers    = 8
)

// GameOptions are chosen when a game is created.
type GameOptions struct {
	Width      int
	MaxPlayers int
	// PoolSize is the number of letters in the new game's pool; zero means
	// alphabet.DefaultPoolSize.
	PoolSize int
}

func (o GameOptions) Validate() error {
	if o.Width < MinBoardWidth || o.Width > MaxBoardWidth {
		return fmt.Errorf("%w: width %d not in [%d, %d]", ErrInvalidGameOptions,
			o.Width, MinBoardWidth, MaxBoardWidth)
	}
	if o.MaxPlayers < 1 || o.MaxPlayers > MaxPlayers {
		return fmt.Errorf("%w: max players %d not in [1, %d]", ErrInvalidGameOptions,
			o.MaxPlayers, MaxPlayers)
	}
	if o.PoolSize < 0 {
		return fmt.Errorf("%w: negative pool size", ErrInvalidGameOptions)
	}
	return nil
}

// Game is the shared state of one session. The board and pool belong to
// the game; racks belong to players.
type Game struct {
	ID         string
	Width      int
	MaxPlayers int
	Status     Status
	Board      *board.Board
	Pool       alphabet.Pool
	// NextMoveSeq counts the moves accepted so far; the next move submitted
	// must carry this sequence number.
	NextMoveSeq int
	// NextPlayerOrder is the turn slot that may act next. During joining it
	// is the slot the next joiner gets.
	NextPlayerOrder int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewGame creates a pending game with an empty board and a freshly drawn
// pool.
func NewGame(id string, opts GameOptions, rng alphabet.Randomizer) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	poolSize := opts.PoolSize
	if poolSize == 0 {
		poolSize = alphabet.DefaultPoolSize
	}
	now := time.Now().UTC()
	return &Game{
		ID:         id,
		Width:      opts.Width,
		MaxPlayers: opts.MaxPlayers,
		Status:     StatusPending,
		Board:      board.New(opts.Width),
		Pool:       alphabet.NewPool(poolSize, rng),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Copy returns a deep copy of the game.
func (g *Game) Copy() *Game {
	cp := *g
	cp.Board = g.Board.Copy()
	cp.Pool = g.Pool.Copy()
	return &cp
}

// Fence returns the counters a commit of a transition from g must find
// unchanged in the store.
func (g *Game) Fence() Fence {
	return Fence{
		Status:          g.Status,
		NextMoveSeq:     g.NextMoveSeq,
		NextPlayerOrder: g.NextPlayerOrder,
	}
}

// Fence is the part of a game's state that a transition was computed
// against.
type Fence struct {
	Status          Status
	NextMoveSeq     int
	NextPlayerOrder int
}

// Matches reports whether g is still in the state the fence describes.
func (f Fence) Matches(g *Game) bool {
	return g.Fence() == f
}

func (g *Game) String() string {
	return fmt.Sprintf("game %v (%dx%d, %v, move %d, player %d, pool %d)",
		g.ID, g.Width, g.Width, g.Status, g.NextMoveSeq, g.NextPlayerOrder,
		g.Pool.TilesRemaining())
}
