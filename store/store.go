// Package store persists games, players and moves. Every mutation that
// follows a game transition commits atomically, and only if the game is
// still in the state the transition was computed against.
package store

import (
	"context"
	"errors"

	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/move"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means the game changed between load and commit, or an
	// entity with the same identity already exists.
	ErrConflict = errors.New("conflicting update")
)

// Store is the state store the runner loads from and commits to. Entities
// passed in are copied; entities returned belong to the caller.
type Store interface {
	CreateGame(ctx context.Context, g *game.Game) error
	Game(ctx context.Context, id string) (*game.Game, error)
	Player(ctx context.Context, id string) (*game.Player, error)
	// Players returns a game's players in turn order.
	Players(ctx context.Context, gameID string) ([]*game.Player, error)
	Move(ctx context.Context, gameID string, seq int) (*move.Move, error)
	// Moves returns a game's moves in sequence order.
	Moves(ctx context.Context, gameID string) ([]*move.Move, error)

	// CommitJoin saves g and inserts p, provided the stored game still
	// matches fence.
	CommitJoin(ctx context.Context, fence game.Fence, g *game.Game, p *game.Player) error
	// CommitTurn saves g and p and inserts m, provided the stored game
	// still matches fence.
	CommitTurn(ctx context.Context, fence game.Fence, g *game.Game, p *game.Player, m *move.Move) error

	Close() error
}
