package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/move"
)

// memory keeps everything in maps. State is lost on restart.
type memory struct {
	mu      sync.RWMutex
	games   map[string]*game.Game
	players map[string]*game.Player
	// player ids per game, in turn order
	seats map[string][]string
	moves map[string][]*move.Move
}

func NewMemoryStore() Store {
	return &memory{
		games:   make(map[string]*game.Game),
		players: make(map[string]*game.Player),
		seats:   make(map[string][]string),
		moves:   make(map[string][]*move.Move),
	}
}

func (m *memory) CreateGame(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[g.ID]; ok {
		return fmt.Errorf("%w: game %v exists", ErrConflict, g.ID)
	}
	m.games[g.ID] = g.Copy()
	return nil
}

func (m *memory) Game(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g.Copy(), nil
	}
	return nil, fmt.Errorf("%w: game %v", ErrNotFound, id)
}

func (m *memory) Player(ctx context.Context, id string) (*game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.players[id]; ok {
		return p.Copy(), nil
	}
	return nil, fmt.Errorf("%w: player %v", ErrNotFound, id)
}

func (m *memory) Players(ctx context.Context, gameID string) ([]*game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.games[gameID]; !ok {
		return nil, fmt.Errorf("%w: game %v", ErrNotFound, gameID)
	}
	players := make([]*game.Player, 0, len(m.seats[gameID]))
	for _, id := range m.seats[gameID] {
		players = append(players, m.players[id].Copy())
	}
	return players, nil
}

func (m *memory) Move(ctx context.Context, gameID string, seq int) (*move.Move, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	moves := m.moves[gameID]
	if seq < 0 || seq >= len(moves) {
		return nil, fmt.Errorf("%w: move %d of game %v", ErrNotFound, seq, gameID)
	}
	return moves[seq].Copy(), nil
}

func (m *memory) Moves(ctx context.Context, gameID string) ([]*move.Move, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.games[gameID]; !ok {
		return nil, fmt.Errorf("%w: game %v", ErrNotFound, gameID)
	}
	moves := make([]*move.Move, len(m.moves[gameID]))
	for i, mv := range m.moves[gameID] {
		moves[i] = mv.Copy()
	}
	return moves, nil
}

// checkFence must be called with the write lock held.
func (m *memory) checkFence(fence game.Fence, g *game.Game) error {
	stored, ok := m.games[g.ID]
	if !ok {
		return fmt.Errorf("%w: game %v", ErrNotFound, g.ID)
	}
	if !fence.Matches(stored) {
		return fmt.Errorf("%w: game %v moved on", ErrConflict, g.ID)
	}
	return nil
}

func (m *memory) CommitJoin(ctx context.Context, fence game.Fence, g *game.Game, p *game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFence(fence, g); err != nil {
		return err
	}
	if _, ok := m.players[p.ID]; ok {
		return fmt.Errorf("%w: player %v exists", ErrConflict, p.ID)
	}
	m.games[g.ID] = g.Copy()
	m.players[p.ID] = p.Copy()
	m.seats[g.ID] = append(m.seats[g.ID], p.ID)
	return nil
}

func (m *memory) CommitTurn(ctx context.Context, fence game.Fence, g *game.Game, p *game.Player, mv *move.Move) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFence(fence, g); err != nil {
		return err
	}
	if _, ok := m.players[p.ID]; !ok {
		return fmt.Errorf("%w: player %v", ErrNotFound, p.ID)
	}
	if mv.Seq != len(m.moves[g.ID]) {
		return fmt.Errorf("%w: move %d of game %v exists", ErrConflict, mv.Seq, g.ID)
	}
	m.games[g.ID] = g.Copy()
	m.players[p.ID] = p.Copy()
	m.moves[g.ID] = append(m.moves[g.ID], mv.Copy())
	return nil
}

func (m *memory) Close() error {
	return nil
}
