package api

import (
	"context"

	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/move"
	"github.com/domino14/tilegrid/runner"
	"github.com/domino14/tilegrid/transcript"
)

// Backend is the set of caller-facing operations, in wire shapes. Service
// implements it in process; transports forward to it.
type Backend interface {
	CreateGame(ctx context.Context, req CreateGameRequest) (*CreateGameResponse, error)
	GetGame(ctx context.Context, gameID, playerID string) (*GameResponse, error)
	JoinGame(ctx context.Context, gameID string) (*JoinResponse, error)
	SubmitMove(ctx context.Context, gameID, playerID string, seq int, req SubmitMoveRequest) (*SubmitMoveResponse, error)
	GetMove(ctx context.Context, gameID string, seq int) (*MoveResponse, error)
	Transcript(ctx context.Context, gameID string) (*transcript.Transcript, error)
}

// Service adapts a runner to the wire shapes.
type Service struct {
	runner *runner.Runner
}

func NewService(r *runner.Runner) *Service {
	return &Service{runner: r}
}

func (s *Service) CreateGame(ctx context.Context, req CreateGameRequest) (*CreateGameResponse, error) {
	g, err := s.runner.CreateGame(ctx, runner.GameOptions{Width: req.Size, MaxPlayers: req.MaxPlayers})
	if err != nil {
		return nil, err
	}
	return &CreateGameResponse{ID: g.ID}, nil
}

func (s *Service) GetGame(ctx context.Context, gameID, playerID string) (*GameResponse, error) {
	view, err := s.runner.GameState(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	g := view.Game
	resp := &GameResponse{
		ID:         g.ID,
		Size:       g.Width,
		MaxPlayers: g.MaxPlayers,
		Board:      g.Board.String(),
		Status:     g.Status.String(),
		NextMove:   g.NextMoveSeq,
		NextPlayer: g.NextPlayerOrder,
		Pool:       g.Pool.TilesRemaining(),
		Players:    make([]PlayerSummary, len(view.Players)),
	}
	for i, p := range view.Players {
		resp.Players[i] = PlayerSummary{Order: p.Order, Score: p.Score}
	}
	if view.Viewer != nil {
		resp.Player = playerState(view.Viewer)
	}
	return resp, nil
}

func playerState(p *game.Player) *PlayerState {
	return &PlayerState{ID: p.ID, Order: p.Order, Rack: p.Rack.String(), Score: p.Score}
}

func (s *Service) JoinGame(ctx context.Context, gameID string) (*JoinResponse, error) {
	p, err := s.runner.JoinGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return &JoinResponse{ID: p.ID, Order: p.Order, Rack: p.Rack.String()}, nil
}

func (s *Service) SubmitMove(ctx context.Context, gameID, playerID string, seq int, req SubmitMoveRequest) (*SubmitMoveResponse, error) {
	placements, err := move.ParsePlacements(req.Placements)
	if err != nil {
		return nil, err
	}
	out, err := s.runner.SubmitMove(ctx, gameID, playerID, seq, placements)
	if err != nil {
		return nil, err
	}
	return &SubmitMoveResponse{
		Player: *playerState(out.Player),
		Game: GameCounters{
			Status:     out.Game.Status.String(),
			NextMove:   out.Game.NextMoveSeq,
			NextPlayer: out.Game.NextPlayerOrder,
		},
		Score: out.Move.Score,
	}, nil
}

func (s *Service) GetMove(ctx context.Context, gameID string, seq int) (*MoveResponse, error) {
	m, err := s.runner.GetMove(ctx, gameID, seq)
	if err != nil {
		return nil, err
	}
	return &MoveResponse{
		Seq:        m.Seq,
		Placements: move.EncodePlacements(m.Placements),
		Score:      m.Score,
		Player:     m.PlayerID,
	}, nil
}

func (s *Service) Transcript(ctx context.Context, gameID string) (*transcript.Transcript, error) {
	h, err := s.runner.History(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return transcript.New(h, s.runner.Dictionary().Name()), nil
}
