// Package runner drives games on behalf of callers. Every mutating
// operation holds the game's lock while it loads state, computes the
// transition and commits it; commits are fenced by the store as well.
package runner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/config"
	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/move"
	"github.com/domino14/tilegrid/store"
)

type Runner struct {
	cfg      *config.Config
	store    store.Store
	dict     lexicon.Dictionary
	rng      alphabet.Randomizer
	poolSize int
	newID    func() string
	locks    *lockTable
}

type Option func(*Runner)

// WithDictionary overrides the configured lexicon.
func WithDictionary(d lexicon.Dictionary) Option {
	return func(r *Runner) { r.dict = d }
}

// WithRandomizer sets the source new pools are drawn from.
func WithRandomizer(rng alphabet.Randomizer) Option {
	return func(r *Runner) { r.rng = rng }
}

// WithIDGenerator sets how game, player and move ids are made.
func WithIDGenerator(f func() string) Option {
	return func(r *Runner) { r.newID = f }
}

func New(cfg *config.Config, st store.Store, opts ...Option) (*Runner, error) {
	r := &Runner{
		cfg:      cfg,
		store:    st,
		rng:      alphabet.NewRandomizer(),
		poolSize: cfg.GetInt(config.ConfigPoolSize),
		newID:    uuid.NewString,
		locks:    newLockTable(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.dict == nil {
		d, err := lexicon.Get(cfg, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
		r.dict = d
	}
	log.Info().Str("lexicon", r.dict.Name()).Int("pool-size", r.poolSize).Msg("runner-ready")
	return r, nil
}

func (r *Runner) Dictionary() lexicon.Dictionary {
	return r.dict
}

func (r *Runner) Config() *config.Config {
	return r.cfg
}

func (r *Runner) logger(ctx context.Context, gameID string) zerolog.Logger {
	return zerolog.Ctx(ctx).With().Str("game-id", gameID).Logger()
}

// CreateGame creates a pending game and returns it.
func (r *Runner) CreateGame(ctx context.Context, opts GameOptions) (*game.Game, error) {
	opts.SetDefaults(r.cfg)
	g, err := game.NewGame(r.newID(), opts.gameOptions(r.poolSize), r.rng)
	if err != nil {
		return nil, err
	}
	if err := r.store.CreateGame(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}
	l := r.logger(ctx, g.ID)
	l.Info().Int("width", g.Width).Int("max-players", g.MaxPlayers).Msg("game-created")
	return g, nil
}

// JoinGame seats a new player in a pending game.
func (r *Runner) JoinGame(ctx context.Context, gameID string) (*game.Player, error) {
	unlock := r.locks.lock(gameID)
	defer unlock()

	g, err := r.store.Game(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	res, err := g.Join(r.newID())
	if err != nil {
		return nil, err
	}
	if err := r.store.CommitJoin(ctx, res.Fence(), res.Game, res.Player); err != nil {
		return nil, fmt.Errorf("failed to commit join: %w", err)
	}
	l := r.logger(ctx, gameID)
	l.Info().Str("player-id", res.Player.ID).Int("order", res.Player.Order).
		Str("status", res.Game.Status.String()).Msg("player-joined")
	return res.Player, nil
}

// PlayerView is what anyone may see of a player.
type PlayerView struct {
	Order int
	Score int
}

// GameView is a read-only snapshot of a game. Viewer is set when the view
// was requested on behalf of a player.
type GameView struct {
	Game    *game.Game
	Players []PlayerView
	Viewer  *game.Player
}

// GameState returns a snapshot of the game. If playerID is not empty the
// player must belong to the game, and their rack is included.
func (r *Runner) GameState(ctx context.Context, gameID, playerID string) (*GameView, error) {
	g, err := r.store.Game(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	players, err := r.store.Players(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	view := &GameView{Game: g, Players: make([]PlayerView, len(players))}
	for i, p := range players {
		view.Players[i] = PlayerView{Order: p.Order, Score: p.Score}
	}
	if playerID != "" {
		p, err := r.player(ctx, gameID, playerID)
		if err != nil {
			return nil, err
		}
		view.Viewer = p
	}
	return view, nil
}

// player loads a player and checks they sit in the game.
func (r *Runner) player(ctx context.Context, gameID, playerID string) (*game.Player, error) {
	p, err := r.store.Player(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if p.GameID != gameID {
		return nil, fmt.Errorf("%w: player %v, game %v", game.ErrPlayerNotInGame, playerID, gameID)
	}
	return p, nil
}

// TurnOutcome is what the acting player learns from a successful turn.
type TurnOutcome struct {
	Player *game.Player
	Game   *game.Game
	Move   *move.Move
}

// SubmitMove plays placements for playerID as move number seq of the game.
// A rejected move changes nothing.
func (r *Runner) SubmitMove(ctx context.Context, gameID, playerID string, seq int, placements []move.Placement) (*TurnOutcome, error) {
	l := r.logger(ctx, gameID).With().Str("player-id", playerID).Int("seq", seq).Logger()
	unlock := r.locks.lock(gameID)
	defer unlock()

	g, err := r.store.Game(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	p, err := r.player(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	res, err := g.PlayTurn(p, seq, placements, r.dict)
	if err != nil {
		if game.IsRuleViolation(err) {
			l.Info().Err(err).Msg("move-rejected")
		}
		return nil, err
	}
	res.Move.ID = r.newID()
	if err := r.store.CommitTurn(ctx, res.Fence(), res.Game, res.Player, res.Move); err != nil {
		return nil, fmt.Errorf("failed to commit turn: %w", err)
	}
	l.Info().Int("score", res.Move.Score).Int("tiles", res.Move.TilesPlayed()).
		Int("pool", res.Game.Pool.TilesRemaining()).Msg("move-accepted")
	return &TurnOutcome{Player: res.Player, Game: res.Game, Move: res.Move}, nil
}

// GetMove returns move number seq of the game.
func (r *Runner) GetMove(ctx context.Context, gameID string, seq int) (*move.Move, error) {
	m, err := r.store.Move(ctx, gameID, seq)
	if err != nil {
		return nil, fmt.Errorf("failed to load move: %w", err)
	}
	return m, nil
}

// History is everything recorded about one game.
type History struct {
	Game    *game.Game
	Players []*game.Player
	Moves   []*move.Move
}

// History takes the game's lock so the game, players and moves it returns
// are consistent with each other.
func (r *Runner) History(ctx context.Context, gameID string) (*History, error) {
	unlock := r.locks.lock(gameID)
	defer unlock()

	g, err := r.store.Game(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	players, err := r.store.Players(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	moves, err := r.store.Moves(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load moves: %w", err)
	}
	return &History{Game: g, Players: players, Moves: moves}, nil
}
