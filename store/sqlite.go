package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/board"
	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/move"
)

//go:embed migrations/*.sql
var migrations embed.FS

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens, creating if missing, the database at path and applies
// any pending migrations. A path of ":memory:" gives a private in-memory
// database.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		dsn = "file:" + path
	}
	dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One writer; a single connection also keeps :memory: databases whole.
	db.SetMaxOpenConns(1)
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}
		text, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(text)); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES(?)`, f); err != nil {
			tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

const gameColumns = `id, width, max_players, status, board, pool, next_move_seq, next_player_order, created_at, updated_at`

func scanGame(row scanner) (*game.Game, error) {
	var (
		g                    game.Game
		status, cells, pool  string
		createdAt, updatedAt int64
	)
	err := row.Scan(&g.ID, &g.Width, &g.MaxPlayers, &status, &cells, &pool,
		&g.NextMoveSeq, &g.NextPlayerOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if g.Status, err = game.ParseStatus(status); err != nil {
		return nil, err
	}
	if g.Board, err = board.FromString(g.Width, cells); err != nil {
		return nil, fmt.Errorf("game %v board: %w", g.ID, err)
	}
	if g.Pool, err = alphabet.PoolFromString(pool); err != nil {
		return nil, fmt.Errorf("game %v pool: %w", g.ID, err)
	}
	g.CreatedAt = time.Unix(0, createdAt).UTC()
	g.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &g, nil
}

const playerColumns = `id, game_id, player_order, rack, score`

func scanPlayer(row scanner) (*game.Player, error) {
	var (
		p    game.Player
		rack string
	)
	if err := row.Scan(&p.ID, &p.GameID, &p.Order, &rack, &p.Score); err != nil {
		return nil, err
	}
	var err error
	if p.Rack, err = alphabet.RackFromString(rack); err != nil {
		return nil, fmt.Errorf("player %v rack: %w", p.ID, err)
	}
	return &p, nil
}

const moveColumns = `id, game_id, player_id, seq, placements, score, created_at`

func scanMove(row scanner) (*move.Move, error) {
	var (
		m          move.Move
		placements string
		createdAt  int64
	)
	if err := row.Scan(&m.ID, &m.GameID, &m.PlayerID, &m.Seq, &placements, &m.Score, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if m.Placements, err = move.ParsePlacements(placements); err != nil {
		return nil, fmt.Errorf("move %v placements: %w", m.ID, err)
	}
	m.CreatedAt = time.Unix(0, createdAt).UTC()
	return &m, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, what)
	}
	return err
}

func (s *sqliteStore) CreateGame(ctx context.Context, g *game.Game) error {
	res, err := s.db.ExecContext(ctx, `INSERT INTO games(`+gameColumns+`)
		VALUES(?,?,?,?,?,?,?,?,?,?) ON CONFLICT(id) DO NOTHING`,
		g.ID, g.Width, g.MaxPlayers, g.Status.String(), g.Board.String(), g.Pool.String(),
		g.NextMoveSeq, g.NextPlayerOrder, g.CreatedAt.UnixNano(), g.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return expectOne(res, fmt.Errorf("%w: game %v exists", ErrConflict, g.ID))
}

func (s *sqliteStore) Game(ctx context.Context, id string) (*game.Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id=?`, id)
	g, err := scanGame(row)
	if err != nil {
		return nil, notFound(err, "game "+id)
	}
	return g, nil
}

func (s *sqliteStore) Player(ctx context.Context, id string) (*game.Player, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id=?`, id)
	p, err := scanPlayer(row)
	if err != nil {
		return nil, notFound(err, "player "+id)
	}
	return p, nil
}

func (s *sqliteStore) gameExists(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id=?`, id).Scan(&one)
	return notFound(err, "game "+id)
}

func (s *sqliteStore) Players(ctx context.Context, gameID string) ([]*game.Player, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players
		WHERE game_id=? ORDER BY player_order`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var players []*game.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *sqliteStore) Move(ctx context.Context, gameID string, seq int) (*move.Move, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+moveColumns+` FROM moves
		WHERE game_id=? AND seq=?`, gameID, seq)
	m, err := scanMove(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("move %d of game %v", seq, gameID))
	}
	return m, nil
}

func (s *sqliteStore) Moves(ctx context.Context, gameID string) ([]*move.Move, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+moveColumns+` FROM moves
		WHERE game_id=? ORDER BY seq`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	moves := []*move.Move{}
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// updateFenced saves g only if the stored row still matches fence.
func updateFenced(ctx context.Context, tx *sql.Tx, fence game.Fence, g *game.Game) error {
	res, err := tx.ExecContext(ctx, `UPDATE games
		SET status=?, board=?, pool=?, next_move_seq=?, next_player_order=?, updated_at=?
		WHERE id=? AND status=? AND next_move_seq=? AND next_player_order=?`,
		g.Status.String(), g.Board.String(), g.Pool.String(), g.NextMoveSeq,
		g.NextPlayerOrder, g.UpdatedAt.UnixNano(),
		g.ID, fence.Status.String(), fence.NextMoveSeq, fence.NextPlayerOrder)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id=?`, g.ID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: game %v", ErrNotFound, g.ID)
	}
	return fmt.Errorf("%w: game %v moved on", ErrConflict, g.ID)
}

func expectOne(res sql.Result, otherwise error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return otherwise
	}
	return nil
}

// inTx runs fn in a transaction, committing only if it succeeds.
func (s *sqliteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			log.Err(rerr).Msg("rollback-failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *sqliteStore) CommitJoin(ctx context.Context, fence game.Fence, g *game.Game, p *game.Player) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := updateFenced(ctx, tx, fence, g); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO players(`+playerColumns+`)
			VALUES(?,?,?,?,?) ON CONFLICT DO NOTHING`,
			p.ID, p.GameID, p.Order, p.Rack.String(), p.Score)
		if err != nil {
			return fmt.Errorf("failed to insert player: %w", err)
		}
		return expectOne(res, fmt.Errorf("%w: player %v exists", ErrConflict, p.ID))
	})
}

func (s *sqliteStore) CommitTurn(ctx context.Context, fence game.Fence, g *game.Game, p *game.Player, m *move.Move) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := updateFenced(ctx, tx, fence, g); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE players SET rack=?, score=? WHERE id=? AND game_id=?`,
			p.Rack.String(), p.Score, p.ID, g.ID)
		if err != nil {
			return fmt.Errorf("failed to update player: %w", err)
		}
		if err := expectOne(res, fmt.Errorf("%w: player %v", ErrNotFound, p.ID)); err != nil {
			return err
		}
		res, err = tx.ExecContext(ctx, `INSERT INTO moves(`+moveColumns+`)
			VALUES(?,?,?,?,?,?,?) ON CONFLICT DO NOTHING`,
			m.ID, m.GameID, m.PlayerID, m.Seq, move.EncodePlacements(m.Placements),
			m.Score, m.CreatedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("failed to insert move: %w", err)
		}
		return expectOne(res, fmt.Errorf("%w: move %d of game %v exists", ErrConflict, m.Seq, g.ID))
	})
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
