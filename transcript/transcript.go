// Package transcript exports finished or running games as YAML, and
// replays a transcript to check it.
package transcript

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/board"
	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/move"
	"github.com/domino14/tilegrid/runner"
)

var ErrReplayMismatch = errors.New("transcript does not replay")

// Transcript is a self-contained record of a game.
type Transcript struct {
	GameID     string         `json:"game_id" yaml:"game_id"`
	Width      int            `json:"width" yaml:"width"`
	MaxPlayers int            `json:"max_players" yaml:"max_players"`
	Status     string         `json:"status" yaml:"status"`
	Lexicon    string         `json:"lexicon,omitempty" yaml:"lexicon,omitempty"`
	Players    []PlayerRecord `json:"players" yaml:"players"`
	Moves      []MoveRecord   `json:"moves" yaml:"moves"`
	// Board is the final board, one string per row, '.' for empty.
	Board []string `json:"board" yaml:"board"`
}

type PlayerRecord struct {
	Order int    `json:"order" yaml:"order"`
	ID    string `json:"id" yaml:"id"`
	Score int    `json:"score" yaml:"score"`
}

type MoveRecord struct {
	Seq int `json:"seq" yaml:"seq"`
	// Player is the mover's turn order.
	Player int `json:"player" yaml:"player"`
	// Placements are in the delimited wire form, e.g. "112,C,113,A".
	Placements string `json:"placements" yaml:"placements"`
	Score      int    `json:"score" yaml:"score"`
}

// New builds the transcript of a game's history.
func New(h *runner.History, lexiconName string) *Transcript {
	orders := make(map[string]int, len(h.Players))
	t := &Transcript{
		GameID:     h.Game.ID,
		Width:      h.Game.Width,
		MaxPlayers: h.Game.MaxPlayers,
		Status:     h.Game.Status.String(),
		Lexicon:    lexiconName,
		Players:    make([]PlayerRecord, len(h.Players)),
		Moves:      make([]MoveRecord, len(h.Moves)),
		Board:      h.Game.Board.Rows(),
	}
	for i, p := range h.Players {
		orders[p.ID] = p.Order
		t.Players[i] = PlayerRecord{Order: p.Order, ID: p.ID, Score: p.Score}
	}
	for i, m := range h.Moves {
		t.Moves[i] = MoveRecord{
			Seq:        m.Seq,
			Player:     orders[m.PlayerID],
			Placements: move.EncodePlacements(m.Placements),
			Score:      m.Score,
		}
	}
	return t
}

func (t *Transcript) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return enc.Close()
}

func Read(r io.Reader) (*Transcript, error) {
	t := &Transcript{}
	if err := yaml.NewDecoder(r).Decode(t); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return t, nil
}

// Replay plays every recorded move onto an empty board, checking turn
// order, placement legality, connectivity and each recorded score, and
// finally that the result matches the recorded board. Racks are not
// recorded, so each move is played from a rack holding exactly its own
// letters.
func (t *Transcript) Replay(dict lexicon.Dictionary) (*board.Board, error) {
	if t.Width < game.MinBoardWidth || t.Width > game.MaxBoardWidth || t.MaxPlayers < 1 {
		return nil, fmt.Errorf("%w: bad dimensions", ErrReplayMismatch)
	}
	b := board.New(t.Width)
	scores := make(map[int]int)
	for i, mr := range t.Moves {
		if mr.Seq != i {
			return nil, fmt.Errorf("%w: move %d has seq %d", ErrReplayMismatch, i, mr.Seq)
		}
		if mr.Player != i%t.MaxPlayers {
			return nil, fmt.Errorf("%w: move %d by player %d, expected %d",
				ErrReplayMismatch, i, mr.Player, i%t.MaxPlayers)
		}
		placements, err := move.ParsePlacements(mr.Placements)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		if len(placements) > alphabet.RackTileLimit {
			return nil, fmt.Errorf("%w: move %d places %d tiles", ErrReplayMismatch, i, len(placements))
		}
		rack := alphabet.NewRack()
		for j, p := range placements {
			rack[j] = p.Letter
		}
		nb, _, err := game.ApplyMove(b, rack, placements)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		if !nb.IsConnected() {
			return nil, fmt.Errorf("move %d: %w", i, game.ErrNotConnected)
		}
		score, err := game.TallyScore(placements, nb, dict)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		if score != mr.Score {
			return nil, fmt.Errorf("%w: move %d scores %d, recorded %d",
				ErrReplayMismatch, i, score, mr.Score)
		}
		scores[mr.Player] += score
		b = nb
	}
	for _, p := range t.Players {
		if scores[p.Order] != p.Score {
			return nil, fmt.Errorf("%w: player %d scores %d, recorded %d",
				ErrReplayMismatch, p.Order, scores[p.Order], p.Score)
		}
	}
	if t.Board != nil && !slices.Equal(b.Rows(), t.Board) {
		return nil, fmt.Errorf("%w: final board differs", ErrReplayMismatch)
	}
	log.Debug().Str("game-id", t.GameID).Int("moves", len(t.Moves)).Msg("transcript-replayed")
	return b, nil
}
