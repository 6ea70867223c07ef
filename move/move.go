// Package move describes the placements a player submits in a turn, and the
// record of an accepted move.
package move

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/domino14/tilegrid/alphabet"
)

var ErrMalformedPlacements = errors.New("malformed placements")

// A Placement is a single letter proposed for a single board position.
type Placement struct {
	Pos    int
	Letter alphabet.Letter
}

func (p Placement) String() string {
	return fmt.Sprintf("%d:%s", p.Pos, p.Letter)
}

// Move is the record of an accepted turn. It is built per turn request and
// only persisted once the whole turn validated and scored; after that it
// never changes.
type Move struct {
	ID       string
	GameID   string
	PlayerID string
	// Seq is the move's position in its game's move sequence, starting at 0.
	Seq        int
	Placements []Placement
	Score      int
	CreatedAt  time.Time
}

// TilesPlayed returns the number of placements in the move.
func (m *Move) TilesPlayed() int {
	return len(m.Placements)
}

// Copy returns a deep copy of the move.
func (m *Move) Copy() *Move {
	cp := *m
	cp.Placements = slices.Clone(m.Placements)
	return &cp
}

// ShortDescription is a one-line summary, for logs and the shell.
func (m *Move) ShortDescription() string {
	if len(m.Placements) == 0 {
		return fmt.Sprintf("#%d (pass) %d", m.Seq, m.Score)
	}
	tiles := lo.Map(m.Placements, func(p Placement, _ int) string { return p.String() })
	return fmt.Sprintf("#%d %s %d", m.Seq, strings.Join(tiles, " "), m.Score)
}

// ParsePlacements parses the delimited wire form of a move's placements:
// alternating position and letter tokens, e.g. "112,C,113,A". A trailing
// unpaired token is ignored.
func ParsePlacements(s string) ([]Placement, error) {
	if strings.TrimSpace(s) == "" {
		return []Placement{}, nil
	}
	return PlacementsFromTokens(strings.Split(s, alphabet.LetterSeparator))
}

// PlacementsFromTokens pairs up position and letter tokens. A trailing
// unpaired token is ignored.
func PlacementsFromTokens(tokens []string) ([]Placement, error) {
	n := len(tokens) / 2 * 2
	placements := make([]Placement, 0, n/2)
	for i := 0; i < n; i += 2 {
		pos, err := strconv.Atoi(strings.TrimSpace(tokens[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: position %q", ErrMalformedPlacements, tokens[i])
		}
		tok := strings.TrimSpace(tokens[i+1])
		letter, err := alphabet.LetterFromString(tok)
		if err != nil || !letter.IsValid() {
			return nil, fmt.Errorf("%w: letter %q", ErrMalformedPlacements, tokens[i+1])
		}
		placements = append(placements, Placement{Pos: pos, Letter: letter})
	}
	return placements, nil
}

// EncodePlacements is the inverse of ParsePlacements.
func EncodePlacements(placements []Placement) string {
	tokens := make([]string, 0, len(placements)*2)
	for _, p := range placements {
		tokens = append(tokens, strconv.Itoa(p.Pos), p.Letter.String())
	}
	return strings.Join(tokens, alphabet.LetterSeparator)
}
