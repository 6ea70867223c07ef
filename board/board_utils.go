package board

import (
	"fmt"
	"strings"

	"github.com/domino14/tilegrid/alphabet"
)

const (
	emptyDisplay  = '.'
	anchorDisplay = '*'
)

// FromRows builds a board from plaintext rows, one string per row. A '.' or
// a space is an empty cell. All rows must be as long as there are rows.
func FromRows(rows []string) (*Board, error) {
	n := len(rows)
	b := New(n)
	for r, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d",
				ErrBadDimensions, r, len(row), n)
		}
		for c := 0; c < n; c++ {
			ch := row[c]
			if ch == emptyDisplay || ch == ' ' {
				continue
			}
			l := alphabet.Letter(ch)
			if !l.IsValid() {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, alphabet.ErrInvalidLetter)
			}
			b.SetLetter(b.Pos(r, c), l)
		}
	}
	return b, nil
}

// Rows returns the board as plaintext rows, the inverse of FromRows.
func (b *Board) Rows() []string {
	rows := make([]string, b.width)
	for r := range rows {
		bts := make([]byte, b.width)
		for c := range bts {
			l := b.cells[b.Pos(r, c)]
			if l.IsEmpty() {
				bts[c] = emptyDisplay
			} else {
				bts[c] = byte(l)
			}
		}
		rows[r] = string(bts)
	}
	return rows
}

// ToDisplayText renders the board with column numbers across the top and,
// down the side, the position of the first cell of each row. If
// showAnchors is set, empty cells a new tile could connect through are
// marked.
func (b *Board) ToDisplayText(showAnchors bool) string {
	var anchors map[int]bool
	if showAnchors {
		anchors = map[int]bool{}
		for _, a := range b.Anchors() {
			anchors[a] = true
		}
	}
	var sb strings.Builder
	sb.WriteString("     ")
	for c := 0; c < b.width; c++ {
		fmt.Fprintf(&sb, "%3d", c)
	}
	sb.WriteString("\n")
	sb.WriteString("     " + strings.Repeat("-", b.width*3+1) + "\n")
	for r := 0; r < b.width; r++ {
		fmt.Fprintf(&sb, "%4d|", b.Pos(r, 0))
		for c := 0; c < b.width; c++ {
			pos := b.Pos(r, c)
			ch := byte(b.cells[pos])
			if b.cells[pos].IsEmpty() {
				ch = emptyDisplay
				if anchors[pos] {
					ch = anchorDisplay
				}
			}
			fmt.Fprintf(&sb, "  %c", ch)
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString("     " + strings.Repeat("-", b.width*3+1) + "\n")
	return "\n" + sb.String()
}
