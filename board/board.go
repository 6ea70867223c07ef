// Package board implements the shared, square playing grid. The board is a
// flat sequence of width*width cells addressed by a single integer
// position; cell p has the 4-neighbours p-1 and p+1 on its row, and p-w and
// p+w on its column.
package board

import (
	"errors"
	"fmt"
	"slices"

	"github.com/domino14/tilegrid/alphabet"
)

var ErrBadDimensions = errors.New("board dimensions do not match")

// A Board is a square grid of cells, each empty or holding one letter. Its
// size is fixed at creation.
type Board struct {
	width int
	cells []alphabet.Letter
}

// New returns an empty board of the given width.
func New(width int) *Board {
	cells := make([]alphabet.Letter, width*width)
	for i := range cells {
		cells[i] = alphabet.EmptySquareMarker
	}
	return &Board{width: width, cells: cells}
}

// FromLetters builds a board from its cells, which must number width*width.
func FromLetters(width int, cells []alphabet.Letter) (*Board, error) {
	if width <= 0 || len(cells) != width*width {
		return nil, fmt.Errorf("%w: %d cells for width %d", ErrBadDimensions,
			len(cells), width)
	}
	for i, l := range cells {
		if !l.IsEmpty() && !l.IsValid() {
			return nil, fmt.Errorf("cell %d: %w", i, alphabet.ErrInvalidLetter)
		}
	}
	return &Board{width: width, cells: slices.Clone(cells)}, nil
}

// FromString parses the persisted, delimited form of a board.
func FromString(width int, s string) (*Board, error) {
	cells, err := alphabet.DecodeLetters(s)
	if err != nil {
		return nil, err
	}
	return FromLetters(width, cells)
}

// Width is the number of cells along one side.
func (b *Board) Width() int {
	return b.width
}

// Len is the total number of cells, width*width.
func (b *Board) Len() int {
	return len(b.cells)
}

// Center is the anchor cell every connected board grows from.
func (b *Board) Center() int {
	return len(b.cells) / 2
}

func (b *Board) InBounds(pos int) bool {
	return pos >= 0 && pos < len(b.cells)
}

func (b *Board) Letter(pos int) alphabet.Letter {
	return b.cells[pos]
}

func (b *Board) IsEmpty(pos int) bool {
	return b.cells[pos].IsEmpty()
}

func (b *Board) SetLetter(pos int, letter alphabet.Letter) {
	b.cells[pos] = letter
}

// RowCol converts a position to its row and column.
func (b *Board) RowCol(pos int) (int, int) {
	return pos / b.width, pos % b.width
}

// Pos converts a row and column to a position.
func (b *Board) Pos(row, col int) int {
	return row*b.width + col
}

// HasTiles returns true if any cell is occupied.
func (b *Board) HasTiles() bool {
	return b.TilesPlayed() > 0
}

// TilesPlayed counts the occupied cells.
func (b *Board) TilesPlayed() int {
	ct := 0
	for _, l := range b.cells {
		if !l.IsEmpty() {
			ct++
		}
	}
	return ct
}

// appendNeighbors appends the in-bounds 4-neighbours of pos to buf. Left
// and right neighbours never wrap onto an adjacent row.
func (b *Board) appendNeighbors(buf []int, pos int) []int {
	col := pos % b.width
	if col > 0 {
		buf = append(buf, pos-1)
	}
	if col < b.width-1 {
		buf = append(buf, pos+1)
	}
	if pos-b.width >= 0 {
		buf = append(buf, pos-b.width)
	}
	if pos+b.width < len(b.cells) {
		buf = append(buf, pos+b.width)
	}
	return buf
}

// Neighbors returns the in-bounds 4-neighbours of pos.
func (b *Board) Neighbors(pos int) []int {
	return b.appendNeighbors(make([]int, 0, 4), pos)
}

// Letters returns a copy of the cells.
func (b *Board) Letters() []alphabet.Letter {
	return slices.Clone(b.cells)
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	return &Board{width: b.width, cells: slices.Clone(b.cells)}
}

// Equals returns true if both boards have the same width and cells.
func (b *Board) Equals(other *Board) bool {
	return b.width == other.width && slices.Equal(b.cells, other.cells)
}

// String returns the persisted, delimited form of the board.
func (b *Board) String() string {
	return alphabet.EncodeLetters(b.cells)
}
