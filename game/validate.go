package game

import (
	"fmt"

	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/board"
	"github.com/domino14/tilegrid/move"
)

// ApplyMove places each letter on a copy of the board, taking it from a
// copy of the rack, in the order given. For each placement the letter must
// be on the rack, the position on the board and the cell empty, checked in
// that order. The inputs are never modified; on error nothing is returned.
func ApplyMove(b *board.Board, rack alphabet.Rack, placements []move.Placement) (*board.Board, alphabet.Rack, error) {
	nb := b.Copy()
	for i, p := range placements {
		if !rack.Has(p.Letter) {
			return nil, alphabet.Rack{}, fmt.Errorf("%w: placement %d, %v", ErrLetterNotInRack, i, p.Letter)
		}
		if !nb.InBounds(p.Pos) {
			return nil, alphabet.Rack{}, fmt.Errorf("%w: placement %d, position %d", ErrPositionOutOfBounds, i, p.Pos)
		}
		if !nb.IsEmpty(p.Pos) {
			return nil, alphabet.Rack{}, fmt.Errorf("%w: placement %d, position %d", ErrCellOccupied, i, p.Pos)
		}
		rack.Take(p.Letter)
		nb.SetLetter(p.Pos, p.Letter)
	}
	return nb, rack, nil
}
