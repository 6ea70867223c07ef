package alphabet

import (
	"fmt"

	"github.com/samber/lo"
)

// RackTileLimit is the number of slots on every rack.
const RackTileLimit = 7

// Rack is a player's hand. It always has exactly RackTileLimit slots; a slot
// is either a letter or the EmptySquareMarker.
type Rack [RackTileLimit]Letter

// NewRack returns a rack with every slot empty.
func NewRack() Rack {
	var r Rack
	for i := range r {
		r[i] = EmptySquareMarker
	}
	return r
}

// RackFromString parses the persisted, delimited form of a rack.
func RackFromString(s string) (Rack, error) {
	letters, err := DecodeLetters(s)
	if err != nil {
		return Rack{}, err
	}
	if len(letters) != RackTileLimit {
		return Rack{}, fmt.Errorf("rack has %d slots, expected %d", len(letters), RackTileLimit)
	}
	var r Rack
	copy(r[:], letters)
	return r, nil
}

// Index returns the first slot holding the letter, or -1.
func (r Rack) Index(letter Letter) int {
	if !letter.IsValid() {
		return -1
	}
	return lo.IndexOf(r[:], letter)
}

func (r Rack) Has(letter Letter) bool {
	return r.Index(letter) != -1
}

// Take empties the first slot holding the letter. It returns false if the
// letter is not on the rack.
func (r *Rack) Take(letter Letter) bool {
	idx := r.Index(letter)
	if idx == -1 {
		return false
	}
	r[idx] = EmptySquareMarker
	return true
}

// NumTiles returns how many slots hold a letter.
func (r Rack) NumTiles() int {
	return lo.CountBy(r[:], func(l Letter) bool { return !l.IsEmpty() })
}

// TilesOn returns the letters on the rack, in slot order.
func (r Rack) TilesOn() []Letter {
	return lo.Filter(r[:], func(l Letter, _ int) bool { return !l.IsEmpty() })
}

// String returns the persisted, delimited form of the rack.
func (r Rack) String() string {
	return EncodeLetters(r[:])
}

// UserVisible returns the rack's letters with empty slots shown as dots.
func (r Rack) UserVisible() string {
	bts := make([]byte, RackTileLimit)
	for i, l := range r {
		if l.IsEmpty() {
			bts[i] = '.'
		} else {
			bts[i] = byte(l)
		}
	}
	return string(bts)
}
