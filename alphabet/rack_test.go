package alphabet

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func rackOf(s string) Rack {
	r := NewRack()
	for i := 0; i < len(s) && i < RackTileLimit; i++ {
		r[i] = Letter(s[i])
	}
	return r
}

func TestNewRackIsEmpty(t *testing.T) {
	is := is.New(t)
	r := NewRack()
	is.Equal(len(r), RackTileLimit)
	is.Equal(r.NumTiles(), 0)
	is.Equal(r.String(), " , , , , , , ")
}

func TestRackTake(t *testing.T) {
	r := rackOf("CABBAGE")

	assert.True(t, r.Take('B'))
	assert.Equal(t, rackOf("CA BAGE"), r)

	// Takes the first matching slot.
	assert.True(t, r.Take('A'))
	assert.Equal(t, rackOf("C  BAGE"), r)

	assert.False(t, r.Take('Z'))
	assert.False(t, r.Take(EmptySquareMarker))
	assert.Equal(t, 5, r.NumTiles())
	assert.Equal(t, []Letter{'C', 'B', 'A', 'G', 'E'}, r.TilesOn())
}

func TestRackLengthIsFixed(t *testing.T) {
	is := is.New(t)
	r := rackOf("AB")
	is.Equal(len(r), RackTileLimit)
	for _, l := range "AB" {
		is.True(r.Take(Letter(l)))
	}
	is.Equal(len(r), RackTileLimit)
	is.Equal(r.NumTiles(), 0)
}

func TestRackFromString(t *testing.T) {
	is := is.New(t)
	r, err := RackFromString("C,A,B, , , ,Q")
	is.NoErr(err)
	is.Equal(r, rackOf("CAB   Q"))
	is.Equal(r.UserVisible(), "CAB...Q")

	_, err = RackFromString("C,A,B")
	is.True(err != nil)
}

func lettersOf(s string) []Letter {
	letters := make([]Letter, len(s))
	for i := range s {
		letters[i] = Letter(s[i])
	}
	return letters
}
