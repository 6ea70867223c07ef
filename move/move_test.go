package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tilegrid/alphabet"
)

type placementTestStruct struct {
	input  string
	output []Placement
}

var placementTests = []placementTestStruct{
	{"", []Placement{}},
	{"112,C", []Placement{{Pos: 112, Letter: 'C'}}},
	{"112,C,113,A,114,B", []Placement{{Pos: 112, Letter: 'C'}, {Pos: 113, Letter: 'A'}, {Pos: 114, Letter: 'B'}}},
	// trailing unpaired token is ignored
	{"112,C,113", []Placement{{Pos: 112, Letter: 'C'}}},
	{" 7 ,q", []Placement{{Pos: 7, Letter: 'Q'}}},
	// bounds are not the codec's business
	{"-1,A,900,B", []Placement{{Pos: -1, Letter: 'A'}, {Pos: 900, Letter: 'B'}}},
}

func TestParsePlacements(t *testing.T) {
	is := is.New(t)
	for _, tc := range placementTests {
		ps, err := ParsePlacements(tc.input)
		is.NoErr(err)
		is.Equal(ps, tc.output)
	}
}

func TestParsePlacementsMalformed(t *testing.T) {
	is := is.New(t)
	for _, input := range []string{"X,A", "112,AB", "112,3", "112, ", "1.5,A"} {
		_, err := ParsePlacements(input)
		is.True(errors.Is(err, ErrMalformedPlacements))
	}
}

func TestEncodePlacements(t *testing.T) {
	is := is.New(t)
	ps := []Placement{{Pos: 112, Letter: 'C'}, {Pos: 113, Letter: 'A'}}
	enc := EncodePlacements(ps)
	is.Equal(enc, "112,C,113,A")
	is.Equal(EncodePlacements(nil), "")
}

func TestShortDescription(t *testing.T) {
	is := is.New(t)
	m := &Move{Seq: 3, Placements: []Placement{{Pos: 112, Letter: 'C'}, {Pos: 113, Letter: 'A'}}, Score: 1}
	is.Equal(m.ShortDescription(), "#3 112:C 113:A 1")
	is.Equal(m.TilesPlayed(), 2)

	pass := &Move{Seq: 4}
	is.Equal(pass.ShortDescription(), "#4 (pass) 0")
}

func TestCopyIsDeep(t *testing.T) {
	is := is.New(t)
	m := &Move{Seq: 1, Placements: []Placement{{Pos: 112, Letter: 'C'}}}
	cp := m.Copy()
	cp.Placements[0].Letter = 'Z'
	is.Equal(m.Placements[0].Letter, alphabet.Letter('C'))
}
