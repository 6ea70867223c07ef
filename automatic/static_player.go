package automatic

import (
	"github.com/domino14/tilegrid/alphabet"
	"github.com/domino14/tilegrid/board"
	"github.com/domino14/tilegrid/game"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/move"
)

// BestStaticMove tries every one- and two-tile placement through the
// board's anchors and returns the highest scoring legal one. Ties go to
// the first found, scanning anchors in ascending order. A nil result
// means no legal placement was found and the player should pass.
func BestStaticMove(b *board.Board, rack alphabet.Rack, dict lexicon.Dictionary) ([]move.Placement, int) {
	var best []move.Placement
	bestScore := -1

	try := func(ps []move.Placement) {
		nb, _, err := game.ApplyMove(b, rack, ps)
		if err != nil || !nb.IsConnected() {
			return
		}
		score, err := game.TallyScore(ps, nb, dict)
		if err != nil {
			return
		}
		if score > bestScore {
			bestScore = score
			best = append([]move.Placement(nil), ps...)
		}
	}

	letters := distinct(rack.TilesOn())
	w := b.Width()
	for _, anchor := range b.Anchors() {
		row, _ := b.RowCol(anchor)
		for _, l1 := range letters {
			first := move.Placement{Pos: anchor, Letter: l1}
			try([]move.Placement{first})

			rest := rack
			rest.Take(l1)
			others := distinct(rest.TilesOn())
			for _, step := range []int{1, -1, w, -w} {
				pos := anchor + step
				if !b.InBounds(pos) || !b.IsEmpty(pos) {
					continue
				}
				if (step == 1 || step == -1) && pos/w != row {
					continue
				}
				for _, l2 := range others {
					try([]move.Placement{first, {Pos: pos, Letter: l2}})
				}
			}
		}
	}
	if bestScore < 0 {
		return nil, 0
	}
	return best, bestScore
}

func distinct(letters []alphabet.Letter) []alphabet.Letter {
	seen := map[alphabet.Letter]bool{}
	out := letters[:0:0]
	for _, l := range letters {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
