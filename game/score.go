package game

import (
	"github.com/domino14/tilegrid/board"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/move"
)

// Per-cell scoring state: a set bit means the cell's run in that direction
// may still be counted by this move.
const (
	acrossOpen uint8 = 1 << iota
	downOpen
)

type direction struct {
	open uint8
	step int
}

// TallyScore scores placements already applied to b: one point for every
// distinct run of two or more letters, across or down, passing through a
// placed tile. Every such run must be in the dictionary. When several
// placements lie on the same run, the first in submission order claims it.
func TallyScore(placements []move.Placement, b *board.Board, dict lexicon.Dictionary) (int, error) {
	open := make([]uint8, b.Len())
	for i := range open {
		open[i] = acrossOpen | downOpen
	}
	dirs := [2]direction{{acrossOpen, 1}, {downOpen, b.Width()}}
	score := 0
	for _, p := range placements {
		for _, d := range dirs {
			word := extractRun(b, open, p, d)
			if len(word) < 2 {
				continue
			}
			if !dict.Contains(word) {
				return 0, &UnknownWordError{Word: word}
			}
			open[p.Pos] &^= d.open
			score++
		}
	}
	return score, nil
}

// extractRun walks from the placement toward both ends of its run in
// direction d, stopping at an empty cell, the board edge, or a cell whose
// run in d was already counted. Every cell walked is marked counted.
func extractRun(b *board.Board, open []uint8, p move.Placement, d direction) string {
	var before, after []byte
	for k := p.Pos - d.step; inRun(b, p.Pos, k, d) && open[k]&d.open != 0; k -= d.step {
		before = append(before, byte(b.Letter(k)))
		open[k] &^= d.open
	}
	for k := p.Pos + d.step; inRun(b, p.Pos, k, d) && open[k]&d.open != 0; k += d.step {
		after = append(after, byte(b.Letter(k)))
		open[k] &^= d.open
	}
	word := make([]byte, 0, len(before)+1+len(after))
	for i := len(before) - 1; i >= 0; i-- {
		word = append(word, before[i])
	}
	word = append(word, byte(p.Letter))
	return string(append(word, after...))
}

// inRun reports whether k is an occupied cell on the same line as anchor.
// Runs across never wrap onto the next row.
func inRun(b *board.Board, anchor, k int, d direction) bool {
	if !b.InBounds(k) || b.IsEmpty(k) {
		return false
	}
	if d.open == acrossOpen {
		ar, _ := b.RowCol(anchor)
		kr, _ := b.RowCol(k)
		return ar == kr
	}
	return true
}
