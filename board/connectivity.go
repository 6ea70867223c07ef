package board

// reachable marks every occupied cell that is 4-connected to the center
// through other occupied cells. Nothing is marked if the center is empty.
func (b *Board) reachable() []bool {
	seen := make([]bool, len(b.cells))
	center := b.Center()
	if b.IsEmpty(center) {
		return seen
	}
	stack := []int{center}
	seen[center] = true
	nbrs := make([]int, 0, 4)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nbrs = b.appendNeighbors(nbrs[:0], top)
		for _, n := range nbrs {
			if !seen[n] && !b.IsEmpty(n) {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return seen
}

// IsConnected returns true iff every occupied cell is 4-connected to the
// center cell through other occupied cells. An empty board is connected; a
// board with tiles but an empty center is not.
func (b *Board) IsConnected() bool {
	seen := b.reachable()
	for pos, l := range b.cells {
		if !l.IsEmpty() && !seen[pos] {
			return false
		}
	}
	return true
}

// Anchors returns the empty cells on which a single new tile would remain
// connected to the center: the center itself on an empty board, otherwise
// the empty neighbours of the connected mass. Positions are ascending.
func (b *Board) Anchors() []int {
	center := b.Center()
	if b.IsEmpty(center) {
		return []int{center}
	}
	seen := b.reachable()
	var anchors []int
	nbrs := make([]int, 0, 4)
	for pos := range b.cells {
		if !b.IsEmpty(pos) {
			continue
		}
		nbrs = b.appendNeighbors(nbrs[:0], pos)
		for _, n := range nbrs {
			if seen[n] {
				anchors = append(anchors, pos)
				break
			}
		}
	}
	return anchors
}
