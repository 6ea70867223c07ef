package alphabet

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

// DefaultPoolSize is how many letters a new game's pool holds.
const DefaultPoolSize = 500

// A Pool is the shared reserve of undrawn letters. It behaves as a stack:
// letters are drawn from the end.
type Pool struct {
	letters []Letter
}

// NewPool fills a pool with size letters drawn uniformly at random from the
// alphabet.
func NewPool(size int, rng Randomizer) Pool {
	letters := make([]Letter, size)
	for i := range letters {
		letters[i] = RandomLetter(rng)
	}
	return Pool{letters: letters}
}

// PoolFromLetters builds a pool whose last letter is drawn first.
func PoolFromLetters(letters []Letter) Pool {
	return Pool{letters: slices.Clone(letters)}
}

// PoolFromString parses the persisted, delimited form of a pool.
func PoolFromString(s string) (Pool, error) {
	letters, err := DecodeLetters(s)
	if err != nil {
		return Pool{}, err
	}
	for i, l := range letters {
		if !l.IsValid() {
			return Pool{}, fmt.Errorf("pool cell %d: %w", i, ErrInvalidLetter)
		}
	}
	return Pool{letters: letters}, nil
}

// TilesRemaining returns the number of undrawn letters.
func (p Pool) TilesRemaining() int {
	return len(p.letters)
}

// Pop draws the last letter of the pool. It returns false if the pool is
// empty.
func (p *Pool) Pop() (Letter, bool) {
	n := len(p.letters)
	if n == 0 {
		return EmptySquareMarker, false
	}
	l := p.letters[n-1]
	p.letters = p.letters[:n-1]
	return l, true
}

// Letters returns a copy of the pool contents; the last element is the
// next letter drawn.
func (p Pool) Letters() []Letter {
	return slices.Clone(p.letters)
}

// Copy returns a deep copy of the pool.
func (p Pool) Copy() Pool {
	return Pool{letters: slices.Clone(p.letters)}
}

// String returns the persisted, delimited form of the pool.
func (p Pool) String() string {
	return EncodeLetters(p.letters)
}

// RefillRack fills every empty rack slot, in slot order, with a letter
// popped from the end of the pool, until the pool runs out. The arguments
// are not modified; the drawn-from pool and the refilled rack are returned.
func RefillRack(pool Pool, rack Rack) (Pool, Rack) {
	drawn := 0
	for i := range rack {
		if !rack[i].IsEmpty() {
			continue
		}
		l, ok := pool.Pop()
		if !ok {
			break
		}
		rack[i] = l
		drawn++
	}
	log.Debug().Int("drawn", drawn).Int("remaining", pool.TilesRemaining()).
		Msg("refill-rack")
	return pool, rack
}
