package alphabet

import (
	"encoding/binary"
	"sync"

	"lukechampine.com/frand"
)

// Randomizer is the source of randomness used to build pools. The
// distribution is uniform over the alphabet; there is no letter-frequency
// weighting.
type Randomizer interface {
	// Intn returns a uniform random integer in [0, n).
	Intn(n int) int
}

type frandSource struct{}

func (frandSource) Intn(n int) int {
	return frand.Intn(n)
}

// NewRandomizer returns a cryptographically seeded Randomizer that is safe
// for concurrent use.
func NewRandomizer() Randomizer {
	return frandSource{}
}

type seededSource struct {
	sync.Mutex
	rng *frand.RNG
}

func (s *seededSource) Intn(n int) int {
	s.Lock()
	defer s.Unlock()
	return s.rng.Intn(n)
}

// NewSeededRandomizer returns a deterministic Randomizer; the same seed
// always yields the same sequence.
func NewSeededRandomizer(seed uint64) Randomizer {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	return &seededSource{rng: frand.NewCustom(s[:], 1024, 12)}
}

// RandomLetter draws a single letter uniformly from the alphabet.
func RandomLetter(rng Randomizer) Letter {
	return FirstLetter + Letter(rng.Intn(NumLetters))
}
