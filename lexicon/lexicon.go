// Package lexicon provides the word lookups scoring is checked against.
package lexicon

// Dictionary reports whether a word is valid. Words are passed as stored on
// the board: uppercase A-Z.
type Dictionary interface {
	Name() string
	Contains(word string) bool
}

// AcceptAll accepts every word.
type AcceptAll struct{}

func (AcceptAll) Name() string {
	return "AcceptAll"
}

func (AcceptAll) Contains(word string) bool {
	return true
}
