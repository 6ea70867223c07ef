// Package alphabet contains the letters of the game, and the racks and the
// pool that letters move between.
package alphabet

import (
	"errors"
	"fmt"
	"strings"
)

// A Letter is a single uppercase tile letter, A through Z. Empty squares
// and empty rack slots hold the EmptySquareMarker.
type Letter byte

const (
	// EmptySquareMarker is the letter value of an empty board cell or rack
	// slot.
	EmptySquareMarker Letter = ' '

	FirstLetter Letter = 'A'
	LastLetter  Letter = 'Z'

	// NumLetters is the size of the alphabet.
	NumLetters = int(LastLetter-FirstLetter) + 1

	// LetterSeparator separates cells in the persisted representation of
	// boards, racks and pools.
	LetterSeparator = ","
)

var ErrInvalidLetter = errors.New("invalid letter")

// IsEmpty returns true if this is the empty marker.
func (l Letter) IsEmpty() bool {
	return l == EmptySquareMarker
}

// IsValid returns true for A through Z.
func (l Letter) IsValid() bool {
	return l >= FirstLetter && l <= LastLetter
}

func (l Letter) String() string {
	return string(rune(l))
}

// LetterFromString converts a single-character token to a Letter. Lowercase
// letters are upper-cased. A single space is the empty marker.
func LetterFromString(s string) (Letter, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	l := Letter(strings.ToUpper(s)[0])
	if l.IsEmpty() || l.IsValid() {
		return l, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, s)
}

// EncodeLetters turns cells into their delimited, persisted form.
func EncodeLetters(letters []Letter) string {
	var sb strings.Builder
	for i, l := range letters {
		if i > 0 {
			sb.WriteString(LetterSeparator)
		}
		sb.WriteByte(byte(l))
	}
	return sb.String()
}

// DecodeLetters is the inverse of EncodeLetters.
func DecodeLetters(s string) ([]Letter, error) {
	if s == "" {
		return []Letter{}, nil
	}
	tokens := strings.Split(s, LetterSeparator)
	letters := make([]Letter, len(tokens))
	for i, tok := range tokens {
		l, err := LetterFromString(tok)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		letters[i] = l
	}
	return letters, nil
}
