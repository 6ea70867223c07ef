package lexicon

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed words.txt
var defaultWords string

// WordList is an in-memory set of words.
type WordList struct {
	name  string
	words map[string]struct{}
}

// NewWordList builds a word list from words, upper-casing each.
func NewWordList(name string, words ...string) *WordList {
	upper := cases.Upper(language.Und)
	wl := &WordList{name: name, words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		wl.words[upper.String(w)] = struct{}{}
	}
	return wl
}

// ReadWordList reads one word per line. Blank lines and lines starting
// with '#' are skipped; anything after the first field on a line is
// ignored, so definitions may follow the word.
func ReadWordList(name string, r io.Reader) (*WordList, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.Fields(line)[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list %v: %w", name, err)
	}
	return NewWordList(name, words...), nil
}

// Default returns the small built-in word list.
func Default() *WordList {
	wl, err := ReadWordList("builtin", strings.NewReader(defaultWords))
	if err != nil {
		// The embedded list is read from memory.
		panic(err)
	}
	return wl
}

func (wl *WordList) Name() string {
	return wl.name
}

func (wl *WordList) Contains(word string) bool {
	_, ok := wl.words[word]
	return ok
}

func (wl *WordList) Len() int {
	return len(wl.words)
}
