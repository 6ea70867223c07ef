package lexicon

import (
	"github.com/domino14/word-golib/kwg"
	"github.com/domino14/word-golib/tilemapping"
	"github.com/rs/zerolog/log"
)

// KWGDictionary looks words up in a compiled word graph, as distributed
// with full tournament lexica.
type KWGDictionary struct {
	lex kwg.Lexicon
}

func NewKWGDictionary(k *kwg.KWG) *KWGDictionary {
	return &KWGDictionary{lex: kwg.Lexicon{KWG: *k}}
}

func (d *KWGDictionary) Name() string {
	return d.lex.Name()
}

func (d *KWGDictionary) Contains(word string) bool {
	mw, err := tilemapping.ToMachineWord(word, d.lex.GetAlphabet())
	if err != nil {
		// A word the lexicon's alphabet cannot spell is not in it.
		log.Debug().Err(err).Str("word", word).Msg("unconvertible-word")
		return false
	}
	return d.lex.HasWord(mw)
}
