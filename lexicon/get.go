package lexicon

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/domino14/word-golib/kwg"

	"github.com/domino14/tilegrid/cache"
	"github.com/domino14/tilegrid/config"
)

var ErrUnknownLexicon = errors.New("unknown lexicon")

const (
	BuiltinName   = "builtin"
	AcceptAllName = "accept-all"
	wordListKey   = "wordlist:"
	kwgKey        = "kwg:"
)

// Get resolves a lexicon by name:
//
//	builtin            the embedded word list
//	accept-all         every word is valid
//	wordlist:<path>    a plain word list file
//	kwg:<LEXICON>      a KWG lexicon under the data path, e.g. kwg:NWL23
//
// An empty name means the configured default. Loaded lexica are cached for
// the life of the process.
func Get(cfg *config.Config, name string) (Dictionary, error) {
	if name == "" {
		name = cfg.GetString(config.ConfigLexicon)
	}
	switch {
	case name == BuiltinName, name == AcceptAllName,
		strings.HasPrefix(name, wordListKey), strings.HasPrefix(name, kwgKey):
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLexicon, name)
	}
	obj, err := cache.Load(cfg, "lexicon:"+name, loadFunc)
	if err != nil {
		return nil, err
	}
	return obj.(Dictionary), nil
}

func loadFunc(cfg *config.Config, key string) (any, error) {
	name := strings.TrimPrefix(key, "lexicon:")
	switch {
	case name == BuiltinName:
		return Default(), nil
	case name == AcceptAllName:
		return AcceptAll{}, nil
	case strings.HasPrefix(name, wordListKey):
		path := strings.TrimPrefix(name, wordListKey)
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open word list: %w", err)
		}
		defer f.Close()
		return ReadWordList(path, f)
	case strings.HasPrefix(name, kwgKey):
		k, err := kwg.Get(cfg.WGLConfig(), strings.TrimPrefix(name, kwgKey))
		if err != nil {
			return nil, fmt.Errorf("failed to load kwg: %w", err)
		}
		return NewKWGDictionary(k), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLexicon, name)
}
