package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/tilegrid/config"
)

func TestDefaultWordList(t *testing.T) {
	is := is.New(t)
	d := Default()
	is.Equal(d.Name(), "builtin")
	is.True(d.Contains("CAB"))
	is.True(d.Contains("AB"))
	is.True(!d.Contains("ZZZ"))
	// lookups are as stored, uppercase
	is.True(!d.Contains("cab"))
	is.True(d.Len() > 100)
}

func TestReadWordList(t *testing.T) {
	is := is.New(t)
	src := "# comment\n\ncab a small carriage\n  dog\nCat\n"
	wl, err := ReadWordList("test", strings.NewReader(src))
	is.NoErr(err)
	is.Equal(wl.Len(), 3)
	for _, w := range []string{"CAB", "DOG", "CAT"} {
		assert.True(t, wl.Contains(w), w)
	}
	is.True(!wl.Contains("A"))
}

func TestAcceptAll(t *testing.T) {
	is := is.New(t)
	var d Dictionary = AcceptAll{}
	is.True(d.Contains("QXZJ"))
}

func TestGet(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()

	d, err := Get(cfg, "")
	is.NoErr(err)
	is.Equal(d.Name(), "builtin")
	again, err := Get(cfg, BuiltinName)
	is.NoErr(err)
	is.Equal(d, again)

	d, err = Get(cfg, AcceptAllName)
	is.NoErr(err)
	is.True(d.Contains("ZZZ"))

	path := filepath.Join(t.TempDir(), "words.txt")
	is.NoErr(os.WriteFile(path, []byte("zzz\n"), 0o600))
	d, err = Get(cfg, "wordlist:"+path)
	is.NoErr(err)
	is.True(d.Contains("ZZZ"))
	is.True(!d.Contains("CAB"))

	_, err = Get(cfg, "bogus")
	is.True(errors.Is(err, ErrUnknownLexicon))

	_, err = Get(cfg, "wordlist:"+filepath.Join(t.TempDir(), "missing.txt"))
	is.True(err != nil)
}

func TestGetMissingKWG(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, t.TempDir())
	_, err := Get(cfg, "kwg:NOSUCHLEX")
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "failed to load kwg"))
}
