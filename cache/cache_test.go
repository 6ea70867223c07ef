package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tilegrid/config"
)

func TestLoadCallsLoaderOnce(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	calls := 0
	loader := func(cfg *config.Config, key string) (any, error) {
		calls++
		return "obj:" + key, nil
	}
	for i := 0; i < 3; i++ {
		obj, err := Load(cfg, "test-once", loader)
		is.NoErr(err)
		is.Equal(obj, "obj:test-once")
	}
	is.Equal(calls, 1)

	Evict("test-once")
	_, err := Load(cfg, "test-once", loader)
	is.NoErr(err)
	is.Equal(calls, 2)
}

func TestFailedLoadIsNotCached(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	boom := errors.New("boom")
	_, err := Load(cfg, "test-fail", func(*config.Config, string) (any, error) {
		return nil, boom
	})
	is.True(errors.Is(err, boom))

	obj, err := Load(cfg, "test-fail", func(*config.Config, string) (any, error) {
		return 42, nil
	})
	is.NoErr(err)
	is.Equal(obj, 42)
}
