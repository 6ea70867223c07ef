package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilegrid/config"
)

// The cache holds large objects that are expensive to build and safe to
// share between games, such as dictionaries.

type cache struct {
	sync.Mutex
	objects map[string]any
}

type loadFunc func(cfg *config.Config, key string) (any, error)

// GlobalObjectCache is the process-wide object cache.
var GlobalObjectCache *cache

func (c *cache) get(cfg *config.Config, key string, loadFunc loadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := loadFunc(cfg, key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *cache) evict(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

var createOnce sync.Once

func CreateGlobalObjectCache() {
	createOnce.Do(func() {
		GlobalObjectCache = &cache{objects: make(map[string]any)}
	})
}

// Load returns the object cached under key, calling loadFunc to build it the
// first time. Failed loads are not cached.
func Load(cfg *config.Config, key string, loadFunc loadFunc) (any, error) {
	CreateGlobalObjectCache()
	return GlobalObjectCache.get(cfg, key, loadFunc)
}

// Evict drops key from the cache so the next Load rebuilds it.
func Evict(key string) {
	CreateGlobalObjectCache()
	GlobalObjectCache.evict(key)
}
