package runner

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilegrid/config"
	"github.com/domino14/tilegrid/game"
)

// GameOptions are what a caller chooses when creating a game. Zero values
// are filled in from the config.
type GameOptions struct {
	Width      int
	MaxPlayers int
}

func (opts *GameOptions) SetDefaults(cfg *config.Config) {
	if opts.Width == 0 {
		opts.Width = cfg.GetInt(config.ConfigDefaultBoardWidth)
		log.Debug().Msgf("using default board width %v", opts.Width)
	}
	if opts.MaxPlayers == 0 {
		opts.MaxPlayers = cfg.GetInt(config.ConfigDefaultMaxPlayers)
		log.Debug().Msgf("using default max players %v", opts.MaxPlayers)
	}
}

func (opts GameOptions) gameOptions(poolSize int) game.GameOptions {
	return game.GameOptions{
		Width:      opts.Width,
		MaxPlayers: opts.MaxPlayers,
		PoolSize:   poolSize,
	}
}
