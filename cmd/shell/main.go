package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilegrid/api"
	"github.com/domino14/tilegrid/config"
	"github.com/domino14/tilegrid/lexicon"
	"github.com/domino14/tilegrid/natsapi"
	"github.com/domino14/tilegrid/runner"
	"github.com/domino14/tilegrid/shell"
	"github.com/domino14/tilegrid/store"
)

var (
	GitVersion string
)

// backend returns a NATS client when a server URL is configured, and an
// in-process service otherwise.
func backend(ctx context.Context, cfg *config.Config) (api.Backend, func(), error) {
	if url := cfg.GetString(config.ConfigNatsURL); url != "" {
		nc, err := natsapi.Connect(ctx, url, "tilegrid-shell", 3)
		if err != nil {
			return nil, nil, err
		}
		client := natsapi.NewClient(nc, cfg.GetString(config.ConfigNatsSubjectPrefix), 0, 0)
		return client, nc.Close, nil
	}
	var st store.Store
	var err error
	if cfg.GetString(config.ConfigStore) == "sqlite" {
		st, err = store.OpenSQLite(ctx, cfg.GetString(config.ConfigSQLitePath))
		if err != nil {
			return nil, nil, err
		}
	} else {
		st = store.NewMemoryStore()
	}
	r, err := runner.New(cfg, st)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return api.NewService(r), func() { st.Close() }, nil
}

func main() {
	_ = godotenv.Load()

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)
	fmt.Println("tilegrid shell", GitVersion)

	// Flags come first; anything after "--" is run as a single command.
	args := os.Args[1:]
	var cmdline []string
	for i, a := range args {
		if a == "--" {
			args, cmdline = args[:i], args[i+1:]
			break
		}
	}
	cfg := config.DefaultConfig()
	if err := cfg.Load(args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\nUsage of shell:\n%s", err, config.Usage())
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(exPath)

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	level, err := zerolog.ParseLevel(cfg.GetString(config.ConfigLogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger

	b, cleanup, err := backend(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not start")
	}
	defer cleanup()

	dict, err := lexicon.Get(cfg, "")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load lexicon")
	}
	sc := shell.NewShellController(b, dict)
	if len(cmdline) > 0 {
		if err := sc.Execute(strings.Join(cmdline, " ")); err != nil {
			log.Error().Err(err).Msg("")
		}
		return
	}

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		for s := range sig {
			// an interrupt during autoplay only stops the batch
			if s == syscall.SIGINT && sc.StopAutoplay() {
				log.Info().Msg("stopping autoplay...")
				continue
			}
			break
		}
		log.Info().Msg("got quit signal...")
		close(done)
	}()
	go sc.Loop(sig)
	<-done
	log.Info().Msg("bye")
}
