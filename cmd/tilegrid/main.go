package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tilegrid/api"
	"github.com/domino14/tilegrid/config"
	"github.com/domino14/tilegrid/natsapi"
	"github.com/domino14/tilegrid/runner"
	"github.com/domino14/tilegrid/store"
)

var (
	GitVersion string
)

const (
	GracefulShutdownTimeout = 20 * time.Second
	RequestTimeout          = 10 * time.Second
)

func setupLogging(cfg *config.Config) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level, err := zerolog.ParseLevel(cfg.GetString(config.ConfigLogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	if err != nil {
		log.Warn().Err(err).Msg("bad log level, using info")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch kind := cfg.GetString(config.ConfigStore); kind {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		return store.OpenSQLite(ctx, cfg.GetString(config.ConfigSQLitePath))
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	// Relative data paths are resolved from the executable's directory.
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\nUsage of tilegrid:\n%s", err, config.Usage())
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(exPath)
	setupLogging(cfg)
	log.Info().Str("version", GitVersion).Str("store", cfg.GetString(config.ConfigStore)).
		Str("lexicon", cfg.GetString(config.ConfigLexicon)).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
	log.Info().Msg("server gracefully shut down")
}

func run(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := runner.New(cfg, st)
	if err != nil {
		return err
	}
	backend := api.NewService(r)

	g, gctx := errgroup.WithContext(ctx)

	if addr := cfg.GetString(config.ConfigHTTPAddr); addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           api.New(backend, RequestTimeout, cfg.GetString(config.ConfigCORSOrigin)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info().Str("addr", addr).Msg("http-listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info().Msg("got quit signal...")
			sctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	if url := cfg.GetString(config.ConfigNatsURL); url != "" {
		nc, err := natsapi.Connect(ctx, url, "tilegrid", 5)
		if err != nil {
			return err
		}
		defer nc.Close()
		responder := natsapi.NewResponder(backend, cfg.GetString(config.ConfigNatsSubjectPrefix), RequestTimeout)
		if err := responder.Start(nc); err != nil {
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			return responder.Stop()
		})
	}

	return g.Wait()
}
