package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	wglconfig "github.com/domino14/word-golib/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDataPath          = "data-path"
	ConfigLexicon           = "lexicon"
	ConfigStore             = "store"
	ConfigSQLitePath        = "sqlite-path"
	ConfigHTTPAddr          = "http-addr"
	ConfigCORSOrigin        = "cors-origin"
	ConfigNatsURL           = "nats-url"
	ConfigNatsSubjectPrefix = "nats-subject-prefix"
	ConfigPoolSize          = "pool-size"
	ConfigLogLevel          = "log-level"
	ConfigDefaultBoardWidth = "default-board-width"
	ConfigDefaultMaxPlayers = "default-max-players"
	ConfigFile              = "config-file"
)

const EnvPrefix = "TILEGRID"

// Config wraps a viper instance. Values come from, in increasing priority:
// defaults, an optional config file, TILEGRID_* environment variables and
// command-line flags.
type Config struct {
	*viper.Viper
}

type setting struct {
	key   string
	value any
	usage string
}

var settings = []setting{
	{ConfigDataPath, "./data", "directory holding lexica and other data files"},
	{ConfigLexicon, "builtin", "dictionary: builtin, accept-all, wordlist:<path> or kwg:<LEXICON>"},
	{ConfigStore, "memory", "state store: memory or sqlite"},
	{ConfigSQLitePath, "./tilegrid.db", "path of the sqlite database"},
	{ConfigHTTPAddr, ":8080", "address the HTTP API listens on; empty disables it"},
	{ConfigCORSOrigin, "*", "origin browsers may call the HTTP API from; empty disables CORS"},
	{ConfigNatsURL, "", "NATS server URL; empty disables the NATS responder"},
	{ConfigNatsSubjectPrefix, "tilegrid", "prefix of every NATS subject"},
	{ConfigPoolSize, 500, "number of letters in a new game's pool"},
	{ConfigLogLevel, "info", "log level: debug, info, warn, error"},
	{ConfigDefaultBoardWidth, 15, "board width used when a request omits it"},
	{ConfigDefaultMaxPlayers, 2, "player count used when a request omits it"},
	{ConfigFile, "", "optional config file (yaml, json or toml)"},
}

// DefaultConfig returns a config holding only default values.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	for _, s := range settings {
		c.SetDefault(s.key, s.value)
	}
	return c
}

// Load reads the environment, the config file if one is named, and the
// given command-line arguments.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		*c = *DefaultConfig()
	}
	c.SetEnvPrefix(EnvPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	fs := pflag.NewFlagSet("tilegrid", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, s := range settings {
		switch v := s.value.(type) {
		case int:
			fs.Int(s.key, v, s.usage)
		default:
			fs.String(s.key, fmt.Sprint(v), s.usage)
		}
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	// flags that were set win over the environment and the config file
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	if path := c.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if errors.As(err, &nf) {
				return fmt.Errorf("config file %v not found: %w", path, err)
			}
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// AdjustRelativePaths anchors relative data and database paths at basepath,
// typically the directory of the executable.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigDataPath, ConfigSQLitePath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basepath, p))
	}
}

// WGLConfig returns the word-golib view of this config, for loading lexica.
func (c *Config) WGLConfig() *wglconfig.Config {
	return &wglconfig.Config{
		DataPath: c.GetString(ConfigDataPath),
	}
}

// Usage describes every setting, for help output.
func Usage() string {
	var sb strings.Builder
	for _, s := range settings {
		fmt.Fprintf(&sb, "  --%-22s %s (default %v)\n", s.key, s.usage, s.value)
	}
	return sb.String()
}
