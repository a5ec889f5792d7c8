// Package config holds the server settings. Values come from defaults, an
// optional YAML file, PATHFINDER_* environment variables and command-line
// flags, later sources overriding earlier ones.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"pathfinder"
)

type Config struct {
	Addr             string        `yaml:"addr"`
	Strategy         string        `yaml:"strategy"`
	Heuristic        string        `yaml:"heuristic"`
	GridSpacing      float64       `yaml:"grid_spacing"`
	PlaybackInterval time.Duration `yaml:"playback_interval"`
	BoardFile        string        `yaml:"board_file"`
	CORSOrigin       string        `yaml:"cors_origin"`
	MaxSessions      int           `yaml:"max_sessions"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Addr:             ":8080",
		Strategy:         pathfinder.GraphStrategy.String(),
		Heuristic:        pathfinder.Euclidean.String(),
		PlaybackInterval: 250 * time.Millisecond,
		CORSOrigin:       "*",
		MaxSessions:      64,
	}
}

// Load reads a YAML file over the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return cfg, nil
}

// FromArgs builds the configuration for a command. The -config flag names
// the YAML file; every other flag overrides the matching setting only when
// given explicitly.
func FromArgs(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "YAML configuration file")

	var flags Config
	def := Default()
	fs.StringVar(&flags.Addr, "addr", def.Addr, "listen address")
	fs.StringVar(&flags.Strategy, "strategy", def.Strategy, "default search strategy (dynamic, graph)")
	fs.StringVar(&flags.Heuristic, "heuristic", def.Heuristic, "default heuristic (euclidean, manhattan)")
	fs.Float64Var(&flags.GridSpacing, "grid", def.GridSpacing, "lattice spacing for the dynamic strategy, 0 disables")
	fs.DurationVar(&flags.PlaybackInterval, "interval", def.PlaybackInterval, "delay between snapshots on /watch")
	fs.StringVar(&flags.BoardFile, "board", def.BoardFile, "board file preloaded as the default board")
	fs.StringVar(&flags.CORSOrigin, "cors-origin", def.CORSOrigin, "Access-Control-Allow-Origin value")
	fs.IntVar(&flags.MaxSessions, "max-sessions", def.MaxSessions, "maximum number of live sessions")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if *path != "" {
		loaded, err := Load(*path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = flags.Addr
		case "strategy":
			cfg.Strategy = flags.Strategy
		case "heuristic":
			cfg.Heuristic = flags.Heuristic
		case "grid":
			cfg.GridSpacing = flags.GridSpacing
		case "interval":
			cfg.PlaybackInterval = flags.PlaybackInterval
		case "board":
			cfg.BoardFile = flags.BoardFile
		case "cors-origin":
			cfg.CORSOrigin = flags.CORSOrigin
		case "max-sessions":
			cfg.MaxSessions = flags.MaxSessions
		}
	})

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PATHFINDER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("PATHFINDER_BOARD"); v != "" {
		c.BoardFile = v
	}
	if v := getenv("PATHFINDER_CORS_ORIGIN"); v != "" {
		c.CORSOrigin = v
	}
	if v := getenv("PATHFINDER_PLAYBACK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PATHFINDER_PLAYBACK_INTERVAL: %w", err)
		}
		c.PlaybackInterval = d
	}
	if v := getenv("PATHFINDER_MAX_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PATHFINDER_MAX_SESSIONS: %w", err)
		}
		c.MaxSessions = n
	}
	return nil
}

// Validate reports the first unusable setting
func (c Config) Validate() error {
	if _, err := pathfinder.ParseStrategyKind(c.Strategy); err != nil {
		return err
	}
	if _, err := pathfinder.ParseHeuristicKind(c.Heuristic); err != nil {
		return err
	}
	if c.GridSpacing < 0 {
		return fmt.Errorf("grid spacing must not be negative, got %g", c.GridSpacing)
	}
	if c.PlaybackInterval <= 0 {
		return errors.New("playback interval must be positive")
	}
	if c.MaxSessions <= 0 {
		return errors.New("max sessions must be positive")
	}
	return nil
}

// StrategyKind is the parsed default strategy. Call Validate first.
func (c Config) StrategyKind() pathfinder.StrategyKind {
	k, _ := pathfinder.ParseStrategyKind(c.Strategy)
	return k
}

// HeuristicKind is the parsed default heuristic. Call Validate first.
func (c Config) HeuristicKind() pathfinder.HeuristicKind {
	k, _ := pathfinder.ParseHeuristicKind(c.Heuristic)
	return k
}
