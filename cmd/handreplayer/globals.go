package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/lox/handreplayer/internal/config"
	"github.com/lox/handreplayer/internal/gameid"
	"github.com/lox/handreplayer/internal/randutil"
	"github.com/lox/handreplayer/internal/recorder"
	"github.com/lox/handreplayer/internal/script"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"handreplayer.hcl" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     *int64 `help:"Seed for the random part of hand identifiers"`
}

// setup loads the configuration and builds the logger it asks for.
func (g *Globals) setup() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.Server.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.Server.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
	}), nil
}

// recorderOptions returns the options every command's recorder shares.
func (g *Globals) recorderOptions(logger *log.Logger) []recorder.Option {
	rng, seed := randutil.NewOptional(g.Seed)
	logger.Debug("Seeded hand identifiers", "seed", seed)
	return []recorder.Option{recorder.WithIDGenerator(gameid.NewGenerator(nil, rng))}
}

// loadHand plays a script file into a recorder set up from the
// configuration. A path of "-" reads standard input.
func loadHand(path string, cfg *config.Config, logger *log.Logger, opts ...recorder.Option) (*recorder.Recorder, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	s, err := script.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rec, err := recorder.New(cfg.Recorder(), logger, opts...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(rec); err != nil {
		return nil, fmt.Errorf("applying config: %w", err)
	}
	if err := s.Apply(rec); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("Loaded hand", "file", path, "hand", rec.HandID(), "actions", len(rec.Records()))
	return rec, nil
}
