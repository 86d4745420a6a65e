// Package config loads the hand replayer's HCL configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/handreplayer/internal/game"
	"github.com/lox/handreplayer/internal/handhistory"
	"github.com/lox/handreplayer/internal/recorder"
	"github.com/lox/handreplayer/internal/replay"
)

// Config is the complete configuration file.
// Every block is optional; applyDefaults fills in the ones that are missing.
type Config struct {
	Table   *TableConfig   `hcl:"table,block"`
	Seats   []SeatConfig   `hcl:"seat,block"`
	Replay  *ReplayConfig  `hcl:"replay,block"`
	History *HistoryConfig `hcl:"history,block"`
	Server  *ServerConfig  `hcl:"server,block"`
}

// TableConfig sets up the table every hand is dealt on.
type TableConfig struct {
	Size       int    `hcl:"size,optional"`
	SmallBlind int    `hcl:"small_blind,optional"`
	BigBlind   int    `hcl:"big_blind,optional"`
	Stack      int    `hcl:"stack,optional"`
	Name       string `hcl:"name,optional"`
	Dealer     int    `hcl:"dealer,optional"`
}

// SeatConfig names a seat and optionally overrides its stack. Seats are
// numbered from 1 like in hand histories.
type SeatConfig struct {
	Name  string `hcl:"name,label"`
	Seat  int    `hcl:"seat"`
	Stack int    `hcl:"stack,optional"`
	Hero  bool   `hcl:"hero,optional"`
}

// ReplayConfig paces replays.
type ReplayConfig struct {
	IntervalMS int `hcl:"interval_ms,optional"`
}

// HistoryConfig controls hand history output.
type HistoryConfig struct {
	Rake      int    `hcl:"rake,optional"`
	Directory string `hcl:"directory,optional"`
	Currency  string `hcl:"currency,optional"`
}

// ServerConfig is the websocket server's listen address and logging.
type ServerConfig struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads an HCL file. A missing file yields DefaultConfig.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Table == nil {
		c.Table = &TableConfig{}
	}
	if c.Replay == nil {
		c.Replay = &ReplayConfig{}
	}
	if c.History == nil {
		c.History = &HistoryConfig{}
	}
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}

	if c.Table.Size == 0 {
		c.Table.Size = 6
	}
	if c.Table.SmallBlind == 0 {
		c.Table.SmallBlind = 1
	}
	if c.Table.BigBlind == 0 {
		c.Table.BigBlind = c.Table.SmallBlind * 2
	}
	if c.Table.Stack == 0 {
		c.Table.Stack = c.Table.BigBlind * 100
	}
	if c.Table.Name == "" {
		c.Table.Name = handhistory.DefaultTableName
	}
	if c.Table.Dealer == 0 {
		c.Table.Dealer = 1
	}

	if c.Replay.IntervalMS == 0 {
		c.Replay.IntervalMS = int(replay.DefaultInterval / time.Millisecond)
	}

	if c.History.Directory == "" {
		c.History.Directory = "hand_histories"
	}
	if c.History.Currency == "" {
		c.History.Currency = "USD"
	}

	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
}

// Validate checks the configuration for values the recorder cannot use.
func (c *Config) Validate() error {
	if c.Table.Size < game.MinTableSize || c.Table.Size > game.MaxTableSize {
		return fmt.Errorf("table size must be between %d and %d, got %d", game.MinTableSize, game.MaxTableSize, c.Table.Size)
	}
	if c.Table.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Table.BigBlind < c.Table.SmallBlind {
		return fmt.Errorf("big blind must be at least the small blind")
	}
	if c.Table.Stack <= 0 {
		return fmt.Errorf("stack must be positive")
	}
	if c.Table.Dealer < 1 || c.Table.Dealer > c.Table.Size {
		return fmt.Errorf("dealer seat %d is not at the table", c.Table.Dealer)
	}

	heroes := 0
	seen := make(map[int]bool)
	for _, s := range c.Seats {
		if s.Seat < 1 || s.Seat > c.Table.Size {
			return fmt.Errorf("seat %q: seat %d is not at the table", s.Name, s.Seat)
		}
		if seen[s.Seat] {
			return fmt.Errorf("seat %q: seat %d configured twice", s.Name, s.Seat)
		}
		seen[s.Seat] = true
		if s.Stack < 0 {
			return fmt.Errorf("seat %q: stack must not be negative", s.Name)
		}
		if s.Hero {
			heroes++
		}
	}
	if heroes > 1 {
		return fmt.Errorf("only one seat can be the hero")
	}

	if c.Replay.IntervalMS < 0 {
		return fmt.Errorf("replay interval must not be negative")
	}
	if c.History.Rake < 0 {
		return fmt.Errorf("rake must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}

// Address returns the full server address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// ReplayInterval is the configured pause between replayed actions.
func (c *Config) ReplayInterval() time.Duration {
	return time.Duration(c.Replay.IntervalMS) * time.Millisecond
}

// Recorder converts the table, replay and history settings into a recorder
// configuration.
func (c *Config) Recorder() recorder.Config {
	return recorder.Config{
		Size:       c.Table.Size,
		SmallBlind: c.Table.SmallBlind,
		BigBlind:   c.Table.BigBlind,
		Stack:      c.Table.Stack,
		TableName:  c.Table.Name,
		Currency:   c.History.Currency,
		Rake:       c.History.Rake,
		Interval:   c.ReplayInterval(),
	}
}

// Apply sets up per-seat configuration on a recorder: dealer, names,
// stacks and the hero seat.
func (c *Config) Apply(r *recorder.Recorder) error {
	for _, s := range c.Seats {
		seat := s.Seat - 1
		if err := r.SetPlayerName(seat, s.Name); err != nil {
			return err
		}
		if s.Stack > 0 {
			if err := r.SetStack(seat, s.Stack); err != nil {
				return err
			}
		}
		if s.Hero {
			if err := r.SetHero(seat); err != nil {
				return err
			}
		}
	}
	return r.SetDealer(c.Table.Dealer - 1)
}
