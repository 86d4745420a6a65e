package game

import "fmt"

// Table size limits.
const (
	MinTableSize = 3
	MaxTableSize = 9
)

// DefaultStack is the starting stack when none is configured.
const DefaultStack = 200

// TableOption configures a Table during creation.
type TableOption func(*tableConfig)

type tableConfig struct {
	stacks     []int // If nil, uses uniform starting stack
	startStack int
	dealer     int
	hero       int
	names      []string
}

// NewTable creates a fresh hand with blinds posted and the first preflop
// actor on the clock. The big blind starts as the aggressor so that a round
// of calls closes the street when the action gets back to it.
//
// Example usage:
//
//	t := NewTable(6, 1, 2)
//	t := NewTable(6, 1, 2, WithDealer(3), WithStacks([]int{200, 150, 200, 80, 200, 200}))
func NewTable(size, smallBlind, bigBlind int, opts ...TableOption) Table {
	if size < MinTableSize || size > MaxTableSize {
		panic(fmt.Sprintf("table size %d out of range", size))
	}

	cfg := &tableConfig{
		startStack: DefaultStack,
		hero:       NoSeat,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.stacks != nil && len(cfg.stacks) != size {
		panic("stacks must match table size")
	}
	if cfg.dealer < 0 || cfg.dealer >= size {
		panic("dealer position out of range")
	}

	labels := Positions(size)
	seats := make([]Seat, size)
	for i := range seats {
		stack := cfg.startStack
		if cfg.stacks != nil {
			stack = cfg.stacks[i]
		}
		seats[i] = Seat{
			Index:    i,
			Position: labels[(i-cfg.dealer+size)%size],
			Stack:    max(stack, 0),
			IsDealer: i == cfg.dealer,
			IsHero:   i == cfg.hero,
		}
		if i < len(cfg.names) {
			seats[i].PlayerName = cfg.names[i]
		}
	}

	t := Table{
		Size:          size,
		SmallBlind:    smallBlind,
		BigBlind:      bigBlind,
		Seats:         seats,
		Street:        Preflop,
		ActiveSeat:    NoSeat,
		LastAggressor: NoSeat,
	}
	t.postBlinds()
	return t
}

func (t *Table) postBlinds() {
	dealer := t.Dealer()
	sb := (dealer + 1) % t.Size
	bb := (dealer + 2) % t.Size

	t.Seats[sb].commit(t.SmallBlind)
	t.Seats[bb].commit(t.BigBlind)

	t.LastAggressor = bb
	t.ActiveSeat = firstActorAfter(t.Seats, bb)

	// Blinds can put everyone but one seat all-in before anyone acts.
	switch turn := Advance(t.Seats, bb, bb); turn.Kind {
	case StreetClose:
		t.closeStreet()
	case HandOver:
		t.collectBets()
		t.toShowdown()
	}
}

// Option Functions

// WithUniformStack sets the same starting stack for every seat.
func WithUniformStack(stack int) TableOption {
	return func(c *tableConfig) {
		c.startStack = stack
		c.stacks = nil
	}
}

// WithStacks sets individual starting stacks. The length must match the table size.
func WithStacks(stacks []int) TableOption {
	return func(c *tableConfig) {
		c.stacks = stacks
	}
}

// WithDealer puts the button on a seat. Defaults to seat 0.
func WithDealer(seat int) TableOption {
	return func(c *tableConfig) {
		c.dealer = seat
	}
}

// WithHero marks the hero seat.
func WithHero(seat int) TableOption {
	return func(c *tableConfig) {
		c.hero = seat
	}
}

// WithPlayerNames attaches display names to seats, in seat order.
func WithPlayerNames(names ...string) TableOption {
	return func(c *tableConfig) {
		c.names = names
	}
}
