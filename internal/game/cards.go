package game

import (
	"errors"
	"fmt"
	"strings"
)

// Card is a two character card token: a rank (2-9, T, J, Q, K, A) followed by
// a suit (h, d, c, s). A '?' in either position marks an unknown card.
type Card string

// UnknownCard is the sentinel for a hidden card.
const UnknownCard Card = "??"

// NoCard marks an empty card slot.
const NoCard Card = ""

var (
	ErrInvalidCard   = errors.New("invalid card token")
	ErrDuplicateCard = errors.New("card already in use")
)

const (
	ranks = "23456789TJQKA"
	suits = "hdcs"
)

// ParseCard validates and normalizes a card token. It accepts "10h" as an
// alias for "Th" and upper-case suits.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return NoCard, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	rank := strings.ToUpper(s[:1])
	suit := strings.ToLower(s[1:])

	if rank != "?" && !strings.Contains(ranks, rank) {
		return NoCard, fmt.Errorf("%w: bad rank in %q", ErrInvalidCard, s)
	}
	if suit != "?" && !strings.Contains(suits, suit) {
		return NoCard, fmt.Errorf("%w: bad suit in %q", ErrInvalidCard, s)
	}

	return Card(rank + suit), nil
}

// MustParseCard is ParseCard for literals in tests and fixtures.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsKnown reports whether both rank and suit are known.
func (c Card) IsKnown() bool {
	return len(c) == 2 && !strings.ContainsRune(string(c), '?')
}

// IsEmpty reports whether the slot holds no card at all.
func (c Card) IsEmpty() bool {
	return c == NoCard
}

func (c Card) String() string {
	if c.IsEmpty() {
		return ""
	}
	if !c.IsKnown() {
		return string(UnknownCard)
	}
	return string(c)
}

// boardSlots returns the board slot range dealt on the given street.
func boardSlots(s Street) (from, to int) {
	switch s {
	case Flop:
		return 0, 3
	case Turn:
		return 3, 4
	case River:
		return 4, 5
	}
	return 0, 0
}

// cardInUse reports whether a known card is already on the board or in a
// hole other than the (seat, slot) being assigned. seat -1 addresses the board.
func (t *Table) cardInUse(c Card, seat, slot int) bool {
	if !c.IsKnown() {
		return false
	}
	for i, b := range t.Board {
		if b == c && !(seat == -1 && slot == i) {
			return true
		}
	}
	for _, s := range t.Seats {
		for j, h := range s.HoleCards {
			if h == c && !(seat == s.Index && slot == j) {
				return true
			}
		}
	}
	return false
}
