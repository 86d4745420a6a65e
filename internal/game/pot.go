package game

import (
	"slices"
	"sort"
)

// SidePot is a pot segment only the Eligible seats can win.
type SidePot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// Pot is a main or side pot as presented to callers; the main pot comes first.
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// Layer is one slice of the street's bets between two all-in levels.
type Layer struct {
	Level    int
	Amount   int
	Eligible []int
}

// SplitLayers slices the street's bets into pot layers at every distinct
// all-in level plus the table maximum. A layer only one seat can win is
// returned with that seat as the sole eligible entry; the caller refunds it.
func SplitLayers(seats []Seat) []Layer {
	max := maxBet(seats)
	if max == 0 {
		return nil
	}

	levels := []int{max}
	for i := range seats {
		s := &seats[i]
		if s.IsAllIn && !s.IsFolded && s.CurrentBet > 0 && s.CurrentBet < max {
			levels = append(levels, s.CurrentBet)
		}
	}
	sort.Ints(levels)
	levels = slices.Compact(levels)

	layers := make([]Layer, 0, len(levels))
	prev := 0
	for _, level := range levels {
		width := level - prev
		layer := Layer{Level: level}
		for i := range seats {
			s := &seats[i]
			layer.Amount += clamp(s.CurrentBet-prev, 0, width)
			if !s.IsFolded && s.CurrentBet >= level {
				layer.Eligible = append(layer.Eligible, s.Index)
			}
		}
		if layer.Amount > 0 {
			layers = append(layers, layer)
		}
		prev = level
	}
	return layers
}

// collectBets closes the street's betting: uncalled chips go back to their
// owner, the rest is moved into the main pot or side pots, and every street
// bet is zeroed.
func (t *Table) collectBets() {
	inHand, allIn := 0, 0
	for i := range t.Seats {
		if !t.Seats[i].IsFolded {
			inHand++
			if t.Seats[i].IsAllIn {
				allIn++
			}
		}
	}

	switch {
	case inHand <= 1:
		t.collectUncontested()
		return
	case inHand == 2 && allIn > 0:
		t.collectHeadsUp()
	default:
		t.refundUncalled()
		for _, layer := range SplitLayers(t.Seats) {
			if len(layer.Eligible) == 1 {
				t.Seats[layer.Eligible[0]].Stack += layer.Amount
				continue
			}
			t.addToPot(layer.Amount, layer.Eligible)
		}
	}

	for i := range t.Seats {
		t.Seats[i].CurrentBet = 0
	}
	t.normalizePots()
}

// refundUncalled returns the part of the single largest bet that nobody else
// matched, folded seats included.
func (t *Table) refundUncalled() {
	top, first, second := NoSeat, 0, 0
	for i := range t.Seats {
		b := t.Seats[i].CurrentBet
		switch {
		case b > first:
			second, first, top = first, b, i
		case b > second:
			second = b
		}
	}
	if top == NoSeat || first == second {
		return
	}
	s := &t.Seats[top]
	excess := first - second
	s.CurrentBet -= excess
	s.Stack += excess
	if s.Stack > 0 {
		s.IsAllIn = false
	}
}

// collectUncontested ends a hand that everybody else folded: the uncalled
// part of the last bet goes back and every other chip joins one pot for the
// remaining seat to collect.
func (t *Table) collectUncontested() {
	t.refundUncalled()
	for i := range t.Seats {
		t.CollectedPot += t.Seats[i].CurrentBet
		t.Seats[i].CurrentBet = 0
	}
	for _, sp := range t.SidePots {
		t.CollectedPot += sp.Amount
	}
	t.SidePots = nil
}

// collectHeadsUp handles the two-seats-left all-in case: the larger wager is
// trimmed to the smaller one and the rest of the street goes into the open pot
// without creating a side pot.
func (t *Table) collectHeadsUp() {
	var pair []int
	for i := range t.Seats {
		if !t.Seats[i].IsFolded {
			pair = append(pair, i)
		}
	}
	a, b := &t.Seats[pair[0]], &t.Seats[pair[1]]
	if a.CurrentBet < b.CurrentBet {
		a, b = b, a
	}
	if excess := a.CurrentBet - b.CurrentBet; excess > 0 {
		a.Stack += excess
		a.CurrentBet -= excess
		if a.Stack > 0 {
			a.IsAllIn = false
		}
	}

	total := 0
	for i := range t.Seats {
		total += t.Seats[i].CurrentBet
	}
	if total == 0 {
		return
	}
	if n := len(t.SidePots); n > 0 {
		t.SidePots[n-1].Amount += total
		return
	}
	t.CollectedPot += total
}

// addToPot merges a layer into the most recent pot when both have the same
// eligible seats, otherwise it opens a new side pot.
func (t *Table) addToPot(amount int, eligible []int) {
	if n := len(t.SidePots); n > 0 {
		last := &t.SidePots[n-1]
		if slices.Equal(last.Eligible, eligible) {
			last.Amount += amount
			return
		}
		t.SidePots = append(t.SidePots, SidePot{Amount: amount, Eligible: eligible})
		return
	}
	if slices.Equal(t.inHand(), eligible) {
		t.CollectedPot += amount
		return
	}
	t.SidePots = append(t.SidePots, SidePot{Amount: amount, Eligible: eligible})
}

// normalizePots drops folded seats from side pot eligibility, merges side
// pots whose eligibility became identical and hands a side pot with a single
// remaining contender straight back to that seat.
func (t *Table) normalizePots() {
	if len(t.SidePots) == 0 {
		return
	}

	out := t.SidePots[:0]
	for _, sp := range t.SidePots {
		sp.Eligible = slices.DeleteFunc(sp.Eligible, func(seat int) bool {
			return t.Seats[seat].IsFolded
		})

		switch {
		case len(sp.Eligible) == 0:
			// Nobody left to contest it; fold it into the pot below.
			if len(out) > 0 {
				out[len(out)-1].Amount += sp.Amount
			} else {
				t.CollectedPot += sp.Amount
			}
			continue
		case len(sp.Eligible) == 1:
			t.Seats[sp.Eligible[0]].Stack += sp.Amount
			continue
		case len(out) > 0 && slices.Equal(out[len(out)-1].Eligible, sp.Eligible):
			out[len(out)-1].Amount += sp.Amount
			continue
		case len(out) == 0 && slices.Equal(t.inHand(), sp.Eligible):
			t.CollectedPot += sp.Amount
			continue
		}
		out = append(out, sp)
	}

	if len(out) == 0 {
		t.SidePots = nil
		return
	}
	t.SidePots = out
}

// Pots returns the main pot followed by any side pots. Chips still in front
// of the players this street are not included.
func (t *Table) Pots() []Pot {
	pots := make([]Pot, 0, 1+len(t.SidePots))
	if t.CollectedPot > 0 || len(t.SidePots) > 0 {
		pots = append(pots, Pot{Amount: t.CollectedPot, Eligible: t.inHand()})
	}
	for _, sp := range t.SidePots {
		pots = append(pots, Pot{Amount: sp.Amount, Eligible: slices.Clone(sp.Eligible)})
	}
	return pots
}

// PotTotal is every chip in the middle, including uncollected street bets.
func (t *Table) PotTotal() int {
	total := t.CollectedPot
	for _, sp := range t.SidePots {
		total += sp.Amount
	}
	for i := range t.Seats {
		total += t.Seats[i].CurrentBet
	}
	return total
}

func (t *Table) inHand() []int {
	seats := make([]int, 0, len(t.Seats))
	for i := range t.Seats {
		if !t.Seats[i].IsFolded {
			seats = append(seats, t.Seats[i].Index)
		}
	}
	return seats
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
