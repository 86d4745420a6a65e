package game

import (
	"errors"
	"fmt"
	"slices"
)

// NoSeat marks an unset seat index (no active seat, no aggressor).
const NoSeat = -1

var (
	ErrHandComplete    = errors.New("hand is complete")
	ErrWaitingForBoard = errors.New("waiting for board cards")
	ErrIllegalAction   = errors.New("illegal action")
	ErrInvalidSeat     = errors.New("invalid seat")
)

// Table is the complete state of one hand. It is a value: Clone gives an
// independent deep copy, which is what the action log stores as snapshots.
type Table struct {
	Size          int
	SmallBlind    int
	BigBlind      int
	Seats         []Seat
	Board         [5]Card
	CollectedPot  int
	SidePots      []SidePot
	Street        Street
	ActiveSeat    int
	LastAggressor int

	// WaitingForBoard blocks betting until the street's board cards are in.
	WaitingForBoard bool
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := t
	if t.Seats != nil {
		out.Seats = make([]Seat, len(t.Seats))
		for i := range t.Seats {
			out.Seats[i] = t.Seats[i].clone()
		}
	}
	if t.SidePots != nil {
		out.SidePots = make([]SidePot, len(t.SidePots))
		for i, sp := range t.SidePots {
			out.SidePots[i] = SidePot{Amount: sp.Amount, Eligible: slices.Clone(sp.Eligible)}
		}
	}
	return out
}

// TotalChips is the conserved quantity: stacks, street bets and every pot.
func (t *Table) TotalChips() int {
	total := t.CollectedPot
	for _, sp := range t.SidePots {
		total += sp.Amount
	}
	for i := range t.Seats {
		total += t.Seats[i].Stack + t.Seats[i].CurrentBet
	}
	return total
}

// MaxBet is the largest street bet on the table.
func (t *Table) MaxBet() int {
	return maxBet(t.Seats)
}

// Dealer returns the button seat, or NoSeat.
func (t *Table) Dealer() int {
	for i := range t.Seats {
		if t.Seats[i].IsDealer {
			return i
		}
	}
	return NoSeat
}

// Hero returns the hero seat, or NoSeat.
func (t *Table) Hero() int {
	for i := range t.Seats {
		if t.Seats[i].IsHero {
			return i
		}
	}
	return NoSeat
}

// SeatAt returns the seat holding a position label.
func (t *Table) SeatAt(p Position) (Seat, bool) {
	for _, s := range t.Seats {
		if s.Position == p {
			return s, true
		}
	}
	return Seat{}, false
}

// IsComplete returns true once the hand has reached showdown.
func (t *Table) IsComplete() bool {
	return t.Street == Showdown
}

// InHand counts seats that have not folded.
func (t *Table) InHand() int {
	return len(t.inHand())
}

// closeStreet collects the street's bets, moves to the next street and picks
// the first actor. When nobody is left to bet it keeps running the board out.
func (t *Table) closeStreet() {
	t.collectBets()

	if t.InHand() <= 1 || t.Street >= River {
		t.toShowdown()
		return
	}

	t.Street++
	t.WaitingForBoard = t.boardMissing()
	t.ActiveSeat = firstActorAfter(t.Seats, t.Dealer())
	t.LastAggressor = t.ActiveSeat

	t.runOut()
}

// runOut closes streets on which no betting can happen, as long as the board
// for the street has been entered.
func (t *Table) runOut() {
	if t.Street == Showdown || t.WaitingForBoard {
		return
	}
	actors := 0
	for i := range t.Seats {
		if t.Seats[i].CanAct() {
			actors++
		}
	}
	if actors <= 1 {
		t.closeStreet()
	}
}

func (t *Table) toShowdown() {
	t.Street = Showdown
	t.ActiveSeat = NoSeat
	t.LastAggressor = NoSeat
	t.WaitingForBoard = false
}

// boardMissing reports whether any board slot for the current street is empty.
func (t *Table) boardMissing() bool {
	from, to := boardSlots(t.Street)
	for i := from; i < to; i++ {
		if t.Board[i].IsEmpty() {
			return true
		}
	}
	return false
}

// BoardNeeded returns how many board cards the current street still needs.
func (t *Table) BoardNeeded() int {
	from, to := boardSlots(t.Street)
	missing := 0
	for i := from; i < to; i++ {
		if t.Board[i].IsEmpty() {
			missing++
		}
	}
	return missing
}

// SetBoardCard places a card in a board slot. Completing the current
// street's board releases the wait and, if nobody can bet, runs the hand on.
func (t *Table) SetBoardCard(slot int, c Card) error {
	if slot < 0 || slot >= len(t.Board) {
		return fmt.Errorf("board slot %d: %w", slot, ErrInvalidSeat)
	}
	if t.cardInUse(c, -1, slot) {
		return fmt.Errorf("%s: %w", c, ErrDuplicateCard)
	}
	t.Board[slot] = c
	if t.WaitingForBoard && !t.boardMissing() {
		t.WaitingForBoard = false
		t.runOut()
	}
	return nil
}

// SetHoleCard places a card in one of a seat's two hole card slots.
func (t *Table) SetHoleCard(seat, slot int, c Card) error {
	if seat < 0 || seat >= len(t.Seats) {
		return fmt.Errorf("seat %d: %w", seat, ErrInvalidSeat)
	}
	if slot < 0 || slot > 1 {
		return fmt.Errorf("hole slot %d: %w", slot, ErrInvalidSeat)
	}
	if t.cardInUse(c, seat, slot) {
		return fmt.Errorf("%s: %w", c, ErrDuplicateCard)
	}
	t.WriteHoleCard(seat, slot, c)
	return nil
}

// WriteHoleCard stores a hole card without checking it against the rest of
// the table. Out of range seats and slots are ignored.
func (t *Table) WriteHoleCard(seat, slot int, c Card) {
	if seat < 0 || seat >= len(t.Seats) || slot < 0 || slot > 1 {
		return
	}
	s := &t.Seats[seat]
	for len(s.HoleCards) <= slot {
		s.HoleCards = append(s.HoleCards, NoCard)
	}
	s.HoleCards[slot] = c
}

// SetHero marks a single seat as the hero. It touches no betting state.
func (t *Table) SetHero(seat int) {
	for i := range t.Seats {
		t.Seats[i].IsHero = i == seat
	}
}
