package game

import "slices"

// Position is a seat's label relative to the button.
type Position string

const (
	Button     Position = "BTN"
	SmallBlind Position = "SB"
	BigBlind   Position = "BB"
	UTG        Position = "UTG"
	UTG1       Position = "UTG+1"
	Middle     Position = "MP"
	Lojack     Position = "LJ"
	Hijack     Position = "HJ"
	Cutoff     Position = "CO"
)

// positionsBySize lists labels clockwise starting at the button.
var positionsBySize = map[int][]Position{
	3: {Button, SmallBlind, BigBlind},
	4: {Button, SmallBlind, BigBlind, Cutoff},
	5: {Button, SmallBlind, BigBlind, UTG, Cutoff},
	6: {Button, SmallBlind, BigBlind, UTG, Hijack, Cutoff},
	7: {Button, SmallBlind, BigBlind, UTG, Middle, Hijack, Cutoff},
	8: {Button, SmallBlind, BigBlind, UTG, UTG1, Middle, Hijack, Cutoff},
	9: {Button, SmallBlind, BigBlind, UTG, UTG1, Middle, Lojack, Hijack, Cutoff},
}

// Positions returns the position labels for a table size, clockwise from the button.
func Positions(size int) []Position {
	return slices.Clone(positionsBySize[size])
}

// Seat holds one seat's chip and card state for the current hand.
type Seat struct {
	Index      int
	Position   Position
	PlayerName string
	Stack      int
	HoleCards  []Card
	IsHero     bool
	IsDealer   bool
	IsFolded   bool
	IsAllIn    bool
	CurrentBet int // wagered this street, not yet collected
}

// CanAct returns true if the seat can still make betting decisions.
func (s *Seat) CanAct() bool {
	return !s.IsFolded && !s.IsAllIn
}

// commit moves up to amount chips from stack to the street bet, clamping to
// the stack. It returns the chips actually moved.
func (s *Seat) commit(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount >= s.Stack {
		amount = s.Stack
		s.IsAllIn = true
	}
	s.Stack -= amount
	s.CurrentBet += amount
	return amount
}

func (s Seat) clone() Seat {
	s.HoleCards = slices.Clone(s.HoleCards)
	return s
}
