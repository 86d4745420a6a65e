package game

import "fmt"

// Intent is an action request from the presentation layer. Amount is the
// seat's total street bet after a bet or raise; it is ignored otherwise.
type Intent struct {
	Type   ActionType
	Amount int
}

// ActionRecord is one applied action. PrevState is the full table as it was
// before the action, so restoring it undoes the action exactly.
type ActionRecord struct {
	ID        string     `json:"id"`
	Seat      int        `json:"seat"`
	Position  Position   `json:"position"`
	Type      ActionType `json:"type"`
	Amount    int        `json:"amount,omitempty"` // street total after the action
	Street    Street     `json:"street"`
	PrevState Table      `json:"-"`
}

// ApplyAction applies an intent for the active seat and returns the new
// table together with the record of what happened. The input table is not
// modified. Bet sizes are clamped into the legal range and a wager that
// empties the stack is recorded as an all-in.
func ApplyAction(t Table, in Intent) (Table, ActionRecord, error) {
	if t.Street == Showdown || t.ActiveSeat == NoSeat {
		return t, ActionRecord{}, ErrHandComplete
	}
	if t.WaitingForBoard {
		return t, ActionRecord{}, ErrWaitingForBoard
	}

	seat := t.ActiveSeat
	next := t.Clone()
	rec := ActionRecord{
		Seat:      seat,
		Position:  t.Seats[seat].Position,
		Street:    t.Street,
		PrevState: t.Clone(),
	}

	s := &next.Seats[seat]
	price := next.MaxBet()
	toCall := max(0, price-s.CurrentBet)

	switch in.Type {
	case Fold:
		s.IsFolded = true
		rec.Type = Fold

	case Check:
		if toCall > 0 {
			return t, ActionRecord{}, fmt.Errorf("%w: cannot check, must call %d", ErrIllegalAction, toCall)
		}
		rec.Type = Check

	case Call:
		if toCall == 0 {
			rec.Type = Check
			break
		}
		s.commit(toCall)
		rec.Type = Call

	case Bet, Raise:
		if sz, ok := next.Sizing(); ok {
			s.commit(sz.Clamp(in.Amount) - s.CurrentBet)
		} else {
			// Not enough behind to raise: the best available is a call.
			s.commit(toCall)
		}
		rec.Type = Raise
		if price == 0 {
			rec.Type = Bet
		}
		if s.CurrentBet <= price {
			rec.Type = Call
		}

	case AllIn:
		s.commit(s.Stack)
		rec.Type = AllIn

	default:
		return t, ActionRecord{}, fmt.Errorf("%w: unknown action %d", ErrIllegalAction, in.Type)
	}

	if s.IsAllIn && rec.Type != Fold && rec.Type != Check {
		rec.Type = AllIn
	}
	if rec.Type != Fold && rec.Type != Check {
		rec.Amount = s.CurrentBet
	}
	if s.CurrentBet > price {
		next.LastAggressor = seat
	}

	switch turn := Advance(next.Seats, seat, next.LastAggressor); turn.Kind {
	case NextActor:
		next.ActiveSeat = turn.Next
	case StreetClose:
		next.closeStreet()
	case HandOver:
		next.collectBets()
		next.toShowdown()
	}

	return next, rec, nil
}

// Sizing is the bounded range offered when a seat opens a bet or raise.
type Sizing struct {
	Type ActionType `json:"type"`
	Seat int        `json:"seat"`
	Min  int        `json:"min"`
	Max  int        `json:"max"`
}

// Clamp moves an amount into [Min, Max].
func (s Sizing) Clamp(amount int) int {
	return clamp(amount, s.Min, s.Max)
}

// Sizing returns the bet or raise range for the active seat. ok is false when
// the seat cannot put in more than a call.
func (t *Table) Sizing() (Sizing, bool) {
	if t.Street == Showdown || t.ActiveSeat == NoSeat || t.WaitingForBoard {
		return Sizing{}, false
	}
	s := &t.Seats[t.ActiveSeat]
	price := t.MaxBet()
	if s.Stack <= price-s.CurrentBet {
		return Sizing{}, false
	}

	sz := Sizing{Type: Bet, Seat: s.Index, Min: t.BigBlind, Max: s.Stack + s.CurrentBet}
	if price > 0 {
		sz.Type = Raise
		sz.Min = price + t.minRaise()
	}
	if sz.Min > sz.Max {
		sz.Min = sz.Max
	}
	return sz, true
}

// minRaise is the size of the last full raise on this street, never less
// than the big blind.
func (t *Table) minRaise() int {
	price := t.MaxBet()
	below := 0
	for i := range t.Seats {
		if b := t.Seats[i].CurrentBet; b < price && b > below {
			below = b
		}
	}
	return max(price-below, t.BigBlind)
}

// LegalActions flags what the active seat may do.
type LegalActions struct {
	Fold       bool `json:"fold"`
	Check      bool `json:"check"`
	Call       bool `json:"call"`
	Bet        bool `json:"bet"`
	Raise      bool `json:"raise"`
	AllIn      bool `json:"allIn"`
	CallAmount int  `json:"callAmount,omitempty"`
	MinSize    int  `json:"minSize,omitempty"`
	MaxSize    int  `json:"maxSize,omitempty"`
}

// Legal returns the legal actions for the active seat.
func (t *Table) Legal() LegalActions {
	var la LegalActions
	if t.Street == Showdown || t.ActiveSeat == NoSeat || t.WaitingForBoard {
		return la
	}
	s := &t.Seats[t.ActiveSeat]
	toCall := max(0, t.MaxBet()-s.CurrentBet)

	la.Fold = true
	la.AllIn = s.Stack > 0
	if toCall == 0 {
		la.Check = true
	} else {
		la.Call = true
		la.CallAmount = min(toCall, s.Stack)
	}
	if sz, ok := t.Sizing(); ok {
		la.Bet = sz.Type == Bet
		la.Raise = sz.Type == Raise
		la.MinSize = sz.Min
		la.MaxSize = sz.Max
	}
	return la
}
