package game

import "encoding/json"

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

func (s Street) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ActionType represents a player action
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a ActionType) String() string {
	if a < Fold || a > AllIn {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "bet", "raise", "all-in"}[a]
}

func (a ActionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// ParseActionType maps a wire name onto an ActionType.
func ParseActionType(s string) (ActionType, bool) {
	switch s {
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "call":
		return Call, true
	case "bet":
		return Bet, true
	case "raise":
		return Raise, true
	case "all-in", "allin":
		return AllIn, true
	}
	return Fold, false
}

// TurnKind is the outcome of advancing the action.
type TurnKind int

const (
	NextActor TurnKind = iota
	StreetClose
	HandOver
)

func (k TurnKind) String() string {
	return [...]string{"next", "street-close", "hand-over"}[k]
}

// Advancement is the result of Advance. Next is only meaningful for NextActor.
type Advancement struct {
	Kind TurnKind
	Next int
}

// Advance decides who acts after the seat at active, or whether the betting
// round (or the whole hand) is over. aggressor is the seat whose bet the
// others must match; NoSeat means nobody has been installed yet.
func Advance(seats []Seat, active, aggressor int) Advancement {
	n := len(seats)
	inHand, actors := 0, 0
	for i := range seats {
		if !seats[i].IsFolded {
			inHand++
			if !seats[i].IsAllIn {
				actors++
			}
		}
	}

	if inHand <= 1 {
		return Advancement{Kind: HandOver, Next: NoSeat}
	}
	if actors == 0 {
		return Advancement{Kind: StreetClose, Next: NoSeat}
	}

	matched := betsMatched(seats)

	// A lone actor who has matched the price has nobody left to bet against.
	if actors == 1 && matched {
		return Advancement{Kind: StreetClose, Next: NoSeat}
	}

	// Walk clockwise looking for the next actor, noting whether the walk
	// reaches the aggressor's seat before (or on) that actor.
	next, passed := NoSeat, false
	for i := 1; i <= n; i++ {
		idx := (active + i) % n
		if idx == aggressor {
			passed = true
		}
		if seats[idx].CanAct() {
			next = idx
			break
		}
	}

	if passed && matched {
		return Advancement{Kind: StreetClose, Next: NoSeat}
	}
	return Advancement{Kind: NextActor, Next: next}
}

// betsMatched reports whether every seat that can still act has put in the
// street's maximum bet.
func betsMatched(seats []Seat) bool {
	max := maxBet(seats)
	for i := range seats {
		if seats[i].CanAct() && seats[i].CurrentBet != max {
			return false
		}
	}
	return true
}

func maxBet(seats []Seat) int {
	max := 0
	for i := range seats {
		if seats[i].CurrentBet > max {
			max = seats[i].CurrentBet
		}
	}
	return max
}

// firstActorAfter returns the first seat clockwise of from that can act.
func firstActorAfter(seats []Seat, from int) int {
	n := len(seats)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if seats[idx].CanAct() {
			return idx
		}
	}
	return NoSeat
}
