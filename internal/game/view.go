package game

// SeatView is the rendering view of a seat.
type SeatView struct {
	Index      int      `json:"index"`
	Position   Position `json:"position"`
	Name       string   `json:"name,omitempty"`
	Stack      int      `json:"stack"`
	HoleCards  []string `json:"holeCards,omitempty"`
	CurrentBet int      `json:"currentBet"`
	IsHero     bool     `json:"isHero,omitempty"`
	IsDealer   bool     `json:"isDealer,omitempty"`
	IsFolded   bool     `json:"isFolded,omitempty"`
	IsAllIn    bool     `json:"isAllIn,omitempty"`
	IsActive   bool     `json:"isActive,omitempty"`
}

// View is the table view-model handed to the presentation layer.
type View struct {
	Size            int          `json:"size"`
	SmallBlind      int          `json:"smallBlind"`
	BigBlind        int          `json:"bigBlind"`
	Street          Street       `json:"street"`
	Seats           []SeatView   `json:"seats"`
	Board           []string     `json:"board"`
	Pot             int          `json:"pot"`
	Pots            []Pot        `json:"pots,omitempty"`
	ActiveSeat      int          `json:"activeSeat"`
	WaitingForBoard bool         `json:"waitingForBoard"`
	BoardNeeded     int          `json:"boardNeeded,omitempty"`
	Legal           LegalActions `json:"legal"`
	Sizing          *Sizing      `json:"sizing,omitempty"`

	HandID      string         `json:"handId,omitempty"`
	Actions     []ActionRecord `json:"actions"`
	CanUndo     bool           `json:"canUndo"`
	CanRedo     bool           `json:"canRedo"`
	Replaying   bool           `json:"replaying,omitempty"`
	ReplayStep  int            `json:"replayStep,omitempty"`
	ReplayTotal int            `json:"replayTotal,omitempty"`
}

// View builds the view-model for the table. Log-related fields are left for
// the owner of the history to fill in.
func (t *Table) View() View {
	v := View{
		Size:            t.Size,
		SmallBlind:      t.SmallBlind,
		BigBlind:        t.BigBlind,
		Street:          t.Street,
		Seats:           make([]SeatView, len(t.Seats)),
		Board:           make([]string, len(t.Board)),
		Pot:             t.PotTotal(),
		Pots:            t.Pots(),
		ActiveSeat:      t.ActiveSeat,
		WaitingForBoard: t.WaitingForBoard,
		Legal:           t.Legal(),
	}
	if t.WaitingForBoard {
		v.BoardNeeded = t.BoardNeeded()
	}
	for i, c := range t.Board {
		v.Board[i] = c.String()
	}
	for i, s := range t.Seats {
		sv := SeatView{
			Index:      s.Index,
			Position:   s.Position,
			Name:       s.PlayerName,
			Stack:      s.Stack,
			CurrentBet: s.CurrentBet,
			IsHero:     s.IsHero,
			IsDealer:   s.IsDealer,
			IsFolded:   s.IsFolded,
			IsAllIn:    s.IsAllIn,
			IsActive:   i == t.ActiveSeat,
		}
		for _, c := range s.HoleCards {
			sv.HoleCards = append(sv.HoleCards, c.String())
		}
		v.Seats[i] = sv
	}
	return v
}
