package phh

import (
	"strconv"
	"time"

	"github.com/lox/handreplayer/internal/game"
)

const variantNoLimitHoldem = "NT"

// Hand is a recorded hand to convert.
type Hand struct {
	HandID    string
	TableName string
	Time      time.Time
	Final     game.Table
	Actions   []game.ActionRecord
}

// Build converts a recorded hand into PHH. Winnings are only filled in when
// the hand was won uncontested; showdown winners are not decided here.
func Build(h Hand) *HandHistory {
	start := h.Final
	if len(h.Actions) > 0 {
		start = h.Actions[0].PrevState
	}
	final := h.Final
	n := len(start.Seats)
	dealer := start.Dealer()

	// PHH numbers players from the small blind; the button is last.
	order := make([]int, n)
	index := make([]int, n)
	for p := range order {
		seat := (dealer + 1 + p) % n
		order[p] = seat
		index[seat] = p
	}

	out := &HandHistory{
		Variant:           variantNoLimitHoldem,
		Table:             h.TableName,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            start.BigBlind,
		StartingStacks:    make([]int, n),
		Players:           make([]string, n),
		HandID:            h.HandID,
		Timestamp:         h.Time,
	}
	if !h.Time.IsZero() {
		out.Time = h.Time.Format("15:04:05")
		out.TimeZone = h.Time.Location().String()
		out.Day = h.Time.Day()
		out.Month = int(h.Time.Month())
		out.Year = h.Time.Year()
	}

	for p, seat := range order {
		s := start.Seats[seat]
		out.Seats[p] = seat + 1
		out.BlindsOrStraddles[p] = s.CurrentBet
		out.StartingStacks[p] = s.Stack + s.CurrentBet
		out.Players[p] = playerName(final.Seats[seat])
	}

	for p, seat := range order {
		out.Actions = append(out.Actions, "d dh p"+strconv.Itoa(p+1)+" "+cardsText(final.Seats[seat].HoleCards, 2))
	}

	street := game.Preflop
	deal := func(upTo game.Street) {
		for street < upTo && street < game.River {
			board, ok := boardText(final.Board, street+1)
			if !ok {
				return
			}
			street++
			out.Actions = append(out.Actions, "d db "+board)
		}
	}

	for _, rec := range h.Actions {
		deal(rec.Street)
		out.Actions = append(out.Actions, FormatAction(index[rec.Seat], rec))
	}

	if final.IsComplete() && final.InHand() > 1 {
		deal(game.River)
		for p, seat := range order {
			s := final.Seats[seat]
			if s.IsFolded {
				continue
			}
			out.Actions = append(out.Actions, "p"+strconv.Itoa(p+1)+" sm "+cardsText(s.HoleCards, 2))
		}
	}

	if final.IsComplete() && final.InHand() == 1 {
		pot := final.PotTotal()
		out.Winnings = make([]int, n)
		out.FinishingStacks = make([]int, n)
		for p, seat := range order {
			s := final.Seats[seat]
			out.FinishingStacks[p] = s.Stack
			if !s.IsFolded {
				out.Winnings[p] = pot
				out.FinishingStacks[p] += pot
			}
		}
	}

	return out
}

func playerName(s game.Seat) string {
	switch {
	case s.PlayerName != "":
		return s.PlayerName
	case s.IsHero:
		return "Hero"
	}
	return string(s.Position)
}
