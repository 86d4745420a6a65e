// Package handhistory renders a recorded hand as PokerStars-style hand
// history text and writes it to disk.
package handhistory

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/handreplayer/internal/game"
)

// DefaultTableName is used when the input names no table.
const DefaultTableName = "Turn Pro"

// Input is everything the formatter reads. The table before the first action
// is taken from the first record's snapshot, or from Final when the log is
// empty.
type Input struct {
	HandID    string
	Time      time.Time
	TableName string
	Currency  string
	Rake      int

	Final   game.Table
	Actions []game.ActionRecord
}

// Format renders the hand. It is deterministic: identical inputs give
// byte-identical output.
func Format(in Input) string {
	f := newFormatter(in)
	f.header()
	f.actions()
	f.showdown()
	f.summary()
	return f.b.String()
}

type formatter struct {
	in    Input
	start game.Table
	final game.Table
	b     strings.Builder

	printed     game.Street
	contributed []int
	foldedOn    map[int]game.Street
	sidePots    int
}

func newFormatter(in Input) *formatter {
	start := in.Final
	if len(in.Actions) > 0 {
		start = in.Actions[0].PrevState
	}
	if in.TableName == "" {
		in.TableName = DefaultTableName
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	f := &formatter{
		in:          in,
		start:       start,
		final:       in.Final,
		printed:     game.Preflop,
		contributed: make([]int, len(start.Seats)),
		foldedOn:    make(map[int]game.Street),
	}
	for i, s := range start.Seats {
		f.contributed[i] = s.CurrentBet
	}
	return f
}

func (f *formatter) line(format string, args ...any) {
	fmt.Fprintf(&f.b, format, args...)
	f.b.WriteByte('\n')
}

// name is the display name of a seat: its player name, "Hero", or its
// position with the button shown as BU.
func (f *formatter) name(seat int) string {
	s := f.start.Seats[seat]
	switch {
	case s.PlayerName != "":
		return s.PlayerName
	case f.final.Seats[seat].IsHero:
		return "Hero"
	case s.Position == game.Button:
		return "BU"
	}
	return string(s.Position)
}

func (f *formatter) header() {
	t := f.start
	f.line("PokerStars Hand #%s: Hold'em No Limit (%s/%s %s) - %s",
		f.in.HandID, amount(t.SmallBlind), amount(t.BigBlind), f.in.Currency,
		f.in.Time.Format("2006/01/02 15:04:05")+" ET")
	f.line("Table '%s' %d-max Seat #%d is the button", f.in.TableName, t.Size, t.Dealer()+1)

	for i, s := range t.Seats {
		f.line("Seat %d: %s (%s in chips)", i+1, f.name(i), amount(s.Stack+s.CurrentBet))
	}

	if sb, ok := t.SeatAt(game.SmallBlind); ok && sb.CurrentBet > 0 {
		f.line("%s: posts small blind %s", f.name(sb.Index), amount(sb.CurrentBet))
	}
	if bb, ok := t.SeatAt(game.BigBlind); ok && bb.CurrentBet > 0 {
		f.line("%s: posts big blind %s", f.name(bb.Index), amount(bb.CurrentBet))
	}

	f.line("*** HOLE CARDS ***")
	if hero := f.final.Hero(); hero != game.NoSeat {
		if cards := f.final.Seats[hero].HoleCards; anyKnown(cards) {
			f.line("Dealt to %s %s", f.name(hero), cardList(cards))
		}
	}
}

func (f *formatter) actions() {
	for _, rec := range f.in.Actions {
		f.streetsUpTo(rec.Street)
		f.action(rec)
	}

	f.uncalled()

	// An all-in hand runs the board out without further action lines.
	if f.final.IsComplete() && f.final.InHand() > 1 {
		f.streetsUpTo(game.River)
	}
}

func (f *formatter) action(rec game.ActionRecord) {
	prev := rec.PrevState
	price := prev.MaxBet()
	before := prev.Seats[rec.Seat].CurrentBet
	added := rec.Amount - before
	who := f.name(rec.Seat)

	if rec.Type != game.Fold && rec.Type != game.Check {
		f.contributed[rec.Seat] += added
	}

	switch rec.Type {
	case game.Fold:
		f.foldedOn[rec.Seat] = rec.Street
		f.line("%s: folds", who)
	case game.Check:
		f.line("%s: checks", who)
	case game.Call:
		f.line("%s: calls %s", who, amount(added))
	case game.Bet:
		f.line("%s: bets %s", who, amount(rec.Amount))
	case game.Raise:
		f.line("%s: raises %s to %s", who, amount(rec.Amount-price), amount(rec.Amount))
	case game.AllIn:
		switch {
		case rec.Amount <= price:
			f.line("%s: calls %s and is all-in", who, amount(added))
		case price == 0:
			f.line("%s: bets %s and is all-in", who, amount(rec.Amount))
		default:
			f.line("%s: raises %s to %s and is all-in", who, amount(rec.Amount-price), amount(rec.Amount))
		}
	}
}

// streetsUpTo prints the board headers for every street after the last one
// printed, up to and including s, as far as the board is known.
func (f *formatter) streetsUpTo(s game.Street) {
	for f.printed < s && f.printed < game.River {
		next := f.printed + 1
		board := f.final.Board
		switch next {
		case game.Flop:
			if !filled(board[:3]) {
				return
			}
			f.line("*** FLOP *** %s", cardList(board[:3]))
		case game.Turn:
			if !filled(board[:4]) {
				return
			}
			f.line("*** TURN *** %s [%s]", cardList(board[:3]), cardText(board[3]))
		case game.River:
			if !filled(board[:5]) {
				return
			}
			f.line("*** RIVER *** %s [%s]", cardList(board[:4]), cardText(board[4]))
		}
		f.printed = next
	}
}

// uncalled reports chips that went back to a seat when the pots were
// collected. Stacks only change through wagers and these refunds, so the
// difference between the final stack and start minus wagers is what the seat
// got back. Only the part of its wagers nobody else matched is an uncalled
// bet; the rest is a side pot left with a single contender.
func (f *formatter) uncalled() {
	for i, s := range f.final.Seats {
		st := f.start.Seats[i]
		back := s.Stack - (st.Stack + st.CurrentBet - f.contributed[i])
		if back <= 0 {
			continue
		}
		refund := min(back, max(f.contributed[i]-f.matched(i), 0))
		if refund > 0 {
			f.line("Uncalled bet (%s) returned to %s", amount(refund), f.name(i))
		}
		if won := back - refund; won > 0 {
			f.sidePots += won
			f.line("%s collected %s from side pot", f.name(i), amount(won))
		}
	}
}

// matched is the largest amount any other seat put in over the hand.
func (f *formatter) matched(seat int) int {
	most := 0
	for i, c := range f.contributed {
		if i != seat {
			most = max(most, c)
		}
	}
	return most
}

func (f *formatter) showdown() {
	if !f.final.IsComplete() || f.final.InHand() < 2 {
		return
	}
	f.line("*** SHOW DOWN ***")
	for i, s := range f.final.Seats {
		if !s.IsFolded && anyKnown(s.HoleCards) {
			f.line("%s: shows %s", f.name(i), cardList(s.HoleCards))
		}
	}
}

func (f *formatter) summary() {
	pot := f.final.PotTotal()
	f.line("*** SUMMARY ***")
	if f.sidePots > 0 {
		f.line("Total pot %s Main pot %s. Side pot %s. | Rake %s",
			amount(pot+f.sidePots), amount(pot), amount(f.sidePots), amount(f.in.Rake))
	} else {
		f.line("Total pot %s | Rake %s", amount(pot), amount(f.in.Rake))
	}

	var board []game.Card
	for _, c := range f.final.Board {
		if !c.IsEmpty() {
			board = append(board, c)
		}
	}
	if len(board) > 0 {
		f.line("Board %s", cardList(board))
	}

	uncontested := f.final.InHand() == 1
	for i, s := range f.final.Seats {
		label := f.name(i)
		switch f.start.Seats[i].Position {
		case game.Button:
			label += " (button)"
		case game.SmallBlind:
			label += " (small blind)"
		case game.BigBlind:
			label += " (big blind)"
		}

		switch {
		case s.IsFolded:
			street, ok := f.foldedOn[i]
			if !ok || street == game.Preflop {
				note := ""
				if f.contributed[i] == 0 {
					note = " (didn't bet)"
				}
				f.line("Seat %d: %s folded before Flop%s", i+1, label, note)
				continue
			}
			f.line("Seat %d: %s folded on the %s", i+1, label, streetTitle(street))
		case uncontested:
			f.line("Seat %d: %s collected (%s)", i+1, label, amount(pot-f.in.Rake))
		case anyKnown(s.HoleCards):
			f.line("Seat %d: %s showed %s", i+1, label, cardList(s.HoleCards))
		default:
			f.line("Seat %d: %s mucked", i+1, label)
		}
	}
	f.line("")
}

func amount(n int) string {
	return fmt.Sprintf("$%d", n)
}

func cardText(c game.Card) string {
	if !c.IsKnown() {
		return string(game.UnknownCard)
	}
	return string(c)
}

func cardList(cards []game.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.IsEmpty() {
			continue
		}
		parts = append(parts, cardText(c))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func anyKnown(cards []game.Card) bool {
	for _, c := range cards {
		if c.IsKnown() {
			return true
		}
	}
	return false
}

func filled(cards []game.Card) bool {
	for _, c := range cards {
		if c.IsEmpty() {
			return false
		}
	}
	return true
}

func streetTitle(s game.Street) string {
	switch s {
	case game.Flop:
		return "Flop"
	case game.Turn:
		return "Turn"
	case game.River:
		return "River"
	}
	return s.String()
}
