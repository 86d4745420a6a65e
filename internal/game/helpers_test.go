package game

import "testing"

// fullBoard is a fixed run-out used by tests that need board cards.
var fullBoard = [5]Card{"Qs", "Jh", "2c", "7d", "9s"}

// applyAll applies intents in order, failing the test on the first error.
func applyAll(t *testing.T, tb Table, h *History, intents ...Intent) Table {
	t.Helper()
	for i, in := range intents {
		next, rec, err := ApplyAction(tb, in)
		if err != nil {
			t.Fatalf("intent %d (%v): %v", i, in.Type, err)
		}
		if h != nil {
			h.Append(rec)
		}
		tb = next
	}
	return tb
}

// dealStreet fills the board slots for the current street from fullBoard.
func dealStreet(t *testing.T, tb *Table) {
	t.Helper()
	from, to := boardSlots(tb.Street)
	for i := from; i < to; i++ {
		if err := tb.SetBoardCard(i, fullBoard[i]); err != nil {
			t.Fatalf("deal slot %d: %v", i, err)
		}
	}
}

// runToShowdown deals every street the table waits for until the hand ends.
func runToShowdown(t *testing.T, tb *Table) {
	t.Helper()
	for i := 0; i < 4 && tb.WaitingForBoard; i++ {
		dealStreet(t, tb)
	}
}

func assertConserved(t *testing.T, tb Table, want int) {
	t.Helper()
	if got := tb.TotalChips(); got != want {
		t.Fatalf("chips not conserved: got %d, want %d", got, want)
	}
	for _, s := range tb.Seats {
		if s.Stack < 0 {
			t.Fatalf("seat %d has negative stack %d", s.Index, s.Stack)
		}
	}
}

func call() Intent         { return Intent{Type: Call} }
func check() Intent        { return Intent{Type: Check} }
func fold() Intent         { return Intent{Type: Fold} }
func allIn() Intent        { return Intent{Type: AllIn} }
func raiseTo(n int) Intent { return Intent{Type: Raise, Amount: n} }
func betTo(n int) Intent   { return Intent{Type: Bet, Amount: n} }
