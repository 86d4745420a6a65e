package game

import (
	"reflect"
	"testing"

	"github.com/lox/handreplayer/internal/randutil"
)

func TestUndoRestoresPreviousState(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		setup []Intent
		last  Intent
	}{
		{name: "fold", last: fold()},
		{name: "call", last: call()},
		{name: "raise", last: raiseTo(6)},
		{name: "all-in", last: allIn()},
		{name: "check", setup: []Intent{call(), call()}, last: check()},
		{name: "bet", setup: []Intent{call(), call()}, last: betTo(4)},
		{name: "street closing call", setup: []Intent{call()}, last: call()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var h History
			tb := NewTable(3, 1, 2)
			tb = applyAll(t, tb, &h, tc.setup...)
			if tb.WaitingForBoard {
				dealStreet(t, &tb)
			}
			before := tb.Clone()

			after := applyAll(t, tb, &h, tc.last)
			restored, ok := h.Undo(after)
			if !ok {
				t.Fatal("undo reported nothing to undo")
			}
			if !reflect.DeepEqual(restored, before) {
				t.Errorf("undo did not restore the table:\n got  %+v\n want %+v", restored, before)
			}
			if h.Len() != len(tc.setup) {
				t.Errorf("log length = %d, want %d", h.Len(), len(tc.setup))
			}

			redone, ok := h.Redo(restored)
			if !ok {
				t.Fatal("redo reported nothing to redo")
			}
			if !reflect.DeepEqual(redone, after) {
				t.Errorf("redo did not reproduce the table:\n got  %+v\n want %+v", redone, after)
			}
			if h.CanRedo() {
				t.Error("redo stack should be empty")
			}
		})
	}
}

func TestUndoRedoBeyondHistory(t *testing.T) {
	t.Parallel()

	var h History
	tb := NewTable(3, 1, 2)

	got, ok := h.Undo(tb)
	if ok || !reflect.DeepEqual(got, tb) {
		t.Error("undo on an empty log must be a no-op")
	}
	got, ok = h.Redo(tb)
	if ok || !reflect.DeepEqual(got, tb) {
		t.Error("redo with nothing undone must be a no-op")
	}
}

func TestAppendClearsRedo(t *testing.T) {
	t.Parallel()

	var h History
	tb := applyAll(t, NewTable(3, 1, 2), &h, call())
	tb, _ = h.Undo(tb)
	if !h.CanRedo() {
		t.Fatal("expected a redo entry")
	}

	applyAll(t, tb, &h, fold())
	if h.CanRedo() {
		t.Error("a new action must discard the redo stack")
	}
}

func TestUndoAcrossStreets(t *testing.T) {
	t.Parallel()

	var h History
	start := NewTable(4, 1, 2)
	tb := applyAll(t, start, &h, call(), call(), call())
	dealStreet(t, &tb)
	tb = applyAll(t, tb, &h, betTo(10), fold(), call(), raiseTo(40))

	for h.CanUndo() {
		tb, _ = h.Undo(tb)
	}
	if !reflect.DeepEqual(tb, start) {
		t.Errorf("undoing everything should return to the dealt hand")
	}

	// The flop cards come back with the snapshots taken after they were dealt.
	for h.CanRedo() {
		tb, _ = h.Redo(tb)
	}
	if tb.Street != Flop || tb.Board[0] != fullBoard[0] {
		t.Errorf("redo should bring back the flop, street=%s board=%v", tb.Street, tb.Board)
	}
	assertConserved(t, tb, 800)
}

func TestSeek(t *testing.T) {
	t.Parallel()

	var h History
	start := NewTable(3, 1, 2)
	final := applyAll(t, start, &h, raiseTo(6), call(), fold())
	records := h.Records()

	h.Seek(1, final)
	if h.Len() != 1 {
		t.Fatalf("log length = %d, want 1", h.Len())
	}

	// The live table after one action is the second record's snapshot.
	tb := records[1].PrevState.Clone()
	tb, _ = h.Redo(tb)
	if !reflect.DeepEqual(tb, records[2].PrevState) {
		t.Error("first redo should restore the state before the third action")
	}
	tb, _ = h.Redo(tb)
	if !reflect.DeepEqual(tb, final) {
		t.Error("second redo should restore the final table")
	}
	if h.Len() != 3 || h.CanRedo() {
		t.Errorf("log length = %d, can redo = %v", h.Len(), h.CanRedo())
	}

	h.Seek(10, final)
	if h.Len() != 3 {
		t.Error("seeking past the end must not change the log")
	}
}

func TestRewriteReachesSnapshots(t *testing.T) {
	t.Parallel()

	var h History
	tb := applyAll(t, NewTable(3, 1, 2), &h, call(), raiseTo(8))
	tb, _ = h.Undo(tb)

	setHero := func(t *Table) { t.SetHero(2) }
	h.Rewrite(setHero)
	setHero(&tb)

	for _, rec := range h.Records() {
		if rec.PrevState.Hero() != 2 {
			t.Error("logged snapshot missed the hero change")
		}
	}
	tb, _ = h.Redo(tb)
	if tb.Hero() != 2 {
		t.Error("redo lost the hero change")
	}
	tb, _ = h.Undo(tb)
	tb, _ = h.Undo(tb)
	if tb.Hero() != 2 {
		t.Error("undo lost the hero change")
	}
}

// TestRandomHandsConserveChips plays seeded random legal actions and checks
// chip conservation and undo identity after every step.
func TestRandomHandsConserveChips(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 50; seed++ {
		rng := randutil.New(seed)
		size := MinTableSize + rng.IntN(MaxTableSize-MinTableSize+1)
		stacks := make([]int, size)
		total := 0
		for i := range stacks {
			stacks[i] = 20 + rng.IntN(300)
			total += stacks[i]
		}

		var h History
		tb := NewTable(size, 1, 2, WithStacks(stacks), WithDealer(rng.IntN(size)))
		assertConserved(t, tb, total)

		for steps := 0; steps < 1000 && !tb.IsComplete(); steps++ {
			if tb.WaitingForBoard {
				dealStreet(t, &tb)
				continue
			}

			in := randomIntent(tb, rng.IntN)
			before := tb.Clone()
			next, rec, err := ApplyAction(tb, in)
			if err != nil {
				t.Fatalf("seed %d step %d: %v", seed, steps, err)
			}
			h.Append(rec)
			assertConserved(t, next, total)

			if !reflect.DeepEqual(rec.PrevState, before) {
				t.Fatalf("seed %d step %d: snapshot differs from the table acted on", seed, steps)
			}
			undone, _ := h.Undo(next)
			if !reflect.DeepEqual(undone, before) {
				t.Fatalf("seed %d step %d: undo is not an identity", seed, steps)
			}
			tb, _ = h.Redo(undone)
		}
		if !tb.IsComplete() {
			t.Fatalf("seed %d: hand did not finish", seed)
		}
	}
}

func randomIntent(tb Table, intn func(int) int) Intent {
	la := tb.Legal()
	var options []Intent
	if la.Fold {
		options = append(options, fold())
	}
	if la.Check {
		options = append(options, check(), check())
	}
	if la.Call {
		options = append(options, call(), call())
	}
	if la.Bet || la.Raise {
		size := la.MinSize
		if la.MaxSize > la.MinSize {
			size += intn(la.MaxSize - la.MinSize + 1)
		}
		options = append(options, Intent{Type: Raise, Amount: size})
	}
	if la.AllIn && intn(10) == 0 {
		options = append(options, allIn())
	}
	return options[intn(len(options))]
}
