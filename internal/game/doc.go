// Package game implements the hand-action engine for a single No Limit
// Hold'em hand: seat and table state, turn order, pot and side pot
// collection, and the snapshot-based action log behind undo and redo.
//
// The main type is Table, a value type. Every transition goes through
// ApplyAction, which takes a table and returns a new one together with an
// ActionRecord holding a deep copy of the table before the action.
//
// # Basic Usage
//
//	t := game.NewTable(6, 1, 2, game.WithDealer(0))
//	var h game.History
//	next, rec, err := game.ApplyAction(t, game.Intent{Type: game.Call})
//	if err == nil {
//	    h.Append(rec)
//	    t = next
//	}
//	// Undo restores the table verbatim
//	t, _ = h.Undo(t)
//
// # Architecture
//
// Table delegates responsibilities to small, pure helpers:
//   - Advance: picks the next actor and detects the end of a betting round
//   - SplitLayers / collectBets: pot layers, side pots and uncalled refunds
//   - History: the action log, the redo stack and stopped-replay seeking
//
// Nothing in this package performs I/O, logs or starts goroutines. Chips are
// conserved across every transition: stacks, street bets, the collected pot
// and side pots always add up to the chips the hand started with.
package game
