package game

import "slices"

// History is the action log of one hand plus its redo stack. Every record
// carries the table as it was before the action; every redo entry carries the
// table as it was right before the undo, so both directions are plain restores.
type History struct {
	records []ActionRecord
	redo    []redoEntry
}

type redoEntry struct {
	record ActionRecord
	after  Table
}

// Append logs a newly applied action and discards any redo history.
func (h *History) Append(rec ActionRecord) {
	h.records = append(h.records, rec)
	h.redo = nil
}

// Undo pops the last action and returns the table to restore. current is the
// live table, kept so a later Redo can put it back verbatim.
func (h *History) Undo(current Table) (Table, bool) {
	n := len(h.records)
	if n == 0 {
		return current, false
	}
	rec := h.records[n-1]
	h.records = h.records[:n-1]
	h.redo = append(h.redo, redoEntry{record: rec, after: current.Clone()})
	return rec.PrevState.Clone(), true
}

// Redo re-appends the most recently undone action and returns the table as
// it was when that action was undone.
func (h *History) Redo(current Table) (Table, bool) {
	n := len(h.redo)
	if n == 0 {
		return current, false
	}
	e := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.records = append(h.records, e.record)
	return e.after.Clone(), true
}

// Seek truncates the log to its first k records, moving the rest onto the
// redo stack. final is the table that followed the last record. It is used
// when a replay is stopped part way so the log matches the table again.
func (h *History) Seek(k int, final Table) {
	if k < 0 {
		k = 0
	}
	if k >= len(h.records) {
		return
	}
	for i := len(h.records) - 1; i >= k; i-- {
		after := final
		if i+1 < len(h.records) {
			after = h.records[i+1].PrevState
		}
		h.redo = append(h.redo, redoEntry{record: h.records[i], after: after.Clone()})
	}
	h.records = h.records[:k]
}

// Rewrite applies fn to every stored snapshot. It is for metadata that is
// independent of betting (hero seat, known hole cards) and must survive
// undo and redo.
func (h *History) Rewrite(fn func(*Table)) {
	for i := range h.records {
		fn(&h.records[i].PrevState)
	}
	for i := range h.redo {
		fn(&h.redo[i].record.PrevState)
		fn(&h.redo[i].after)
	}
}

// Records returns the logged actions, oldest first.
func (h *History) Records() []ActionRecord {
	return slices.Clone(h.records)
}

// Len is the number of logged actions.
func (h *History) Len() int { return len(h.records) }

// CanUndo reports whether there is an action to undo.
func (h *History) CanUndo() bool { return len(h.records) > 0 }

// CanRedo reports whether there is an undone action to redo.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Reset clears the log and redo stack.
func (h *History) Reset() {
	h.records = nil
	h.redo = nil
}
