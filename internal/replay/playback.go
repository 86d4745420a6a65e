// Package replay steps through a recorded hand one action at a time.
//
// Playback is the pure part: it walks the action log and hands out the table
// as it stood after each action. Driver paces any stepping function on a
// fixed interval using a quartz clock so tests can advance time by hand.
package replay

import (
	"errors"

	"github.com/lox/handreplayer/internal/game"
)

// ErrEmptyLog is returned when there is nothing to replay.
var ErrEmptyLog = errors.New("replay: action log is empty")

// Frame is the state shown after one replayed action.
type Frame struct {
	Step   int // 1-based index of the action just applied
	Total  int
	Table  game.Table
	Record game.ActionRecord
	// Visible is the action list as it should be displayed after this step.
	Visible []game.ActionRecord
}

// Done reports whether this was the last action.
func (f Frame) Done() bool {
	return f.Step >= f.Total
}

// Playback walks a finished action log. The state after action i is the
// snapshot taken before action i+1, or the final table for the last action.
type Playback struct {
	records []game.ActionRecord
	final   game.Table
	step    int
}

// NewPlayback prepares a replay of records ending in final.
func NewPlayback(records []game.ActionRecord, final game.Table) (*Playback, error) {
	if len(records) == 0 {
		return nil, ErrEmptyLog
	}
	return &Playback{records: records, final: final.Clone()}, nil
}

// Start rewinds to the table before the first action.
func (p *Playback) Start() game.Table {
	p.step = 0
	return p.records[0].PrevState.Clone()
}

// Next applies the next action. ok is false once every action was shown.
func (p *Playback) Next() (Frame, bool) {
	if p.step >= len(p.records) {
		return Frame{}, false
	}
	i := p.step
	p.step++

	after := p.final
	if p.step < len(p.records) {
		after = p.records[p.step].PrevState
	}
	return Frame{
		Step:    p.step,
		Total:   len(p.records),
		Table:   after.Clone(),
		Record:  p.records[i],
		Visible: p.records[:p.step:p.step],
	}, true
}

// Step is the number of actions applied so far.
func (p *Playback) Step() int { return p.step }

// Total is the number of actions in the log.
func (p *Playback) Total() int { return len(p.records) }

// Final is the table the replay ends on.
func (p *Playback) Final() game.Table { return p.final.Clone() }
