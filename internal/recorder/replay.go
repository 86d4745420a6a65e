package recorder

import (
	"errors"

	"github.com/lox/handreplayer/internal/replay"
)

var errStaleTick = errors.New("stale replay tick")

// StartReplay rewinds the hand to its first action and steps forward one
// action per interval until the table is back where it started. A replay
// already running is restarted.
func (r *Recorder) StartReplay() error {
	return r.update(func() error {
		r.cancelReplayLocked()
		r.sizing = nil

		// Actions undone before the replay are not part of it.
		records := r.history.Records()
		if len(records) == 0 {
			return replay.ErrEmptyLog
		}

		r.history.Seek(0, r.table)
		r.table = records[0].PrevState.Clone()
		r.replay = replayState{playing: true, total: len(records)}
		r.replay.gen = r.driver.Start(len(records), r.replayTick)

		r.logger.Info("Replaying hand", "hand", r.handID, "actions", len(records))
		return nil
	})
}

// replayTick redoes one action. It runs on the driver's goroutine; a tick
// from a replay that has since been stopped is ignored.
func (r *Recorder) replayTick(gen uint64, _ int) bool {
	more := false
	_ = r.update(func() error {
		if !r.replay.playing || gen != r.replay.gen {
			return errStaleTick
		}
		next, ok := r.history.Redo(r.table)
		if !ok {
			r.replay.playing = false
			return nil
		}
		r.table = next
		r.replay.step++
		if r.replay.step >= r.replay.total || !r.history.CanRedo() {
			r.replay.playing = false
			r.logger.Debug("Replay complete", "hand", r.handID)
		}
		more = r.replay.playing
		return nil
	})
	return more
}

// StopReplay halts a running replay. Actions already replayed stay applied;
// the rest can be stepped through with Redo.
func (r *Recorder) StopReplay() bool {
	var stopped bool
	_ = r.update(func() error {
		stopped = r.cancelReplayLocked()
		return nil
	})
	return stopped
}

// ReplayStatus reports whether a replay is running and its progress.
func (r *Recorder) ReplayStatus() (playing bool, step, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replay.playing, r.replay.step, r.replay.total
}

func (r *Recorder) cancelReplayLocked() bool {
	if !r.replay.playing {
		return false
	}
	r.driver.Stop()
	r.replay.playing = false
	r.logger.Debug("Replay stopped", "step", r.replay.step, "total", r.replay.total)
	return true
}
