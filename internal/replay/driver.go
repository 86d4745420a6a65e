package replay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// DefaultInterval is the pause between replayed actions.
const DefaultInterval = 800 * time.Millisecond

var errFinished = errors.New("replay finished")

// TickFunc performs one replay step. step is 1-based. Returning false ends
// the replay early.
type TickFunc func(gen uint64, step int) bool

// Driver runs at most one replay at a time, calling a TickFunc once per
// interval until every step is done or the replay is stopped.
type Driver struct {
	clock    quartz.Clock
	interval time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	step   int
	total  int
}

// NewDriver creates a driver. A zero interval uses DefaultInterval.
func NewDriver(clock quartz.Clock, interval time.Duration, logger *log.Logger) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Driver{
		clock:    clock,
		interval: interval,
		logger:   logger.WithPrefix("replay"),
	}
}

// Start begins a replay of total steps, cancelling any replay already
// running. It returns the generation of the new replay; ticks carry it so
// callers can ignore a tick that raced with a stop.
func (d *Driver) Start(total int, tick TickFunc) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	if total <= 0 {
		return d.gen
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.step = 0
	d.total = total
	gen := d.gen

	w := d.clock.TickerFunc(ctx, d.interval, func() error {
		return d.tick(gen, tick)
	}, "replay")

	go func() {
		err := w.Wait()
		switch {
		case errors.Is(err, errFinished):
			d.logger.Debug("Replay finished", "gen", gen, "steps", total)
		case errors.Is(err, context.Canceled):
			d.logger.Debug("Replay cancelled", "gen", gen)
		case err != nil:
			d.logger.Warn("Replay ended", "gen", gen, "error", err)
		}
	}()

	d.logger.Info("Replay started", "gen", gen, "steps", total, "interval", d.interval)
	return gen
}

func (d *Driver) tick(gen uint64, tick TickFunc) error {
	d.mu.Lock()
	if gen != d.gen || d.cancel == nil {
		d.mu.Unlock()
		return context.Canceled
	}
	d.step++
	step, total := d.step, d.total
	d.mu.Unlock()

	more := tick(gen, step)

	if step >= total || !more {
		d.mu.Lock()
		if gen == d.gen {
			d.stopLocked()
		}
		d.mu.Unlock()
		return errFinished
	}
	return nil
}

// Stop cancels the running replay, if any. Ticks already applied stay
// applied. It never blocks on a tick in progress.
func (d *Driver) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

func (d *Driver) stopLocked() bool {
	d.gen++
	if d.cancel == nil {
		return false
	}
	d.cancel()
	d.cancel = nil
	return true
}

// Status reports whether a replay is running and how far it got.
func (d *Driver) Status() (playing bool, step, total int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil, d.step, d.total
}

// Running reports whether a replay is in progress.
func (d *Driver) Running() bool {
	playing, _, _ := d.Status()
	return playing
}
