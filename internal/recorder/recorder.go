// Package recorder owns the hand being recorded. It is the single writer of
// the table: seat and board card events, action intents and configuration
// changes go in, and a view-model comes out to every subscriber after each
// change. It also runs replays of the action log and exports the hand.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/spf13/cast"

	"github.com/lox/handreplayer/internal/game"
	"github.com/lox/handreplayer/internal/gameid"
	"github.com/lox/handreplayer/internal/handhistory"
	"github.com/lox/handreplayer/internal/phh"
	"github.com/lox/handreplayer/internal/replay"
)

var (
	ErrNoSizing         = errors.New("no sizing step open")
	ErrReplayRunning    = errors.New("replay in progress")
	ErrInvalidTableSize = errors.New("invalid table size")
	ErrInvalidStakes    = errors.New("invalid stakes")
	ErrNoWriter         = errors.New("no hand history directory configured")
)

// Config is the table setup the recorder starts from.
type Config struct {
	Size       int
	SmallBlind int
	BigBlind   int
	Stack      int
	TableName  string
	Currency   string
	Rake       int
	Interval   time.Duration
}

// DefaultConfig is a 6-max $1/$2 table with 100 big blind stacks.
func DefaultConfig() Config {
	return Config{
		Size:       6,
		SmallBlind: 1,
		BigBlind:   2,
		Stack:      game.DefaultStack,
		TableName:  handhistory.DefaultTableName,
		Currency:   "USD",
		Interval:   replay.DefaultInterval,
	}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock sets the clock used for hand timestamps and replay pacing.
func WithClock(clock quartz.Clock) Option {
	return func(r *Recorder) { r.clock = clock }
}

// WithIDGenerator sets the generator for hand and action IDs.
func WithIDGenerator(g *gameid.Generator) Option {
	return func(r *Recorder) { r.ids = g }
}

// WithWriter enables SaveHistory.
func WithWriter(w *handhistory.Writer) Option {
	return func(r *Recorder) { r.writer = w }
}

// Listener receives the view after every change.
type Listener func(game.View)

// Recorder records one hand at a time. All methods are safe for concurrent
// use; listeners are called outside the lock, in no particular order.
type Recorder struct {
	logger *log.Logger
	clock  quartz.Clock
	ids    *gameid.Generator
	writer *handhistory.Writer
	driver *replay.Driver

	mu      sync.Mutex
	cfg     Config
	stacks  []int
	names   []string
	dealer  int
	hero    int
	handID  string
	started time.Time
	table   game.Table
	history game.History
	sizing  *game.Sizing
	replay  replayState

	listeners    map[int]Listener
	nextListener int
}

type replayState struct {
	playing bool
	gen     uint64
	step    int
	total   int
}

// New creates a recorder with a fresh hand dealt from cfg.
func New(cfg Config, logger *log.Logger, opts ...Option) (*Recorder, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Stack <= 0 {
		cfg.Stack = game.DefaultStack
	}

	r := &Recorder{
		logger:    logger.WithPrefix("recorder"),
		cfg:       cfg,
		hero:      game.NoSeat,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = quartz.NewReal()
	}
	if r.ids == nil {
		r.ids = gameid.NewGenerator(r.clock, nil)
	}
	r.driver = replay.NewDriver(r.clock, cfg.Interval, logger)
	r.stacks = uniform(cfg.Size, cfg.Stack)
	r.names = make([]string, cfg.Size)

	r.dealLocked()
	return r, nil
}

func validate(cfg Config) error {
	if cfg.Size < game.MinTableSize || cfg.Size > game.MaxTableSize {
		return fmt.Errorf("%w: %d", ErrInvalidTableSize, cfg.Size)
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return fmt.Errorf("%w: $%d/$%d", ErrInvalidStakes, cfg.SmallBlind, cfg.BigBlind)
	}
	return nil
}

func uniform(n, stack int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = stack
	}
	return out
}

// ParseAmount coerces numeric input from the outside (JSON numbers, form
// strings, script tokens) to a chip count. Anything that is not a number
// becomes 0, as do negative amounts.
func ParseAmount(v any) int {
	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Subscribe registers a listener and returns a function that removes it.
func (r *Recorder) Subscribe(fn Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextListener
	r.nextListener++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// update runs fn under the lock and, if it succeeds, publishes the new view.
func (r *Recorder) update(fn func() error) error {
	r.mu.Lock()
	if err := fn(); err != nil {
		r.mu.Unlock()
		return err
	}
	v := r.viewLocked()
	listeners := slices.Collect(maps.Values(r.listeners))
	r.mu.Unlock()

	for _, l := range listeners {
		l(v)
	}
	return nil
}

// View returns the current view-model.
func (r *Recorder) View() game.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *Recorder) viewLocked() game.View {
	v := r.table.View()
	v.HandID = r.handID
	v.Actions = r.history.Records()
	v.CanUndo = r.history.CanUndo()
	v.CanRedo = r.history.CanRedo()
	v.Replaying = r.replay.playing
	if r.replay.playing {
		v.ReplayStep = r.replay.step
		v.ReplayTotal = r.replay.total
	}
	if r.sizing != nil {
		sz := *r.sizing
		v.Sizing = &sz
	}
	return v
}

// Table returns a copy of the live table.
func (r *Recorder) Table() game.Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.Clone()
}

// Records returns the action log, oldest first.
func (r *Recorder) Records() []game.ActionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Records()
}

// HandID is the identifier of the hand being recorded.
func (r *Recorder) HandID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handID
}

// dealLocked starts a new hand from the current configuration.
func (r *Recorder) dealLocked() {
	r.cancelReplayLocked()
	r.sizing = nil

	opts := []game.TableOption{
		game.WithDealer(r.dealer),
		game.WithPlayerNames(r.names...),
	}
	if stack, ok := sameStack(r.stacks); ok {
		opts = append(opts, game.WithUniformStack(stack))
	} else {
		opts = append(opts, game.WithStacks(slices.Clone(r.stacks)))
	}
	if r.hero != game.NoSeat {
		opts = append(opts, game.WithHero(r.hero))
	}
	r.table = game.NewTable(r.cfg.Size, r.cfg.SmallBlind, r.cfg.BigBlind, opts...)
	r.history.Reset()
	r.handID = r.ids.Generate()
	r.started = r.clock.Now()

	r.logger.Debug("New hand",
		"hand", r.handID,
		"size", r.cfg.Size,
		"dealer", r.dealer,
		"stakes", fmt.Sprintf("%d/%d", r.cfg.SmallBlind, r.cfg.BigBlind))
}

// sameStack reports the stack every seat shares, if they all share one.
func sameStack(stacks []int) (int, bool) {
	if len(stacks) == 0 {
		return 0, false
	}
	for _, s := range stacks[1:] {
		if s != stacks[0] {
			return 0, false
		}
	}
	return stacks[0], true
}

// NewHand moves the button one seat clockwise and deals a fresh hand.
func (r *Recorder) NewHand() {
	_ = r.update(func() error {
		r.dealer = (r.dealer + 1) % r.cfg.Size
		r.dealLocked()
		return nil
	})
}

// Reset deals a fresh hand without moving the button.
func (r *Recorder) Reset() {
	_ = r.update(func() error {
		r.dealLocked()
		return nil
	})
}

// SetDealer puts the button on a seat and deals a fresh hand.
func (r *Recorder) SetDealer(seat int) error {
	return r.update(func() error {
		if seat < 0 || seat >= r.cfg.Size {
			return fmt.Errorf("seat %d: %w", seat, game.ErrInvalidSeat)
		}
		r.dealer = seat
		r.dealLocked()
		return nil
	})
}

// SetTableSize changes the number of seats and deals a fresh hand. Stack and
// name settings are kept for seats that still exist.
func (r *Recorder) SetTableSize(size int) error {
	return r.update(func() error {
		if size < game.MinTableSize || size > game.MaxTableSize {
			return fmt.Errorf("%w: %d", ErrInvalidTableSize, size)
		}
		stacks := uniform(size, r.cfg.Stack)
		copy(stacks, r.stacks)
		names := make([]string, size)
		copy(names, r.names)

		r.cfg.Size = size
		r.stacks = stacks
		r.names = names
		if r.dealer >= size {
			r.dealer = 0
		}
		if r.hero >= size {
			r.hero = game.NoSeat
		}
		r.dealLocked()
		return nil
	})
}

// SetStakes changes the blinds and deals a fresh hand.
func (r *Recorder) SetStakes(smallBlind, bigBlind int) error {
	return r.update(func() error {
		cfg := r.cfg
		cfg.SmallBlind, cfg.BigBlind = smallBlind, bigBlind
		if err := validate(cfg); err != nil {
			return err
		}
		r.cfg = cfg
		r.dealLocked()
		return nil
	})
}

// SetStack sets a seat's starting stack. Before the first action the hand is
// re-dealt with it; otherwise it applies from the next hand.
func (r *Recorder) SetStack(seat, stack int) error {
	return r.update(func() error {
		if seat < 0 || seat >= r.cfg.Size {
			return fmt.Errorf("seat %d: %w", seat, game.ErrInvalidSeat)
		}
		r.stacks[seat] = max(stack, 0)
		if r.history.Len() == 0 && !r.history.CanRedo() {
			r.dealLocked()
		}
		return nil
	})
}

// SetPlayerName labels a seat. Names are metadata and apply to every
// snapshot of the hand.
func (r *Recorder) SetPlayerName(seat int, name string) error {
	return r.update(func() error {
		if seat < 0 || seat >= r.cfg.Size {
			return fmt.Errorf("seat %d: %w", seat, game.ErrInvalidSeat)
		}
		r.names[seat] = name
		rename := func(t *game.Table) { t.Seats[seat].PlayerName = name }
		rename(&r.table)
		r.history.Rewrite(rename)
		return nil
	})
}

// SetHero marks the hero seat across the whole hand without touching the
// betting state.
func (r *Recorder) SetHero(seat int) error {
	return r.update(func() error {
		if seat != game.NoSeat && (seat < 0 || seat >= r.cfg.Size) {
			return fmt.Errorf("seat %d: %w", seat, game.ErrInvalidSeat)
		}
		r.hero = seat
		relabel := func(t *game.Table) { t.SetHero(seat) }
		relabel(&r.table)
		r.history.Rewrite(relabel)
		r.logger.Debug("Hero set", "seat", seat)
		return nil
	})
}

// AssignHoleCard puts a card token in one of a seat's hole card slots. Card
// knowledge is not part of the betting history, so every snapshot learns it.
func (r *Recorder) AssignHoleCard(seat, slot int, token string) error {
	c, err := game.ParseCard(token)
	if err != nil {
		return err
	}
	return r.update(func() error {
		r.cancelReplayLocked()
		if err := r.table.SetHoleCard(seat, slot, c); err != nil {
			return err
		}
		// Snapshots may still show board cards corrected since; the live
		// table already validated the card.
		r.history.Rewrite(func(t *game.Table) {
			t.WriteHoleCard(seat, slot, c)
		})
		return nil
	})
}

// AssignBoardCard puts a card token in a board slot. Completing the board a
// street is waiting for lets the betting continue.
func (r *Recorder) AssignBoardCard(slot int, token string) error {
	c, err := game.ParseCard(token)
	if err != nil {
		return err
	}
	return r.update(func() error {
		r.cancelReplayLocked()
		wasWaiting := r.table.WaitingForBoard
		if err := r.table.SetBoardCard(slot, c); err != nil {
			return err
		}
		if wasWaiting && !r.table.WaitingForBoard {
			r.logger.Debug("Board complete", "street", r.table.Street)
		}
		return nil
	})
}

// Act applies an action intent for the seat on the clock. Bets and raises
// are clamped into the legal range.
func (r *Recorder) Act(in game.Intent) error {
	return r.update(func() error {
		r.cancelReplayLocked()
		r.sizing = nil
		return r.applyLocked(in)
	})
}

func (r *Recorder) applyLocked(in game.Intent) error {
	next, rec, err := game.ApplyAction(r.table, in)
	if err != nil {
		return err
	}
	rec.ID = r.ids.New(gameid.Action)
	r.history.Append(rec)
	r.table = next

	r.logger.Debug("Applied action",
		"seat", rec.Position,
		"type", rec.Type,
		"amount", rec.Amount,
		"street", rec.Street)
	if next.Street != rec.Street {
		r.logger.Debug("Street closed", "street", next.Street, "pot", next.PotTotal())
	}
	return nil
}

// OpenSizing starts the bet or raise sizing step for the seat on the clock.
// Nothing is recorded until ConfirmSizing.
func (r *Recorder) OpenSizing() (game.Sizing, error) {
	var sz game.Sizing
	err := r.update(func() error {
		r.cancelReplayLocked()
		s, ok := r.table.Sizing()
		if !ok {
			return ErrNoSizing
		}
		sz = s
		r.sizing = &s
		return nil
	})
	return sz, err
}

// ConfirmSizing records the open bet or raise. amount is coerced with
// ParseAmount and clamped into the sizing range.
func (r *Recorder) ConfirmSizing(amount any) error {
	return r.update(func() error {
		if r.sizing == nil {
			return ErrNoSizing
		}
		sz := *r.sizing
		r.sizing = nil
		return r.applyLocked(game.Intent{Type: sz.Type, Amount: sz.Clamp(ParseAmount(amount))})
	})
}

// CancelSizing closes the sizing step without touching the table.
func (r *Recorder) CancelSizing() error {
	return r.update(func() error {
		if r.sizing == nil {
			return ErrNoSizing
		}
		r.sizing = nil
		return nil
	})
}

// Undo reverts the last action. It returns false when there is none.
func (r *Recorder) Undo() bool {
	var ok bool
	_ = r.update(func() error {
		r.cancelReplayLocked()
		r.sizing = nil
		r.table, ok = r.history.Undo(r.table)
		return nil
	})
	return ok
}

// Redo re-applies the last undone action. It returns false when there is none.
func (r *Recorder) Redo() bool {
	var ok bool
	_ = r.update(func() error {
		r.cancelReplayLocked()
		r.sizing = nil
		r.table, ok = r.history.Redo(r.table)
		return nil
	})
	return ok
}

// HandHistory formats the hand as hand history text.
func (r *Recorder) HandHistory() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replay.playing {
		return "", ErrReplayRunning
	}
	return handhistory.Format(r.inputLocked()), nil
}

func (r *Recorder) inputLocked() handhistory.Input {
	return handhistory.Input{
		HandID:    r.handID,
		Time:      r.started,
		TableName: r.cfg.TableName,
		Currency:  r.cfg.Currency,
		Rake:      r.cfg.Rake,
		Final:     r.table.Clone(),
		Actions:   r.history.Records(),
	}
}

// SaveHistory writes the hand history text through the configured writer
// and returns the file path.
func (r *Recorder) SaveHistory() (string, error) {
	if r.writer == nil {
		return "", ErrNoWriter
	}
	r.mu.Lock()
	if r.replay.playing {
		r.mu.Unlock()
		return "", ErrReplayRunning
	}
	in := r.inputLocked()
	r.mu.Unlock()

	return r.writer.Write(in.HandID, handhistory.Format(in))
}

// PHH builds the PHH form of the hand.
func (r *Recorder) PHH() (*phh.HandHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replay.playing {
		return nil, ErrReplayRunning
	}
	return phh.Build(phh.Hand{
		HandID:    r.handID,
		TableName: r.cfg.TableName,
		Time:      r.started,
		Final:     r.table.Clone(),
		Actions:   r.history.Records(),
	}), nil
}

// ExportPHH writes the hand in PHH TOML form.
func (r *Recorder) ExportPHH(w io.Writer) error {
	hand, err := r.PHH()
	if err != nil {
		return err
	}
	return phh.Encode(w, hand)
}
