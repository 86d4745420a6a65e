package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/handreplayer/internal/replay"
)

// ReplayCmd steps through a hand script on a timer.
type ReplayCmd struct {
	File     string        `arg:"" name:"file" help:"Hand script to replay (- for stdin)"`
	Interval time.Duration `short:"i" help:"Pause between actions (overrides config)"`
	NoColor  bool          `help:"Disable colored output"`
}

func (c *ReplayCmd) Run(g *Globals, out io.Writer) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	rec, err := loadHand(c.File, cfg, logger, g.recorderOptions(logger)...)
	if err != nil {
		return err
	}

	pb, err := replay.NewPlayback(rec.Records(), rec.Table())
	if err != nil {
		return err
	}

	interval := cfg.ReplayInterval()
	if c.Interval > 0 {
		interval = c.Interval
	}

	profile := termenv.EnvColorProfile()
	if c.NoColor {
		profile = termenv.Ascii
	}
	fr := newFrameRenderer(out, profile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, done := startPlayback(quartz.NewReal(), interval, pb, rec.HandID(), fr, out, logger)
	select {
	case <-done:
	case <-ctx.Done():
		stopPlayback(driver, pb, fr, out, logger)
	}
	return nil
}

// stopPlayback halts an unfinished replay and draws the table the hand
// ended on.
func stopPlayback(driver *replay.Driver, pb *replay.Playback, fr *frameRenderer, out io.Writer, logger *log.Logger) {
	driver.Stop()
	_, step, total := driver.Status()
	logger.Info("Replay interrupted", "step", step, "total", total)
	fmt.Fprintln(out, fr.final(pb.Final()))
}

// startPlayback renders the starting table and starts a driver that renders
// one frame per tick. done is closed after the last frame.
func startPlayback(clock quartz.Clock, interval time.Duration, pb *replay.Playback, handID string, fr *frameRenderer, out io.Writer, logger *log.Logger) (*replay.Driver, <-chan struct{}) {
	fmt.Fprintln(out, fr.start(pb.Start(), handID))

	done := make(chan struct{})
	driver := replay.NewDriver(clock, interval, logger)
	driver.Start(pb.Total(), func(_ uint64, _ int) bool {
		f, ok := pb.Next()
		if ok {
			fmt.Fprintln(out, fr.frame(f))
		}
		if !ok || f.Done() {
			close(done)
			return false
		}
		return true
	})
	return driver, done
}
