package main

import (
	"fmt"
	"io"

	"github.com/lox/handreplayer/internal/handhistory"
	"github.com/lox/handreplayer/internal/recorder"
)

// FormatCmd prints a hand script as hand history text.
type FormatCmd struct {
	File string `arg:"" name:"file" help:"Hand script to format (- for stdin)"`
	Save bool   `help:"Also write the hand history to the configured directory"`
}

func (c *FormatCmd) Run(g *Globals, out io.Writer) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	opts := g.recorderOptions(logger)
	if c.Save {
		opts = append(opts, recorder.WithWriter(handhistory.NewWriter(cfg.History.Directory, logger)))
	}

	rec, err := loadHand(c.File, cfg, logger, opts...)
	if err != nil {
		return err
	}

	text, err := rec.HandHistory()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(out, text); err != nil {
		return err
	}

	if c.Save {
		path, err := rec.SaveHistory()
		if err != nil {
			return fmt.Errorf("saving hand history: %w", err)
		}
		logger.Info("Saved hand history", "hand", rec.HandID(), "path", path)
	}
	return nil
}
