package main

import (
	"io"

	"github.com/lox/handreplayer/internal/phh"
)

// ExportPHHCmd writes a hand script in PHH TOML form.
type ExportPHHCmd struct {
	File   string `arg:"" name:"file" help:"Hand script to export (- for stdin)"`
	Output string `short:"o" help:"Write to this file instead of stdout"`
}

func (c *ExportPHHCmd) Run(g *Globals, out io.Writer) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	rec, err := loadHand(c.File, cfg, logger, g.recorderOptions(logger)...)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return rec.ExportPHH(out)
	}

	hand, err := rec.PHH()
	if err != nil {
		return err
	}
	if err := phh.WriteFile(c.Output, hand); err != nil {
		return err
	}
	logger.Info("Exported hand", "hand", hand.HandID, "path", c.Output)
	return nil
}
