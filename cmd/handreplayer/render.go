package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/handreplayer/internal/game"
	"github.com/lox/handreplayer/internal/replay"
)

// frameRenderer draws replay frames as styled text.
type frameRenderer struct {
	title  lipgloss.Style
	street lipgloss.Style
	active lipgloss.Style
	hero   lipgloss.Style
	folded lipgloss.Style
	muted  lipgloss.Style
}

func newFrameRenderer(w io.Writer, profile termenv.Profile) *frameRenderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	return &frameRenderer{
		title: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		street: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		active: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700")),
		hero:   r.NewStyle().Foreground(lipgloss.Color("#00BFFF")),
		folded: r.NewStyle().Faint(true),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// start draws the table before the first action.
func (fr *frameRenderer) start(t game.Table, handID string) string {
	var b strings.Builder
	b.WriteString(fr.title.Render("Hand " + handID))
	b.WriteString("\n")
	fr.table(&b, t)
	return b.String()
}

// frame draws the table after one replayed action.
func (fr *frameRenderer) frame(f replay.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n",
		fr.muted.Render(fmt.Sprintf("[%d/%d]", f.Step, f.Total)),
		fr.street.Render(f.Record.Street.String()),
		describe(f.Record))
	fr.table(&b, f.Table)
	return b.String()
}

// final draws the table the hand ended on.
func (fr *frameRenderer) final(t game.Table) string {
	var b strings.Builder
	b.WriteString(fr.muted.Render("Final table"))
	b.WriteString("\n")
	fr.table(&b, t)
	return b.String()
}

func (fr *frameRenderer) table(b *strings.Builder, t game.Table) {
	var board []string
	for _, c := range t.Board {
		if c != game.NoCard {
			board = append(board, c.String())
		}
	}
	if len(board) > 0 {
		fmt.Fprintf(b, "  Board: %s\n", strings.Join(board, " "))
	}
	fmt.Fprintf(b, "  Pot: $%d\n", t.PotTotal())

	for i, s := range t.Seats {
		name := s.PlayerName
		if name == "" {
			name = string(s.Position)
		}
		row := fmt.Sprintf("  %-3s %-12s $%-6d", s.Position, name, s.Stack)
		if s.CurrentBet > 0 {
			row += fmt.Sprintf(" bet $%d", s.CurrentBet)
		}
		if cards := holeCards(s.HoleCards); cards != "" {
			row += "  " + cards
		}

		switch {
		case s.IsFolded:
			row = fr.folded.Render(row)
		case i == t.ActiveSeat:
			row = fr.active.Render(row + "  <")
		case s.IsHero:
			row = fr.hero.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	if t.IsComplete() {
		b.WriteString(fr.street.Render("  Hand complete"))
		b.WriteString("\n")
	}
}

func holeCards(cards []game.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		if c != game.NoCard {
			parts = append(parts, c.String())
		}
	}
	return strings.Join(parts, " ")
}

// describe is a one-line summary of an action, e.g. "UTG raises to $6".
func describe(rec game.ActionRecord) string {
	switch rec.Type {
	case game.Fold:
		return fmt.Sprintf("%s folds", rec.Position)
	case game.Check:
		return fmt.Sprintf("%s checks", rec.Position)
	case game.Call:
		return fmt.Sprintf("%s calls $%d", rec.Position, rec.Amount)
	case game.Bet:
		return fmt.Sprintf("%s bets $%d", rec.Position, rec.Amount)
	case game.Raise:
		return fmt.Sprintf("%s raises to $%d", rec.Position, rec.Amount)
	case game.AllIn:
		return fmt.Sprintf("%s is all-in for $%d", rec.Position, rec.Amount)
	}
	return fmt.Sprintf("%s %s", rec.Position, rec.Type)
}
