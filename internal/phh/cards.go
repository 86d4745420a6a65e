package phh

import (
	"strings"

	"github.com/lox/handreplayer/internal/game"
)

// cardText renders a card the way PHH expects, "??" when it is not known.
func cardText(c game.Card) string {
	if !c.IsKnown() {
		return "??"
	}
	return string(c)
}

// cardsText joins cards without separators, e.g. "AhKd". Missing hole
// cards are padded with "??" up to want.
func cardsText(cards []game.Card, want int) string {
	var b strings.Builder
	for i := 0; i < max(want, len(cards)); i++ {
		if i < len(cards) {
			b.WriteString(cardText(cards[i]))
			continue
		}
		b.WriteString("??")
	}
	return b.String()
}

// boardText is the board dealt on a street, e.g. "QsJh2c" for the flop.
// ok is false while any of those cards is missing.
func boardText(board [5]game.Card, s game.Street) (string, bool) {
	var from, to int
	switch s {
	case game.Flop:
		from, to = 0, 3
	case game.Turn:
		from, to = 3, 4
	case game.River:
		from, to = 4, 5
	default:
		return "", false
	}
	for _, c := range board[from:to] {
		if c.IsEmpty() {
			return "", false
		}
	}
	return cardsText(board[from:to], 0), true
}
