package phh

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lox/handreplayer/internal/fileutil"
	"github.com/lox/handreplayer/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errors.New("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf strings.Builder
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// FormatAction converts a logged action to its PHH string. player is the
// 0-based PHH player index. An all-in is a call when it does not exceed the
// price it faced.
func FormatAction(player int, rec game.ActionRecord) string {
	p := fmt.Sprintf("p%d", player+1)
	switch rec.Type {
	case game.Fold:
		return p + " f"
	case game.Check, game.Call:
		return p + " cc"
	case game.Bet, game.Raise:
		return fmt.Sprintf("%s cbr %d", p, rec.Amount)
	case game.AllIn:
		if rec.Amount <= rec.PrevState.MaxBet() {
			return p + " cc"
		}
		return fmt.Sprintf("%s cbr %d", p, rec.Amount)
	}
	return fmt.Sprintf("# %s %s %d", p, rec.Type, rec.Amount)
}

// WriteFile encodes the hand to path atomically.
func WriteFile(path string, hand *HandHistory) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, hand)
	})
}
