// Package script reads hands written as plain text, one event per line, and
// plays them into a recorder.
//
//	# 6-max $1/$2, button on seat 1
//	table 6
//	stakes 1 2
//	name 3 alice
//	hero 4
//	hole 4 Ah Kd
//	UTG raise 6
//	fold
//	fold
//	fold
//	fold
//	BB call
//	board Qs Jh 2c
//	check
//	bet 10
//	fold
//
// Seats are numbered from 1. An action may be prefixed with the position
// expected to act, which is checked against the table.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"

	"github.com/lox/handreplayer/internal/game"
	"github.com/lox/handreplayer/internal/recorder"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("bad arguments")
	ErrWrongSeat      = errors.New("position is not on the clock")
	ErrBoardFull      = errors.New("board is full")
)

// Command is one parsed line.
type Command struct {
	Line     int
	Name     string
	Position game.Position // optional actor check for actions
	Args     []string
}

func (c Command) String() string {
	parts := []string{}
	if c.Position != "" {
		parts = append(parts, string(c.Position))
	}
	parts = append(parts, c.Name)
	return strings.Join(append(parts, c.Args...), " ")
}

// Script is a parsed hand.
type Script struct {
	Commands []Command
}

var arity = map[string][2]int{
	"table":  {1, 1},
	"stakes": {2, 2},
	"stack":  {2, 2},
	"name":   {2, 2},
	"dealer": {1, 1},
	"hero":   {1, 1},
	"new":    {0, 0},
	"hole":   {2, 3},
	"board":  {1, 5},
	"fold":   {0, 0},
	"check":  {0, 0},
	"call":   {0, 0},
	"bet":    {1, 1},
	"raise":  {1, 1},
	"allin":  {0, 0},
	"undo":   {0, 0},
	"redo":   {0, 0},
}

var aliases = map[string]string{
	"folds":  "fold",
	"checks": "check",
	"calls":  "call",
	"bets":   "bet",
	"raises": "raise",
	"all-in": "allin",
	"shove":  "allin",
}

var positions = map[string]game.Position{}

func init() {
	for _, p := range game.Positions(game.MaxTableSize) {
		positions[strings.ToUpper(string(p))] = p
	}
	positions["BU"] = game.Button
}

// Parse reads a script. Blank lines and text after '#' are ignored.
func Parse(r io.Reader) (*Script, error) {
	s := &Script{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		cmd := Command{Line: line}
		if p, ok := positions[strings.ToUpper(strings.TrimSuffix(fields[0], ":"))]; ok {
			cmd.Position = p
			fields = fields[1:]
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: %w: position without action", line, ErrBadArguments)
			}
		}

		name := strings.ToLower(fields[0])
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		bounds, ok := arity[name]
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %q", line, ErrUnknownCommand, fields[0])
		}
		cmd.Name = name
		cmd.Args = fields[1:]
		if n := len(cmd.Args); n < bounds[0] || n > bounds[1] {
			return nil, fmt.Errorf("line %d: %w: %s takes %d to %d arguments", line, ErrBadArguments, name, bounds[0], bounds[1])
		}
		if cmd.Position != "" && actionIntent(name) == nil {
			return nil, fmt.Errorf("line %d: %w: %s is not an action", line, ErrBadArguments, name)
		}
		s.Commands = append(s.Commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return s, nil
}

func actionIntent(name string) *game.Intent {
	switch name {
	case "fold":
		return &game.Intent{Type: game.Fold}
	case "check":
		return &game.Intent{Type: game.Check}
	case "call":
		return &game.Intent{Type: game.Call}
	case "bet":
		return &game.Intent{Type: game.Bet}
	case "raise":
		return &game.Intent{Type: game.Raise}
	case "allin":
		return &game.Intent{Type: game.AllIn}
	}
	return nil
}

// Apply plays every command into the recorder, stopping at the first error.
func (s *Script) Apply(r *recorder.Recorder) error {
	for _, cmd := range s.Commands {
		if err := apply(r, cmd); err != nil {
			return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd, err)
		}
	}
	return nil
}

func apply(r *recorder.Recorder, cmd Command) error {
	if in := actionIntent(cmd.Name); in != nil {
		if cmd.Position != "" {
			tb := r.Table()
			if tb.ActiveSeat == game.NoSeat || tb.Seats[tb.ActiveSeat].Position != cmd.Position {
				return ErrWrongSeat
			}
		}
		if len(cmd.Args) > 0 {
			in.Amount = recorder.ParseAmount(cmd.Args[0])
		}
		return r.Act(*in)
	}

	switch cmd.Name {
	case "table":
		n, err := number(cmd.Args[0])
		if err != nil {
			return err
		}
		return r.SetTableSize(n)
	case "stakes":
		sb, err := number(cmd.Args[0])
		if err != nil {
			return err
		}
		bb, err := number(cmd.Args[1])
		if err != nil {
			return err
		}
		return r.SetStakes(sb, bb)
	case "stack":
		seat, err := seatNumber(cmd.Args[0])
		if err != nil {
			return err
		}
		return r.SetStack(seat, recorder.ParseAmount(cmd.Args[1]))
	case "name":
		seat, err := seatNumber(cmd.Args[0])
		if err != nil {
			return err
		}
		return r.SetPlayerName(seat, cmd.Args[1])
	case "dealer":
		seat, err := seatNumber(cmd.Args[0])
		if err != nil {
			return err
		}
		return r.SetDealer(seat)
	case "hero":
		seat, err := seatNumber(cmd.Args[0])
		if err != nil {
			return err
		}
		return r.SetHero(seat)
	case "new":
		r.NewHand()
		return nil
	case "hole":
		seat, err := seatNumber(cmd.Args[0])
		if err != nil {
			return err
		}
		for slot, token := range cmd.Args[1:] {
			if err := r.AssignHoleCard(seat, slot, token); err != nil {
				return err
			}
		}
		return nil
	case "board":
		return dealBoard(r, cmd.Args)
	case "undo":
		r.Undo()
		return nil
	case "redo":
		r.Redo()
		return nil
	}
	return ErrUnknownCommand
}

// dealBoard fills the first empty board slots in order.
func dealBoard(r *recorder.Recorder, tokens []string) error {
	board := r.Table().Board
	slot := 0
	for _, token := range tokens {
		for slot < len(board) && !board[slot].IsEmpty() {
			slot++
		}
		if slot >= len(board) {
			return ErrBoardFull
		}
		if err := r.AssignBoardCard(slot, token); err != nil {
			return err
		}
		slot++
	}
	return nil
}

func number(s string) (int, error) {
	n, err := cast.ToIntE(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrBadArguments, s)
	}
	return n, nil
}

func seatNumber(s string) (int, error) {
	n, err := number(s)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}
