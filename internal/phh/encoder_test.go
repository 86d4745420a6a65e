package phh

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handreplayer/internal/game"
)

func play(t *testing.T, tb game.Table, intents ...game.Intent) (game.Table, []game.ActionRecord) {
	t.Helper()
	var recs []game.ActionRecord
	for _, in := range intents {
		next, rec, err := game.ApplyAction(tb, in)
		require.NoError(t, err)
		recs = append(recs, rec)
		tb = next
	}
	return tb, recs
}

func setBoard(t *testing.T, tb *game.Table, cards ...string) {
	t.Helper()
	for i, c := range cards {
		require.NoError(t, tb.SetBoardCard(i, game.MustParseCard(c)))
	}
}

func TestFormatAction(t *testing.T) {
	facing50 := game.Table{Seats: []game.Seat{{CurrentBet: 50}, {}}}

	tests := []struct {
		name   string
		player int
		rec    game.ActionRecord
		want   string
	}{
		{"fold", 0, game.ActionRecord{Type: game.Fold}, "p1 f"},
		{"check", 1, game.ActionRecord{Type: game.Check}, "p2 cc"},
		{"call", 3, game.ActionRecord{Type: game.Call, Amount: 50}, "p4 cc"},
		{"bet", 1, game.ActionRecord{Type: game.Bet, Amount: 40}, "p2 cbr 40"},
		{"raise", 0, game.ActionRecord{Type: game.Raise, Amount: 120}, "p1 cbr 120"},
		{"all-in over the price", 0, game.ActionRecord{Type: game.AllIn, Amount: 350, PrevState: facing50}, "p1 cbr 350"},
		{"all-in for less", 2, game.ActionRecord{Type: game.AllIn, Amount: 30, PrevState: facing50}, "p3 cc"},
		{"all-in exactly the price", 2, game.ActionRecord{Type: game.AllIn, Amount: 50, PrevState: facing50}, "p3 cc"},
		{"unknown", 2, game.ActionRecord{Type: game.ActionType(42), Amount: 10}, "# p3 unknown 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAction(tt.player, tt.rec))
		})
	}
}

func TestBuildUncontestedHand(t *testing.T) {
	tb := game.NewTable(3, 1, 2, game.WithHero(0))
	require.NoError(t, tb.SetHoleCard(0, 0, game.MustParseCard("Ah")))
	require.NoError(t, tb.SetHoleCard(0, 1, game.MustParseCard("Kh")))

	tb, recs := play(t, tb,
		game.Intent{Type: game.Raise, Amount: 6},
		game.Intent{Type: game.Fold},
		game.Intent{Type: game.Call},
	)
	setBoard(t, &tb, "Qs", "Jh", "2c")
	final, more := play(t, tb,
		game.Intent{Type: game.Check},
		game.Intent{Type: game.Bet, Amount: 10},
		game.Intent{Type: game.Fold},
	)
	require.True(t, final.IsComplete())

	at := time.Date(2025, time.November, 14, 15, 22, 0, 0, time.UTC)
	hh := Build(Hand{
		HandID:    "42",
		TableName: "Turn Pro",
		Time:      at,
		Final:     final,
		Actions:   append(recs, more...),
	})

	assert.Equal(t, "NT", hh.Variant)
	assert.Equal(t, 3, hh.SeatCount)
	// Button is seat 1, so the small blind (seat 2) leads.
	assert.Equal(t, []int{2, 3, 1}, hh.Seats)
	assert.Equal(t, []int{0, 0, 0}, hh.Antes)
	assert.Equal(t, []int{1, 2, 0}, hh.BlindsOrStraddles)
	assert.Equal(t, 2, hh.MinBet)
	assert.Equal(t, []int{200, 200, 200}, hh.StartingStacks)
	assert.Equal(t, []string{"SB", "BB", "Hero"}, hh.Players)
	assert.Equal(t, []string{
		"d dh p1 ????",
		"d dh p2 ????",
		"d dh p3 AhKh",
		"p3 cbr 6",
		"p1 f",
		"p2 cc",
		"d db QsJh2c",
		"p2 cc",
		"p3 cbr 10",
		"p2 f",
	}, hh.Actions)
	assert.Equal(t, []int{0, 0, 13}, hh.Winnings)
	assert.Equal(t, []int{199, 194, 207}, hh.FinishingStacks)

	assert.Equal(t, "42", hh.HandID)
	assert.Equal(t, "15:22:00", hh.Time)
	assert.Equal(t, "UTC", hh.TimeZone)
	assert.Equal(t, 14, hh.Day)
	assert.Equal(t, 11, hh.Month)
	assert.Equal(t, 2025, hh.Year)
}

func TestBuildShowdownRunsOutBoard(t *testing.T) {
	tb := game.NewTable(3, 1, 2)
	tb, recs := play(t, tb,
		game.Intent{Type: game.Fold},
		game.Intent{Type: game.AllIn},
		game.Intent{Type: game.Call},
	)
	setBoard(t, &tb, "Qs", "Jh", "2c", "7d", "9s")
	require.True(t, tb.IsComplete())

	hh := Build(Hand{HandID: "7", Final: tb, Actions: recs})

	assert.Equal(t, []string{
		"d dh p1 ????",
		"d dh p2 ????",
		"d dh p3 ????",
		"p3 f",
		"p1 cbr 200",
		"p2 cc",
		"d db QsJh2c",
		"d db 7d",
		"d db 9s",
		"p1 sm ????",
		"p2 sm ????",
	}, hh.Actions)
	assert.Nil(t, hh.Winnings, "showdown winners are not decided")
	assert.Nil(t, hh.FinishingStacks)
	assert.Empty(t, hh.Time)
}

func TestBuildUnfinishedHand(t *testing.T) {
	tb, recs := play(t, game.NewTable(4, 1, 2, game.WithDealer(2)),
		game.Intent{Type: game.Call},
	)

	hh := Build(Hand{Final: tb, Actions: recs})

	// Dealer on seat 3: players run seat 4, 1, 2, 3.
	assert.Equal(t, []int{4, 1, 2, 3}, hh.Seats)
	assert.Equal(t, []int{1, 2, 0, 0}, hh.BlindsOrStraddles)
	assert.Equal(t, "p3 cc", hh.Actions[len(hh.Actions)-1])
	assert.Nil(t, hh.Winnings)
}

func TestEncodeHandHistory(t *testing.T) {
	hand := &HandHistory{
		Variant:           "NT",
		Table:             "Turn Pro",
		SeatCount:         3,
		Seats:             []int{2, 3, 1},
		Antes:             []int{0, 0, 0},
		BlindsOrStraddles: []int{1, 2, 0},
		MinBet:            2,
		StartingStacks:    []int{200, 200, 200},
		FinishingStacks:   []int{199, 198, 203},
		Winnings:          []int{0, 0, 5},
		Actions: []string{
			"d dh p1 ????",
			"d dh p2 7c2d",
			"d dh p3 AhKh",
			"p3 cbr 6",
			"p1 f",
			"p2 f",
		},
		Players:   []string{"SB", "BB", "Hero"},
		HandID:    "hand-00042",
		Time:      "15:22:00",
		TimeZone:  "UTC",
		Day:       14,
		Month:     11,
		Year:      2025,
		Timestamp: time.Date(2025, time.November, 14, 15, 22, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, hand))

	want := "" +
		"variant = \"NT\"\n" +
		"table = \"Turn Pro\"\n" +
		"seat_count = 3\n" +
		"seats = [2, 3, 1]\n" +
		"antes = [0, 0, 0]\n" +
		"blinds_or_straddles = [1, 2, 0]\n" +
		"min_bet = 2\n" +
		"starting_stacks = [200, 200, 200]\n" +
		"finishing_stacks = [199, 198, 203]\n" +
		"winnings = [0, 0, 5]\n" +
		"actions = [\"d dh p1 ????\", \"d dh p2 7c2d\", \"d dh p3 AhKh\", \"p3 cbr 6\", \"p1 f\", \"p2 f\"]\n" +
		"players = [\"SB\", \"BB\", \"Hero\"]\n" +
		"hand = \"hand-00042\"\n" +
		"time = \"15:22:00\"\n" +
		"time_zone = \"UTC\"\n" +
		"day = 14\n" +
		"month = 11\n" +
		"year = 2025\n"
	assert.Equal(t, want, buf.String())

	var decoded HandHistory
	_, err := toml.Decode(buf.String(), &decoded)
	require.NoError(t, err)
	assert.Equal(t, hand.Actions, decoded.Actions)
}

func TestEncodeNil(t *testing.T) {
	_, err := EncodeToBytes(nil)
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	tb, recs := play(t, game.NewTable(3, 1, 2), game.Intent{Type: game.Fold}, game.Intent{Type: game.Fold})
	require.True(t, tb.IsComplete())

	path := filepath.Join(t.TempDir(), "hand.phh")
	require.NoError(t, WriteFile(path, Build(Hand{HandID: "1", Final: tb, Actions: recs})))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded HandHistory
	_, err = toml.Decode(string(data), &decoded)
	require.NoError(t, err)
	assert.Equal(t, "1", decoded.HandID)
	assert.Equal(t, []int{0, 2, 0}, decoded.Winnings)
}
