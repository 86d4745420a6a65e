package gameid

import (
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handreplayer/internal/randutil"
)

func TestGenerate(t *testing.T) {
	id := NewGenerator(nil, nil).Generate()

	assert.Len(t, id, Length)
	require.NoError(t, Validate(id))
	assert.LessOrEqual(t, id[0], byte('7'))
}

func TestGenerateUnique(t *testing.T) {
	g := NewGenerator(nil, nil)
	ids := make(map[string]bool)

	for range 100 {
		id := g.Generate()
		require.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	mock := quartz.NewMock(t)
	g := NewGenerator(mock, randutil.New(1))

	var ids []string
	for range 10 {
		ids = append(ids, g.Generate())
		mock.Advance(time.Millisecond)
	}

	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "IDs not sorted: %s >= %s", ids[i-1], ids[i])
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	mock := quartz.NewMock(t)

	a := NewGenerator(mock, randutil.New(7))
	b := NewGenerator(mock, randutil.New(7))

	for range 3 {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestNewAddsKindPrefix(t *testing.T) {
	g := NewGenerator(quartz.NewMock(t), randutil.New(3))

	id := g.New(Action)
	assert.True(t, strings.HasPrefix(id, "act_"), id)
	assert.Len(t, id, len("act_")+Length)
	require.NoError(t, Validate(id))

	assert.True(t, strings.HasPrefix(g.New(Hand), "hand_"))
}

func TestTimestamp(t *testing.T) {
	mock := quartz.NewMock(t)
	g := NewGenerator(mock, randutil.New(5))

	ts, err := Timestamp(g.New(Action))
	require.NoError(t, err)
	assert.Equal(t, mock.Now().UnixMilli(), ts.UnixMilli())

	_, err = Timestamp("nope")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid ID", "01h5n0et5q6mt3v7ms1234abcd", false},
		{"valid prefixed ID", "hand_01h5n0et5q6mt3v7ms1234abcd", false},
		{"too short", "01h5n0et5q6mt3v7ms123", true},
		{"too long", "01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first char too high", "81h5n0et5q6mt3v7ms1234abcd", true},
		{"invalid character", "01h5n0et5q6mt3v7ms1234abci", true},
		{"uppercase not allowed", "01H5N0ET5Q6MT3V7MS1234ABCD", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAlphabet(t *testing.T) {
	require.Len(t, alphabet, 32)

	seen := make(map[rune]bool)
	for _, char := range alphabet {
		assert.False(t, seen[char], "duplicate character in alphabet: %c", char)
		seen[char] = true
	}

	for _, char := range "ilou" {
		assert.NotContains(t, alphabet, string(char))
	}
}
