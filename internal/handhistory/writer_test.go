package handhistory

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterWritesHandFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "histories")
	w := NewWriter(dir, log.New(io.Discard))

	path, err := w.Write("42", "hand text\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hand_42.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hand text\n", string(data))

	// Overwrites leave no temp files behind.
	_, err = w.Write("42", "second\n")
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
