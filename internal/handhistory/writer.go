package handhistory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/lox/handreplayer/internal/fileutil"
)

// Writer saves formatted hands as hand_<id>.txt files in a directory.
type Writer struct {
	directory string
	logger    *log.Logger
}

// NewWriter creates a file-based hand history writer
func NewWriter(directory string, logger *log.Logger) *Writer {
	return &Writer{directory: directory, logger: logger.WithPrefix("history")}
}

// Path returns the file a hand is written to.
func (w *Writer) Path(handID string) string {
	return filepath.Join(w.directory, fmt.Sprintf("hand_%s.txt", handID))
}

// Write stores the text for a hand. Readers never see a partial file.
func (w *Writer) Write(handID, text string) (string, error) {
	if err := os.MkdirAll(w.directory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create hand history directory: %w", err)
	}

	path := w.Path(handID)
	if err := fileutil.WriteFileAtomic(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write hand history file: %w", err)
	}

	w.logger.Info("Saved hand history", "hand", handID, "path", path, "bytes", len(text))
	return path, nil
}
