package exifwriter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The exiftool process only ever sees files that exist, so a writer
// with no session can still exercise the skip and cancellation paths.
func missingFileEntries(dir string, n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{Path: filepath.Join(dir, "missing", "photo.jpg"), Rating: 1}
	}
	return entries
}

func TestWriteBatch_MissingFilesSkipped(t *testing.T) {
	w := &Writer{batchSize: 3}

	stats := w.WriteBatch(context.Background(), missingFileEntries(t.TempDir(), 7))
	assert.Equal(t, BatchStats{Skipped: 7}, stats)
}

func TestWriteBatch_Empty(t *testing.T) {
	w := &Writer{batchSize: 3}
	assert.Equal(t, BatchStats{}, w.WriteBatch(context.Background(), nil))
}

// A cancelled context fails the remaining entries instead of hanging
// onto the exiftool session.
func TestWriteBatch_Cancelled(t *testing.T) {
	w := &Writer{batchSize: 5}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := w.WriteBatch(ctx, missingFileEntries(t.TempDir(), 12))
	assert.Equal(t, BatchStats{Failed: 12}, stats)
}
