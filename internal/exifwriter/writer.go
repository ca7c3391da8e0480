// Package exifwriter applies rating decisions to photo files as
// EXIF/XMP/IPTC metadata, in the Lightroom conventions: Rating for
// stars, XMP:Pick for the flag, and zero-padded IPTC text fields so
// the numeric scores sort correctly as strings inside catalog
// software.
//
// This is the write-back boundary, not part of the scoring engine: it
// owns batching, per-file failure isolation, and the policy of never
// downgrading a photo the user has manually promoted past the
// engine's own rating range.
package exifwriter

import (
	"context"
	"fmt"
	"log"
	"os"

	exiftool "github.com/barasher/go-exiftool"

	"superpicky/internal/constants"
	apperrors "superpicky/pkg/errors"
)

// Entry is one photo's pending metadata write.
type Entry struct {
	Path      string
	Rating    int
	Pick      int
	Sharpness *float64
	Aesthetic *float64
	Technical *float64
}

// BatchStats summarizes one write-back pass.
type BatchStats struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"` // manually curated or missing files
}

// Writer batches metadata writes through a shared exiftool process.
type Writer struct {
	et        *exiftool.Exiftool
	batchSize int
}

// New starts an exiftool session. Callers must Close it.
func New() (*Writer, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, apperrors.NewExternalTool("exifwriter.New", "exiftool", "cannot start session", err)
	}
	return &Writer{et: et, batchSize: constants.DefaultExifBatchSize}, nil
}

// Close shuts down the exiftool session.
func (w *Writer) Close() error { return w.et.Close() }

// WriteBatch writes every entry, isolating per-file failures: a bad
// file degrades its own entry only. Files whose existing rating
// exceeds the engine's range are manual promotions and are skipped
// untouched.
func (w *Writer) WriteBatch(ctx context.Context, entries []Entry) BatchStats {
	var stats BatchStats

	for start := 0; start < len(entries); start += w.batchSize {
		end := start + w.batchSize
		if end > len(entries) {
			end = len(entries)
		}

		select {
		case <-ctx.Done():
			stats.Failed += len(entries) - start
			return stats
		default:
		}

		w.writeChunk(entries[start:end], &stats)
	}

	return stats
}

func (w *Writer) writeChunk(entries []Entry, stats *BatchStats) {
	writable := make([]exiftool.FileMetadata, 0, len(entries))

	for _, e := range entries {
		if _, err := os.Stat(e.Path); err != nil {
			log.Printf("exifwriter: missing file %s, skipping", e.Path)
			stats.Skipped++
			continue
		}
		if w.manuallyCurated(e.Path) {
			log.Printf("exifwriter: %s carries a manual rating, not downgrading", e.Path)
			stats.Skipped++
			continue
		}

		fm := exiftool.EmptyFileMetadata()
		fm.File = e.Path
		fm.SetInt("Rating", int64(e.Rating))
		fm.SetInt("XMP:Pick", int64(e.Pick))
		if e.Sharpness != nil {
			fm.SetString("IPTC:City", fmt.Sprintf("%06.2f", *e.Sharpness))
		}
		if e.Aesthetic != nil {
			fm.SetString("IPTC:Country-PrimaryLocationName", fmt.Sprintf("%05.2f", *e.Aesthetic))
		}
		if e.Technical != nil {
			fm.SetString("IPTC:Province-State", fmt.Sprintf("%06.2f", *e.Technical))
		}
		writable = append(writable, fm)
	}

	if len(writable) == 0 {
		return
	}

	w.et.WriteMetadata(writable)
	for _, fm := range writable {
		if fm.Err != nil {
			log.Printf("exifwriter: write failed for %s: %v", fm.File, fm.Err)
			stats.Failed++
			continue
		}
		stats.Succeeded++
	}
}

// manuallyCurated reports whether the file's current rating sits above
// the engine's range, meaning the user promoted it by hand. Unreadable
// metadata counts as not curated so a fresh file is still writable.
func (w *Writer) manuallyCurated(path string) bool {
	metas := w.et.ExtractMetadata(path)
	if len(metas) == 0 || metas[0].Err != nil {
		return false
	}
	current, err := metas[0].GetInt("Rating")
	if err != nil {
		return false
	}
	return current > constants.MaxEngineRating
}
