// Package processor runs one batch end to end: per-photo
// normalization and classification fan out to a worker pool, the
// results gather at a barrier, the picked ranker runs once over the
// 3-star subset, and the batch is handed to the report store and the
// metadata writer. Classification is pure and in-memory, so workers
// need no rate limiting, retries, or per-job timeouts; a cancelled
// batch simply discards partial results.
package processor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"superpicky/internal/constants"
	"superpicky/internal/exifwriter"
	"superpicky/internal/models"
	"superpicky/internal/rating"
	"superpicky/internal/report"
	"superpicky/internal/selection"
	"superpicky/internal/sharpness"
	"superpicky/pkg/events"
	"superpicky/pkg/metrics"
)

var (
	photosProcessed  = metrics.Default.Counter("photos_processed_total", "Photos classified across all batches")
	batchesCompleted = metrics.Default.Counter("batches_completed_total", "Completed batch runs")
	batchDuration    = metrics.Default.Histogram("batch_duration_seconds", "End to end batch duration", []float64{0.1, 1, 5, 30, 120})
)

// Job is one photo waiting for classification. Path points at the
// file that receives the metadata write-back; it may be empty for
// metrics-only sources.
type Job struct {
	PhotoID string
	Path    string
	Metrics models.PhotoMetrics
}

// RatedPhoto is one classified photo after the barrier.
type RatedPhoto struct {
	Job
	Result models.RatingResult
	Picked bool
}

// BatchStats tracks what a batch produced, including the data-quality
// tallies: clamped metric fields and absent quality scores are
// observable here rather than silently swallowed.
type BatchStats struct {
	Total            int   `json:"total"`
	Rejected         int   `json:"rejected"`
	ZeroStar         int   `json:"zero_star"`
	OneStar          int   `json:"one_star"`
	TwoStar          int   `json:"two_star"`
	ThreeStar        int   `json:"three_star"`
	Picked           int   `json:"picked"`
	ClampedFields    int   `json:"clamped_fields"`
	MissingAesthetic int   `json:"missing_aesthetic"`
	MissingTechnical int   `json:"missing_technical"`
	WorkerCount      int   `json:"worker_count"`
	DurationMs       int64 `json:"duration_ms"`
}

func (s *BatchStats) counts() map[string]int {
	return map[string]int{
		"rejected": s.Rejected, "zero_star": s.ZeroStar, "one_star": s.OneStar,
		"two_star": s.TwoStar, "three_star": s.ThreeStar, "picked": s.Picked,
	}
}

// BatchResult is the outcome of one ProcessBatch call.
type BatchResult struct {
	RunID  string
	Stats  BatchStats
	Photos []RatedPhoto
	Writes exifwriter.BatchStats
}

// MetadataWriter is the write-back boundary. The engine never
// constructs one; it is injected so tests and metrics-only runs can
// substitute their own.
type MetadataWriter interface {
	WriteBatch(ctx context.Context, entries []exifwriter.Entry) exifwriter.BatchStats
}

// Config holds engine settings.
type Config struct {
	WorkerCount   int
	Mode          sharpness.Mode
	SkipWriteBack bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount: 8,
		Mode:        sharpness.ModeLogCompression,
	}
}

// Engine coordinates the batch pipeline. Store, writer, and event
// store are optional: nil skips that boundary.
type Engine struct {
	cfg        Config
	thresholds models.ThresholdConfig
	store      *report.Store
	writer     MetadataWriter
	events     events.Store
}

// New creates a processing engine. The threshold configuration is
// copied and frozen for every batch the engine runs.
func New(cfg Config, thresholds models.ThresholdConfig, store *report.Store, writer MetadataWriter, es events.Store) *Engine {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultConfig().WorkerCount
	}
	return &Engine{
		cfg:        cfg,
		thresholds: thresholds,
		store:      store,
		writer:     writer,
		events:     es,
	}
}

// ProcessBatch classifies every job, waits for the whole population,
// ranks the 3-star subset, then persists and writes back. The picked
// computation is a barrier: percentile membership depends on the full
// batch, so it cannot start until every photo has a rating.
func (e *Engine) ProcessBatch(ctx context.Context, directory string, jobs []Job) (*BatchResult, error) {
	start := time.Now()
	thresholds := e.thresholds // frozen snapshot for this batch

	stats := BatchStats{Total: len(jobs), WorkerCount: e.cfg.WorkerCount}

	rated, err := e.classifyAll(ctx, jobs, thresholds, &stats)
	if err != nil {
		return nil, err
	}

	// Barrier reached: the full population is classified.
	candidates := make([]selection.Candidate, 0, len(rated))
	for _, p := range rated {
		if !p.Result.Promotable {
			continue
		}
		candidates = append(candidates, selection.Candidate{
			PhotoID:   p.PhotoID,
			Aesthetic: p.Metrics.AestheticScore,
			Sharpness: p.Metrics.NormalizedSharpness,
		})
	}
	picked := selection.SelectPicked(candidates, thresholds.PickedTopPercentage)

	for i := range rated {
		p := &rated[i]
		p.Picked = picked[p.PhotoID]
		e.tally(&stats, p)
	}

	result := &BatchResult{
		RunID:  uuid.NewString(),
		Photos: rated,
	}

	if e.store != nil {
		records := make([]report.Record, len(rated))
		for i, p := range rated {
			records[i] = report.Record{PhotoID: p.PhotoID, Metrics: p.Metrics, Result: p.Result, Picked: p.Picked}
		}
		run := report.Run{
			ID:        result.RunID,
			Directory: directory,
			CreatedAt: start,
			Mode:      string(e.cfg.Mode),
		}
		if err := e.store.SaveRun(run, records); err != nil {
			return nil, fmt.Errorf("cannot persist run %s: %w", result.RunID, err)
		}
	}

	if e.writer != nil && !e.cfg.SkipWriteBack {
		result.Writes = e.writer.WriteBatch(ctx, writeEntries(rated))
		if result.Writes.Failed > 0 {
			log.Printf("processor: %d metadata writes failed", result.Writes.Failed)
		}
	}

	stats.DurationMs = time.Since(start).Milliseconds()
	result.Stats = stats

	photosProcessed.Add(int64(len(rated)))
	batchesCompleted.Inc()
	batchDuration.Observe(time.Since(start).Seconds())

	if e.events != nil {
		err := e.events.Append(ctx, events.BatchCompleted{
			Base:      events.Base{Ts: time.Now(), Run: result.RunID},
			Directory: directory,
			Counts:    stats.counts(),
		})
		if err != nil {
			log.Printf("processor: audit append failed: %v", err)
		}
	}

	return result, nil
}

// classifyAll fans the jobs out to workers and blocks until every one
// has a result or the context is cancelled.
func (e *Engine) classifyAll(ctx context.Context, jobs []Job, thresholds models.ThresholdConfig, stats *BatchStats) ([]RatedPhoto, error) {
	jobCh := make(chan int)
	results := make([]RatedPhoto, len(jobs))
	clamped := make([]int, e.cfg.WorkerCount)

	var wg sync.WaitGroup
	for w := 0; w < e.cfg.WorkerCount; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range jobCh {
				job := jobs[i]
				m, adjusted := job.Metrics.Clamped()
				clamped[worker] += len(adjusted)
				m.NormalizedSharpness = sharpness.Normalize(m.RawSharpness, m.EffectivePixels, e.cfg.Mode)
				results[i] = RatedPhoto{
					Job:    Job{PhotoID: job.PhotoID, Path: job.Path, Metrics: m},
					Result: rating.Classify(m, thresholds),
				}
			}
		}(w)
	}

	var cancelled error
feed:
	for i := range jobs {
		select {
		case jobCh <- i:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(jobCh)
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("batch cancelled: %w", cancelled)
	}

	for _, c := range clamped {
		stats.ClampedFields += c
	}
	return results, nil
}

func (e *Engine) tally(stats *BatchStats, p *RatedPhoto) {
	switch p.Result.Rating {
	case models.RatingRejected:
		stats.Rejected++
	case models.RatingZero:
		stats.ZeroStar++
	case models.RatingOne:
		stats.OneStar++
	case models.RatingTwo:
		stats.TwoStar++
	case models.RatingThree:
		stats.ThreeStar++
	}
	if p.Picked {
		stats.Picked++
	}
	if p.Metrics.AestheticScore == nil {
		stats.MissingAesthetic++
	}
	if p.Metrics.TechnicalScore == nil {
		stats.MissingTechnical++
	}
}

func writeEntries(rated []RatedPhoto) []exifwriter.Entry {
	entries := make([]exifwriter.Entry, 0, len(rated))
	for _, p := range rated {
		if p.Path == "" {
			continue
		}
		pick := constants.PickFlagNone
		switch {
		case p.Picked:
			pick = constants.PickFlagPicked
		case p.Result.Rating == models.RatingRejected:
			pick = constants.PickFlagExcluded
		}
		s := p.Metrics.NormalizedSharpness
		entries = append(entries, exifwriter.Entry{
			Path:      p.Path,
			Rating:    p.Result.Rating,
			Pick:      pick,
			Sharpness: &s,
			Aesthetic: p.Metrics.AestheticScore,
			Technical: p.Metrics.TechnicalScore,
		})
	}
	return entries
}
