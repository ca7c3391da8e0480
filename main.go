package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/joho/godotenv/autoload"

	"superpicky/internal/exifwriter"
	"superpicky/internal/httpapi"
	"superpicky/internal/models"
	"superpicky/internal/processor"
	"superpicky/internal/recompute"
	"superpicky/internal/report"
	"superpicky/internal/sharpness"
	"superpicky/pkg/config"
	"superpicky/pkg/events"
	"superpicky/pkg/health"
	"superpicky/pkg/logging"
	"superpicky/pkg/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "rate":
		err = runRate(cfg, os.Args[2:])
	case "recompute":
		err = runRecompute(cfg, os.Args[2:])
	case "serve":
		err = runServe(cfg, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: superpicky <command> [flags]

commands:
  rate       classify a batch of photo metrics, rank picks, persist and write back
  recompute  re-score a stored run under new thresholds
  serve      run the recompute preview HTTP API
`)
}

// metricsInput is the rate command's input format: the already-computed
// per-photo metrics from the detector and quality scorers.
type metricsInput struct {
	Directory string `json:"directory"`
	Photos    []struct {
		PhotoID string              `json:"photo_id"`
		Path    string              `json:"path,omitempty"`
		Metrics models.PhotoMetrics `json:"metrics"`
	} `json:"photos"`
}

func runRate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	input := fs.String("input", "", "metrics JSON file (required)")
	preset := fs.String("preset", "", "threshold preset name from the preset file")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("rate: -input is required")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		return fmt.Errorf("cannot read metrics file: %w", err)
	}
	var in metricsInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("invalid metrics file: %w", err)
	}

	thresholds, mode, err := resolveThresholds(cfg, *preset)
	if err != nil {
		return err
	}

	store, err := report.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	eventStore := openEventStore(store)

	var writer processor.MetadataWriter
	if !cfg.SkipWriteBack {
		w, werr := exifwriter.New()
		if werr != nil {
			return werr
		}
		defer w.Close()
		writer = w
	}

	pc := processor.DefaultConfig()
	pc.Mode = mode
	pc.SkipWriteBack = cfg.SkipWriteBack
	if cfg.WorkerCount > 0 {
		pc.WorkerCount = cfg.WorkerCount
	}

	engine := processor.New(pc, thresholds, store, writer, eventStore)

	jobs := make([]processor.Job, len(in.Photos))
	for i, p := range in.Photos {
		jobs[i] = processor.Job{PhotoID: p.PhotoID, Path: p.Path, Metrics: p.Metrics}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.ProcessBatch(ctx, in.Directory, jobs)
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(map[string]any{
		"run_id": result.RunID,
		"stats":  result.Stats,
		"writes": result.Writes,
	})
}

func runRecompute(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("recompute", flag.ExitOnError)
	runID := fs.String("run", "", "run id to re-score (required)")
	preset := fs.String("preset", "", "threshold preset name from the preset file")
	apply := fs.Bool("apply", false, "persist the new assignment instead of previewing")
	fs.Parse(args)

	if *runID == "" {
		return fmt.Errorf("recompute: -run is required")
	}

	thresholds, _, err := resolveThresholds(cfg, *preset)
	if err != nil {
		return err
	}

	store, err := report.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.LoadRun(*runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s not found or empty", *runID)
	}

	assignments, stats := recompute.Recompute(rows, thresholds)

	if *apply {
		if err := store.ApplyAssignments(*runID, assignments); err != nil {
			return err
		}
		if es := openEventStore(store); es != nil {
			raw, _ := json.Marshal(thresholds)
			_ = es.Append(context.Background(), events.RecomputeApplied{
				Base:       events.Base{Ts: time.Now(), Run: *runID},
				Thresholds: raw,
				Changed:    stats.Changed,
				Picked:     stats.New.Picked,
			})
		}
	}

	return json.NewEncoder(os.Stdout).Encode(map[string]any{
		"applied": *apply,
		"stats":   stats,
	})
}

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", cfg.Port, "listen port")
	fs.Parse(args)

	store, err := report.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	r := mux.NewRouter()
	r.Use(httpapi.MetricsMiddleware)
	httpapi.New(store, openEventStore(store)).Register(r)

	hm := health.NewManager()
	hm.Register(health.NewDatabaseChecker(store.DB()))
	if !cfg.SkipWriteBack {
		hm.Register(health.ExiftoolChecker{})
	}
	r.HandleFunc("/health", hm.Handler()).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("recompute API listening on :%s", *port)
		errCh <- srv.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openEventStore wires the audit trail into the report database.
// Audit is best effort: failure to open it never blocks a command.
func openEventStore(store *report.Store) events.Store {
	es, err := events.NewSQLEventStore(store.DB())
	if err != nil {
		log.Printf("audit store unavailable: %v", err)
		return nil
	}
	return es
}

// resolveThresholds applies an optional named preset over the
// env-derived configuration.
func resolveThresholds(cfg *config.Config, presetName string) (models.ThresholdConfig, sharpness.Mode, error) {
	thresholds := cfg.Thresholds
	mode := cfg.NormalizationMode

	if presetName == "" {
		return thresholds, mode, nil
	}
	if cfg.PresetPath == "" {
		return thresholds, mode, fmt.Errorf("preset %q requested but PRESET_PATH is not set", presetName)
	}

	presets, err := config.LoadPresets(cfg.PresetPath)
	if err != nil {
		return thresholds, mode, err
	}
	p, ok := presets[presetName]
	if !ok {
		return thresholds, mode, fmt.Errorf("preset %q not found in %s", presetName, cfg.PresetPath)
	}

	thresholds = p.Thresholds
	if p.Normalization != "" {
		if m, perr := sharpness.ParseMode(p.Normalization); perr == nil {
			mode = m
		}
	}
	return thresholds, mode, nil
}
