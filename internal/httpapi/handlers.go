// Package httpapi exposes the recompute preview surface: list stored
// runs, preview a re-scoring under new thresholds, and apply one.
// Preview never writes; apply updates the report store and emits an
// audit event. The UI driving these endpoints lives elsewhere.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"superpicky/internal/models"
	"superpicky/internal/recompute"
	"superpicky/internal/report"
	"superpicky/pkg/events"
)

// RunStore is the slice of the report store the API needs.
type RunStore interface {
	ListRuns() ([]report.Run, error)
	GetRun(runID string) (*report.Run, error)
	LoadRun(runID string) ([]report.Row, error)
	ApplyAssignments(runID string, assignments []report.Assignment) error
}

// Handlers serves the recompute API.
type Handlers struct {
	store  RunStore
	events events.Store
}

// New creates the handler set. The event store may be nil.
func New(store RunStore, es events.Store) *Handlers {
	return &Handlers{store: store, events: es}
}

// Register mounts the API routes on r.
func (h *Handlers) Register(r *mux.Router) {
	r.HandleFunc("/api/runs", h.ListRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}", h.GetRun).Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}/preview", h.PreviewRecompute).Methods(http.MethodPost)
	r.HandleFunc("/api/runs/{id}/apply", h.ApplyRecompute).Methods(http.MethodPost)
}

func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns()
	if err != nil {
		log.Printf("httpapi: list runs: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot list runs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]
	run, err := h.store.GetRun(runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		log.Printf("httpapi: get run %s: %v", runID, err)
		writeError(w, http.StatusInternalServerError, "cannot load run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// PreviewRecompute re-scores a stored run under the posted thresholds
// and returns the proposed assignments plus diff statistics, without
// persisting anything.
func (h *Handlers) PreviewRecompute(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	cfg, raw, ok := h.decodeThresholds(w, r)
	if !ok {
		return
	}

	rows, err := h.loadRows(w, runID)
	if err != nil {
		return
	}

	assignments, stats := recompute.Recompute(rows, cfg)

	h.audit(r.Context(), events.RecomputePreviewed{
		Base:       events.Base{Ts: time.Now(), Run: runID},
		Thresholds: raw,
		Changed:    stats.Changed,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"assignments": assignments,
		"stats":       stats,
	})
}

// ApplyRecompute persists a recomputed assignment to the report store.
// The metadata write-back is a separate step the caller runs against
// the files themselves.
func (h *Handlers) ApplyRecompute(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	cfg, raw, ok := h.decodeThresholds(w, r)
	if !ok {
		return
	}

	rows, err := h.loadRows(w, runID)
	if err != nil {
		return
	}

	assignments, stats := recompute.Recompute(rows, cfg)

	if err := h.store.ApplyAssignments(runID, assignments); err != nil {
		log.Printf("httpapi: apply run %s: %v", runID, err)
		writeError(w, http.StatusInternalServerError, "cannot apply assignments")
		return
	}

	h.audit(r.Context(), events.RecomputeApplied{
		Base:       events.Base{Ts: time.Now(), Run: runID},
		Thresholds: raw,
		Changed:    stats.Changed,
		Picked:     stats.New.Picked,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "applied",
		"stats":  stats,
	})
}

func (h *Handlers) decodeThresholds(w http.ResponseWriter, r *http.Request) (models.ThresholdConfig, json.RawMessage, bool) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return models.ThresholdConfig{}, nil, false
	}
	cfg := models.DefaultThresholds()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid threshold config")
		return models.ThresholdConfig{}, nil, false
	}
	if cfg.PickedTopPercentage <= 0 || cfg.PickedTopPercentage > 100 {
		writeError(w, http.StatusBadRequest, "picked_top_percentage must be in (0,100]")
		return models.ThresholdConfig{}, nil, false
	}
	return cfg, raw, true
}

func (h *Handlers) loadRows(w http.ResponseWriter, runID string) ([]report.Row, error) {
	rows, err := h.store.LoadRun(runID)
	if err != nil {
		log.Printf("httpapi: load run %s: %v", runID, err)
		writeError(w, http.StatusInternalServerError, "cannot load run")
		return nil, err
	}
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "run not found or empty")
		return nil, errors.New("empty run")
	}
	return rows, nil
}

func (h *Handlers) audit(ctx context.Context, ev events.Event) {
	if h.events == nil {
		return
	}
	if err := h.events.Append(ctx, ev); err != nil {
		log.Printf("httpapi: audit append failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("httpapi: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
