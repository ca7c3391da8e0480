// Package events records an audit trail of scoring decisions: batch
// completions, recompute previews, and applied recomputes. Payloads
// stay small and JSON-friendly so history can be inspected without
// coupling to the report schema.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event is the base interface for run-level audit events.
type Event interface {
	Type() string
	RunID() string
	Timestamp() time.Time
	MarshalData() ([]byte, error)
}

// Base contains common event metadata.
type Base struct {
	Ts  time.Time `json:"ts"`
	Run string    `json:"run_id"`
}

func (b Base) Timestamp() time.Time { return b.Ts }
func (b Base) RunID() string        { return b.Run }

const (
	TypeBatchCompleted     = "photo.batch.completed"
	TypeRecomputePreviewed = "photo.recompute.previewed"
	TypeRecomputeApplied   = "photo.recompute.applied"
)

// BatchCompleted is emitted after a full rate-and-rank pass over a
// directory, with the resulting bucket tallies.
type BatchCompleted struct {
	Base
	Directory string         `json:"directory"`
	Counts    map[string]int `json:"counts"`
}

func (e BatchCompleted) Type() string                 { return TypeBatchCompleted }
func (e BatchCompleted) MarshalData() ([]byte, error) { return json.Marshal(e) }

// RecomputePreviewed is emitted when a stored run is re-scored under
// new thresholds without being applied.
type RecomputePreviewed struct {
	Base
	Thresholds json.RawMessage `json:"thresholds"`
	Changed    int             `json:"changed"`
}

func (e RecomputePreviewed) Type() string                 { return TypeRecomputePreviewed }
func (e RecomputePreviewed) MarshalData() ([]byte, error) { return json.Marshal(e) }

// RecomputeApplied is emitted when a recomputed assignment replaces
// the stored one.
type RecomputeApplied struct {
	Base
	Thresholds json.RawMessage `json:"thresholds"`
	Changed    int             `json:"changed"`
	Picked     int             `json:"picked"`
}

func (e RecomputeApplied) Type() string                 { return TypeRecomputeApplied }
func (e RecomputeApplied) MarshalData() ([]byte, error) { return json.Marshal(e) }

// Store defines append and listing. Appends are best effort at call
// sites: a failed audit write never fails the batch that produced it.
type Store interface {
	Append(ctx context.Context, ev ...Event) error
	ListByRun(ctx context.Context, runID string) ([]StoredEvent, error)
}

// StoredEvent is a durable representation. Seq is a monotonic order
// within the database.
type StoredEvent struct {
	Seq     int64           `json:"seq"`
	RunID   string          `json:"run_id"`
	Type    string          `json:"type"`
	Ts      time.Time       `json:"ts"`
	Payload json.RawMessage `json:"payload"`
}
