package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superpicky/internal/models"
)

func float64Ptr(v float64) *float64 { return &v }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecords() []Record {
	return []Record{
		{
			PhotoID: "DSC_0001",
			Metrics: models.PhotoMetrics{
				FoundSubject:        true,
				Confidence:          0.93,
				AreaRatio:           0.18,
				CenterX:             0.52,
				CenterY:             0.47,
				RawSharpness:        812.4,
				EffectivePixels:     66000,
				NormalizedSharpness: 8125,
				AestheticScore:      float64Ptr(5.1),
				TechnicalScore:      float64Ptr(22.3),
			},
			Result: models.RatingResult{Rating: models.RatingThree, Reason: models.ReasonBothAxes, Promotable: true},
			Picked: true,
		},
		{
			PhotoID: "DSC_0002",
			Metrics: models.PhotoMetrics{
				FoundSubject:        true,
				Confidence:          0.71,
				NormalizedSharpness: 4500,
			},
			Result: models.RatingResult{Rating: models.RatingOne, Reason: models.ReasonOrdinary},
		},
		{
			PhotoID: "DSC_0003",
			Metrics: models.PhotoMetrics{FoundSubject: false},
			Result:  models.RatingResult{Rating: models.RatingRejected, Reason: models.ReasonNoSubject},
		},
	}
}

func TestStore_SaveAndLoadRun(t *testing.T) {
	store := openTestStore(t)

	run := Run{
		ID:        "run-1",
		Directory: "/photos/2026-08-29",
		CreatedAt: time.Date(2026, 8, 29, 19, 4, 0, 0, time.UTC),
		Mode:      "log_compression",
	}
	require.NoError(t, store.SaveRun(run, sampleRecords()))

	rows, err := store.LoadRun("run-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// LoadRun orders by photo id.
	assert.Equal(t, "DSC_0001", rows[0].PhotoID)
	assert.Equal(t, "DSC_0002", rows[1].PhotoID)
	assert.Equal(t, "DSC_0003", rows[2].PhotoID)

	first := rows[0]
	require.NotNil(t, first.FoundSubject)
	assert.True(t, *first.FoundSubject)
	require.NotNil(t, first.Confidence)
	assert.InDelta(t, 0.93, *first.Confidence, 1e-9)
	require.NotNil(t, first.NormalizedSharpness)
	assert.InDelta(t, 8125, *first.NormalizedSharpness, 1e-9)
	require.NotNil(t, first.AestheticScore)
	assert.InDelta(t, 5.1, *first.AestheticScore, 1e-9)
	require.NotNil(t, first.Rating)
	assert.EqualValues(t, models.RatingThree, *first.Rating)
	assert.Equal(t, string(models.ReasonBothAxes), first.Reason)
	assert.True(t, first.Picked)

	// Absent optional scores come back as NULLs, not zeros.
	second := rows[1]
	assert.Nil(t, second.AestheticScore)
	assert.Nil(t, second.TechnicalScore)
	assert.False(t, second.Picked)
}

func TestStore_GetAndListRuns(t *testing.T) {
	store := openTestStore(t)

	older := Run{ID: "run-old", Directory: "/photos/a", CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), Mode: "none"}
	newer := Run{ID: "run-new", Directory: "/photos/b", CreatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), Mode: "sqrt"}
	require.NoError(t, store.SaveRun(older, sampleRecords()[:1]))
	require.NoError(t, store.SaveRun(newer, sampleRecords()))

	got, err := store.GetRun("run-new")
	require.NoError(t, err)
	assert.Equal(t, "/photos/b", got.Directory)
	assert.Equal(t, "sqrt", got.Mode)
	assert.Equal(t, 3, got.PhotoCount)
	assert.True(t, got.CreatedAt.Equal(newer.CreatedAt))

	runs, err := store.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)

	_, err = store.GetRun("missing")
	assert.Error(t, err)
}

func TestStore_ApplyAssignments(t *testing.T) {
	store := openTestStore(t)

	run := Run{ID: "run-1", Directory: "/photos", CreatedAt: time.Now().UTC(), Mode: "none"}
	require.NoError(t, store.SaveRun(run, sampleRecords()))

	assignments := []Assignment{
		{PhotoID: "DSC_0001", Rating: models.RatingTwo, Reason: models.ReasonOneAxis, Picked: false},
		{PhotoID: "DSC_0002", Rating: models.RatingThree, Reason: models.ReasonBothAxes, Picked: true},
	}
	require.NoError(t, store.ApplyAssignments("run-1", assignments))

	rows, err := store.LoadRun("run-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.NotNil(t, rows[0].Rating)
	assert.EqualValues(t, models.RatingTwo, *rows[0].Rating)
	assert.False(t, rows[0].Picked)
	require.NotNil(t, rows[1].Rating)
	assert.EqualValues(t, models.RatingThree, *rows[1].Rating)
	assert.True(t, rows[1].Picked)

	// Metric columns survive the update untouched.
	assert.InDelta(t, 0.93, *rows[0].Confidence, 1e-9)
	assert.InDelta(t, 8125, *rows[0].NormalizedSharpness, 1e-9)

	// Untouched row keeps its stored assignment.
	assert.EqualValues(t, models.RatingRejected, *rows[2].Rating)
}

func TestStore_SaveRunIsReplayable(t *testing.T) {
	store := openTestStore(t)

	run := Run{ID: "run-1", Directory: "/photos", CreatedAt: time.Now().UTC(), Mode: "none"}
	require.NoError(t, store.SaveRun(run, sampleRecords()))
	require.NoError(t, store.SaveRun(run, sampleRecords()))

	rows, err := store.LoadRun("run-1")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
