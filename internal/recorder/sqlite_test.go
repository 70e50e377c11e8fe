package recorder

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "stocklens.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RecordAndList(t *testing.T) {
	r := openTestRecorder(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first := &RunRecord{
		Symbol: "0050.TW", InputPath: "stock_data.csv", OutputDir: "result",
		Seed: 0, TestFraction: 0.25, R2Score: 0.987,
		Coefficients: []float64{0.1, 0.2, 0.3, 1e-7}, Intercept: 1.25,
		TrainRows: 75, TestRows: 25, RowsBeforeClean: 100, RowsAfterClean: 100,
		CreatedAt: base,
	}
	second := &RunRecord{
		Symbol: "TSLA", InputPath: "tsla.csv", OutputDir: "result/TSLA",
		R2Score: math.NaN(), Coefficients: []float64{1, 2, 3, 4},
		CreatedAt: base.Add(time.Hour),
	}
	require.NoError(t, r.RecordRun(first))
	require.NoError(t, r.RecordRun(second))
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	runs, err := r.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "TSLA", runs[0].Symbol, "newest first")
	assert.True(t, math.IsNaN(runs[0].R2Score))

	got := runs[1]
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, 0.987, got.R2Score)
	assert.Equal(t, first.Coefficients, got.Coefficients)
	assert.Equal(t, 25, got.TestRows)
	assert.True(t, base.Equal(got.CreatedAt))

	limited, err := r.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteRecorder_RecordFetch(t *testing.T) {
	r := openTestRecorder(t)
	require.NoError(t, r.RecordFetch(&FetchEvent{
		Symbol: "0050.TW", Source: "mock",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Rows:      23, OutputPath: "stock_data.csv",
	}))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT rows FROM fetch_events WHERE symbol = ?`, "0050.TW").Scan(&n))
	assert.Equal(t, 23, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&RunRecord{}))
	assert.NoError(t, r.RecordFetch(&FetchEvent{}))
	runs, err := r.ListRuns(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
