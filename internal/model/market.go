package model

import "time"

// Column names of the daily price table.
const (
	ColumnDate     = "Date"
	ColumnOpen     = "Open"
	ColumnHigh     = "High"
	ColumnLow      = "Low"
	ColumnClose    = "Close"
	ColumnAdjClose = "Adj Close"
	ColumnVolume   = "Volume"
)

// RequiredColumns must be present before any numeric work starts.
var RequiredColumns = []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnVolume, ColumnClose}

// FeatureColumns is the column order of every FeatureMatrix.
var FeatureColumns = []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnVolume}

// PriceRow represents one trading day.
type PriceRow struct {
	Date    time.Time
	HasDate bool
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Volume  float64
	// AdjClose is only populated by fetchers; cleaning discards it.
	AdjClose *float64
}

// Table holds price rows in load order.
type Table struct {
	Rows    []PriceRow
	HasDate bool
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }
