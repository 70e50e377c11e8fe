package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"StockLens/internal/model"
)

// Summary describes one numeric column.
type Summary struct {
	Name  string
	Count int // finite values only
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// Summarize computes count, mean, sample standard deviation, min and max over the finite values.
func Summarize(name string, values []float64) (Summary, error) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return Summary{Name: name}, errors.New("no finite values")
	}
	s := Summary{
		Name:  name,
		Count: len(finite),
		Min:   floats.Min(finite),
		Max:   floats.Max(finite),
	}
	if len(finite) == 1 {
		s.Mean = finite[0]
		return s, nil
	}
	s.Mean, s.Std = stat.MeanStdDev(finite, nil)
	return s, nil
}

// SummarizeTable summarizes the price columns of a cleaned table in a fixed order.
func SummarizeTable(t model.Table) []Summary {
	cols := map[string][]float64{}
	for _, r := range t.Rows {
		cols[model.ColumnOpen] = append(cols[model.ColumnOpen], r.Open)
		cols[model.ColumnHigh] = append(cols[model.ColumnHigh], r.High)
		cols[model.ColumnLow] = append(cols[model.ColumnLow], r.Low)
		cols[model.ColumnClose] = append(cols[model.ColumnClose], r.Close)
		cols[model.ColumnVolume] = append(cols[model.ColumnVolume], r.Volume)
	}
	var out []Summary
	for _, name := range []string{model.ColumnOpen, model.ColumnHigh, model.ColumnLow, model.ColumnClose, model.ColumnVolume} {
		if s, err := Summarize(name, cols[name]); err == nil {
			out = append(out, s)
		}
	}
	return out
}
