// Package dataset reads and writes delimited price tables.
package dataset

import (
	"strconv"

	"StockLens/internal/model"
)

// Frame is a raw table: a header and string cells, in file order.
type Frame struct {
	Columns []string
	Records [][]string
}

// Shape returns the number of data rows and columns.
func (f *Frame) Shape() (rows, cols int) {
	return len(f.Records), len(f.Columns)
}

// HasColumn reports whether name is an exact header match.
func (f *Frame) HasColumn(name string) bool {
	return f.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of name, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of one column's cells. Short records yield empty cells.
func (f *Frame) Column(name string) ([]string, bool) {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(f.Records))
	for i, rec := range f.Records {
		if idx < len(rec) {
			out[i] = rec[idx]
		}
	}
	return out, true
}

// DropColumn returns a new frame without the named column.
func (f *Frame) DropColumn(name string) *Frame {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return f
	}
	out := &Frame{
		Columns: make([]string, 0, len(f.Columns)-1),
		Records: make([][]string, len(f.Records)),
	}
	out.Columns = append(out.Columns, f.Columns[:idx]...)
	out.Columns = append(out.Columns, f.Columns[idx+1:]...)
	for i, rec := range f.Records {
		row := make([]string, 0, len(out.Columns))
		for j, cell := range rec {
			if j != idx {
				row = append(row, cell)
			}
		}
		out.Records[i] = row
	}
	return out
}

// FromPrices builds a frame in the layout fetch writes: Date,Open,High,Low,Close[,Adj Close],Volume.
// The Adj Close column is emitted only when at least one row carries it.
func FromPrices(rows []model.PriceRow) *Frame {
	withAdj := false
	for _, r := range rows {
		if r.AdjClose != nil {
			withAdj = true
			break
		}
	}

	cols := []string{model.ColumnDate, model.ColumnOpen, model.ColumnHigh, model.ColumnLow, model.ColumnClose}
	if withAdj {
		cols = append(cols, model.ColumnAdjClose)
	}
	cols = append(cols, model.ColumnVolume)

	f := &Frame{Columns: cols, Records: make([][]string, len(rows))}
	for i, r := range rows {
		date := ""
		if r.HasDate {
			date = r.Date.Format("2006-01-02")
		}
		rec := []string{date, formatFloat(r.Open), formatFloat(r.High), formatFloat(r.Low), formatFloat(r.Close)}
		if withAdj {
			adj := ""
			if r.AdjClose != nil {
				adj = formatFloat(*r.AdjClose)
			}
			rec = append(rec, adj)
		}
		rec = append(rec, formatFloat(r.Volume))
		f.Records[i] = rec
	}
	return f
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
