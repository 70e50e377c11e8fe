package prediction

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"20060102",
}

// CleanResult is the cleaned table plus filtering diagnostics.
type CleanResult struct {
	Table          model.Table
	RowsBefore     int
	RowsAfter      int
	DroppedColumns []string
}

// Clean parses dates, drops Adj Close-like columns, coerces numeric columns to float64 and removes
// every row holding a non-finite value. The frame must already satisfy ValidateSchema.
func Clean(frame *dataset.Frame) (*CleanResult, error) {
	res := &CleanResult{RowsBefore: len(frame.Records)}

	var dates []time.Time
	var hasDate []bool
	if raw, ok := frame.Column(model.ColumnDate); ok {
		var err error
		dates, hasDate, err = parseDates(raw)
		if err != nil {
			return nil, err
		}
	}

	for _, col := range frame.Columns {
		if isAdjClose(col) {
			frame = frame.DropColumn(col)
			res.DroppedColumns = append(res.DroppedColumns, col)
		}
	}

	numeric := make(map[string][]float64, len(model.RequiredColumns))
	for _, col := range []string{model.ColumnVolume, model.ColumnOpen, model.ColumnHigh, model.ColumnLow, model.ColumnClose} {
		raw, _ := frame.Column(col)
		vals, err := coerceFloats(col, raw)
		if err != nil {
			return nil, err
		}
		numeric[col] = vals
	}

	res.Table.HasDate = dates != nil
	res.Table.Rows = make([]model.PriceRow, 0, len(frame.Records))
	for i := range frame.Records {
		row := model.PriceRow{
			Open:   numeric[model.ColumnOpen][i],
			High:   numeric[model.ColumnHigh][i],
			Low:    numeric[model.ColumnLow][i],
			Close:  numeric[model.ColumnClose][i],
			Volume: numeric[model.ColumnVolume][i],
		}
		if !finite(row.Open, row.High, row.Low, row.Close, row.Volume) {
			continue
		}
		if dates != nil {
			row.Date, row.HasDate = dates[i], hasDate[i]
		}
		res.Table.Rows = append(res.Table.Rows, row)
	}
	res.RowsAfter = len(res.Table.Rows)
	return res, nil
}

func parseDates(raw []string) ([]time.Time, []bool, error) {
	dates := make([]time.Time, len(raw))
	ok := make([]bool, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		t, err := parseDate(s)
		if err != nil {
			return nil, nil, &model.ParseError{Column: model.ColumnDate, Row: i + 1, Value: s, Err: err}
		}
		dates[i], ok[i] = t, true
	}
	return dates, ok, nil
}

func parseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// coerceFloats treats empty cells as NaN; NaN and Inf literals parse as themselves.
func coerceFloats(col string, raw []string) ([]float64, error) {
	out := make([]float64, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// ParseFloat returns ±Inf with ErrRange for overflowing literals; keep those as non-finite values.
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				out[i] = v
				continue
			}
			return nil, &model.TypeError{Column: col, Row: i + 1, Value: s, Err: err}
		}
		out[i] = v
	}
	return out, nil
}

func isAdjClose(col string) bool {
	var b strings.Builder
	for _, r := range col {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String() == "adjclose"
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
