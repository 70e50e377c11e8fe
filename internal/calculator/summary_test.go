package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func TestSummarize_Basic(t *testing.T) {
	s, err := Summarize("Close", []float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7), s.Std, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
}

func TestSummarize_SkipsNonFinite(t *testing.T) {
	s, err := Summarize("Open", []float64{1, math.NaN(), 3, math.Inf(1)})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 2.0, s.Mean)
}

func TestSummarize_SingleValue(t *testing.T) {
	s, err := Summarize("Low", []float64{7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Mean)
	assert.Equal(t, 0.0, s.Std)
}

func TestSummarize_NoValues(t *testing.T) {
	_, err := Summarize("High", []float64{math.NaN()})
	assert.Error(t, err)
}

func TestSummarizeTable_ColumnOrder(t *testing.T) {
	table := model.Table{Rows: []model.PriceRow{
		{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Open: 3, High: 4, Low: 2.5, Close: 3.5, Volume: 300},
	}}
	got := SummarizeTable(table)
	require.Len(t, got, 5)
	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Open", "High", "Low", "Close", "Volume"}, names)
	assert.Equal(t, 200.0, got[4].Mean)

	assert.Empty(t, SummarizeTable(model.Table{}))
}
