package prediction

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// syntheticRows returns n realistic daily bars: a random walk for the price level,
// open/high/low around it and a close that is not an exact linear function of the rest.
func syntheticRows(n int, seed int64) [][]string {
	r := rand.New(rand.NewSource(seed))
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	level := 100.0
	out := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		level += r.NormFloat64()
		open := level + r.NormFloat64()*0.5
		high := math.Max(open, level) + math.Abs(r.NormFloat64())
		low := math.Min(open, level) - math.Abs(r.NormFloat64())
		cls := low + (high-low)*r.Float64()
		vol := 1e6 + r.Float64()*5e5
		out = append(out, []string{
			day.AddDate(0, 0, i).Format("2006-01-02"),
			fmt.Sprintf("%.4f", open),
			fmt.Sprintf("%.4f", high),
			fmt.Sprintf("%.4f", low),
			fmt.Sprintf("%.4f", cls),
			fmt.Sprintf("%.4f", cls*0.98),
			fmt.Sprintf("%.0f", vol),
		})
	}
	return out
}

const priceHeader = "Date,Open,High,Low,Close,Adj Close,Volume"

func csvText(header string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stock_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
