package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

// FormatPredictionReport formats one run's metrics into a Telegram message.
func FormatPredictionReport(symbol string, res *model.MetricsResult, at time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>StockLens</b> | %s | %s\n\n", html.EscapeString(symbol), at.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("R²: %s\n", formatR2(res.R2Score)))
	b.WriteString(fmt.Sprintf("Rows: %d cleaned of %d (train %d / test %d)\n",
		res.RowsAfterClean, res.RowsBeforeClean, res.TrainRows, res.TestRows))

	b.WriteString("\n<b>Coefficients:</b>\n")
	for i, c := range res.Coefficients {
		name := fmt.Sprintf("#%d", i)
		if i < len(model.FeatureColumns) {
			name = model.FeatureColumns[i]
		}
		b.WriteString(fmt.Sprintf("  %s: %+.6g\n", name, c))
	}
	b.WriteString(fmt.Sprintf("  Intercept: %+.6g\n", res.Intercept))

	if n := len(res.Predictions); n > 0 {
		last := n - 1
		b.WriteString(fmt.Sprintf("\nSample: actual %.2f, predicted %.2f\n", res.ActualValues[last], res.Predictions[last]))
	}
	return b.String()
}

// FormatFailure formats a failed stage for a Telegram message.
func FormatFailure(symbol, stage string, err error) string {
	return fmt.Sprintf("❌ <b>%s</b> %s failed: %s", html.EscapeString(symbol), stage, html.EscapeString(err.Error()))
}

// FormatHistory lists recorded runs, newest first.
func FormatHistory(runs []recorder.RunRecord) string {
	if len(runs) == 0 {
		return "No runs recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent runs</b>\n\n")
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s  %s  R² %s  (%d test rows)\n",
			r.CreatedAt.Format("2006-01-02 15:04"), html.EscapeString(r.Symbol), formatR2(r.R2Score), r.TestRows))
	}
	return b.String()
}

func formatR2(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return fmt.Sprintf("%.6f", v)
}
