// Package artifact persists prediction outputs: the comparison CSV and the two rank plots.
package artifact

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// Output file names.
const (
	ComparisonFile    = "prediction_comparison.csv"
	ActualPlotFile    = "actual_closing_price.png"
	PredictedPlotFile = "predicted_closing_price.png"
)

// Writer renders and writes all artifacts of one run.
type Writer struct {
	Logger *zap.Logger
	Style  PlotStyle
}

// NewWriter creates a Writer with the default plot style.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{Logger: logger, Style: DefaultPlotStyle()}
}

type pendingFile struct {
	path string
	data []byte
}

// Write renders everything in memory, then creates outputDir and writes the three files.
// If a write fails, files already written by this call are removed.
func (w *Writer) Write(outputDir string, table model.ComparisonTable) (*model.ArtifactPaths, error) {
	csvData, err := encodeComparison(table)
	if err != nil {
		return nil, fmt.Errorf("encode comparison: %w", err)
	}
	actualPNG, err := RenderRankPlot(w.Style, "Actual Closing Price", table.Actuals(), w.Style.ActualColor)
	if err != nil {
		return nil, fmt.Errorf("render actual plot: %w", err)
	}
	predictedPNG, err := RenderRankPlot(w.Style, "Predicted Closing Price", table.Predictions(), w.Style.PredictedColor)
	if err != nil {
		return nil, fmt.Errorf("render predicted plot: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := &model.ArtifactPaths{
		Comparison:    filepath.Join(outputDir, ComparisonFile),
		ActualPlot:    filepath.Join(outputDir, ActualPlotFile),
		PredictedPlot: filepath.Join(outputDir, PredictedPlotFile),
	}
	files := []pendingFile{
		{paths.Comparison, csvData},
		{paths.ActualPlot, actualPNG},
		{paths.PredictedPlot, predictedPNG},
	}
	for i, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			for _, done := range files[:i+1] {
				_ = os.Remove(done.path)
			}
			return nil, fmt.Errorf("write %s: %w", f.path, err)
		}
		w.Logger.Debug("artifact written", zap.String("path", f.path), zap.Int("bytes", len(f.data)))
	}
	return paths, nil
}

func encodeComparison(table model.ComparisonTable) ([]byte, error) {
	frame := &dataset.Frame{
		Columns: []string{"Actual", "Predicted"},
		Records: make([][]string, len(table)),
	}
	for i, row := range table {
		frame.Records[i] = []string{
			strconv.FormatFloat(row.Actual, 'f', -1, 64),
			strconv.FormatFloat(row.Predicted, 'f', -1, 64),
		}
	}
	var buf bytes.Buffer
	if err := dataset.Write(&buf, frame); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
