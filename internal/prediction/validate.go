// Package prediction fits a linear model of the closing price on same-day open, high, low and volume.
package prediction

import (
	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// ValidateSchema fails with *model.SchemaError naming every required column absent from frame.
// With no required columns given it checks model.RequiredColumns.
func ValidateSchema(frame *dataset.Frame, required ...string) error {
	if len(required) == 0 {
		required = model.RequiredColumns
	}
	var missing []string
	for _, col := range required {
		if !frame.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &model.SchemaError{Missing: missing}
	}
	return nil
}
