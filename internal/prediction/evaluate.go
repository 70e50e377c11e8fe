package prediction

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"StockLens/internal/model"
)

// Score returns the coefficient of determination of m on (x, y).
// A constant y leaves R² undefined and yields NaN.
func Score(m *FittedModel, x model.FeatureMatrix, y model.TargetVector) float64 {
	return RSquared(y, m.Predict(x))
}

// RSquared computes 1 - SSres/SStot about the mean of actual.
func RSquared(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return math.NaN()
	}
	if constant(actual) {
		return math.NaN()
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}

// Compare pairs actual and predicted values without reordering them.
func Compare(actual, predicted []float64) model.ComparisonTable {
	out := make(model.ComparisonTable, len(actual))
	for i := range actual {
		out[i] = model.Comparison{Actual: actual[i], Predicted: predicted[i]}
	}
	return out
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}
