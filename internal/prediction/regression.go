package prediction

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"StockLens/internal/model"
)

// maxCondition bounds the condition number of the standardized design matrix.
const maxCondition = 1e10

// FittedModel is an ordinary least squares fit. It is not modified after Fit returns.
type FittedModel struct {
	Coefficients []float64 // one per feature, FeatureColumns order
	Intercept    float64
}

// Fit solves min ||y - Xw - b||² over the training rows.
//
// Columns are centred and scaled before a Householder QR solve and the
// solution is mapped back to raw units, so the fitted plane passes through
// the mean row. Rank-deficient or ill-conditioned inputs fail with
// *model.NumericalError instead of returning degenerate coefficients.
func Fit(x model.FeatureMatrix, y model.TargetVector) (*FittedModel, error) {
	n := len(x)
	if n != len(y) {
		return nil, fmt.Errorf("fit: %d feature rows but %d targets", n, len(y))
	}
	if n == 0 {
		return nil, &model.NumericalError{Reason: "no training rows"}
	}
	p := len(x[0])
	if n < p+1 {
		return nil, &model.NumericalError{Reason: fmt.Sprintf("%d training rows for %d features and an intercept", n, p)}
	}

	means := make([]float64, p)
	scales := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := range x {
			if len(x[i]) != p {
				return nil, fmt.Errorf("fit: row %d has %d features, want %d", i, len(x[i]), p)
			}
			col[i] = x[i][j]
		}
		means[j], scales[j] = stat.MeanStdDev(col, nil)
		if !(scales[j] > 0) {
			return nil, &model.NumericalError{Reason: fmt.Sprintf("feature %s has zero variance", featureName(j))}
		}
	}
	yMean := stat.Mean(y, nil)

	a := mat.NewDense(n, p, nil)
	b := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			a.Set(i, j, (x[i][j]-means[j])/scales[j])
		}
		b.Set(i, 0, y[i]-yMean)
	}

	var qr mat.QR
	qr.Factorize(a)
	if c := qr.Cond(); !(c <= maxCondition) {
		return nil, &model.NumericalError{Reason: fmt.Sprintf("collinear features (condition number %.3g)", c)}
	}
	var w mat.Dense
	if err := qr.SolveTo(&w, false, b); err != nil {
		return nil, &model.NumericalError{Reason: fmt.Sprintf("least squares solve: %v", err)}
	}

	m := &FittedModel{Coefficients: make([]float64, p), Intercept: yMean}
	for j := 0; j < p; j++ {
		m.Coefficients[j] = w.At(j, 0) / scales[j]
		m.Intercept -= m.Coefficients[j] * means[j]
	}
	return m, nil
}

// Predict applies the affine map to every row. Zero rows yield an empty vector.
func (m *FittedModel) Predict(x model.FeatureMatrix) model.TargetVector {
	out := make(model.TargetVector, len(x))
	for i, row := range x {
		v := m.Intercept
		for j, c := range m.Coefficients {
			v += c * row[j]
		}
		out[i] = v
	}
	return out
}

func featureName(j int) string {
	if j < len(model.FeatureColumns) {
		return model.FeatureColumns[j]
	}
	return fmt.Sprintf("#%d", j)
}
