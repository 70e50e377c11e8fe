package prediction

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"StockLens/internal/model"
)

func linearData(n int, noise float64) (model.FeatureMatrix, model.TargetVector) {
	r := rand.New(rand.NewSource(3))
	x := make(model.FeatureMatrix, n)
	y := make(model.TargetVector, n)
	for i := 0; i < n; i++ {
		open := 100 + r.Float64()*20
		high := open + r.Float64()*3
		low := open - r.Float64()*3
		vol := 1e6 + r.Float64()*4e5
		x[i] = []float64{open, high, low, vol}
		y[i] = 0.4*open + 0.35*high + 0.25*low + 2e-6*vol + 1.5 + noise*r.NormFloat64()
	}
	return x, y
}

func TestFit_RecoversExactPlane(t *testing.T) {
	x, y := linearData(80, 0)
	m, err := Fit(x, y)
	require.NoError(t, err)

	want := []float64{0.4, 0.35, 0.25, 2e-6}
	for j, w := range want {
		assert.InDelta(t, w, m.Coefficients[j], 1e-8, "coefficient %d", j)
	}
	assert.InDelta(t, 1.5, m.Intercept, 1e-6)

	got := m.Predict(x)
	for i := range y {
		assert.InDelta(t, y[i], got[i], 1e-8)
	}
}

func TestFit_PassesThroughMeanRow(t *testing.T) {
	x, y := linearData(60, 0.8)
	m, err := Fit(x, y)
	require.NoError(t, err)

	mean := make([][]float64, 1)
	mean[0] = make([]float64, 4)
	col := make([]float64, len(x))
	for j := 0; j < 4; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		mean[0][j] = stat.Mean(col, nil)
	}
	assert.InDelta(t, stat.Mean(y, nil), m.Predict(mean)[0], 1e-6)
}

func TestFit_TooFewRows(t *testing.T) {
	x, y := linearData(4, 0)
	_, err := Fit(x, y)
	var ne *model.NumericalError
	require.ErrorAs(t, err, &ne)

	_, err = Fit(nil, nil)
	require.ErrorAs(t, err, &ne)
}

func TestFit_CollinearFeatures(t *testing.T) {
	x, y := linearData(40, 0.5)
	for i := range x {
		x[i][1] = 2 * x[i][0]
	}
	_, err := Fit(x, y)
	var ne *model.NumericalError
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, ne.Error(), "collinear")
}

func TestFit_ZeroVarianceFeature(t *testing.T) {
	x, y := linearData(40, 0.5)
	for i := range x {
		x[i][3] = 5
	}
	_, err := Fit(x, y)
	var ne *model.NumericalError
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, ne.Error(), "Volume")
}

func TestFit_LengthMismatch(t *testing.T) {
	x, y := linearData(20, 0)
	_, err := Fit(x, y[:10])
	assert.Error(t, err)
}

func TestPredict_ZeroRows(t *testing.T) {
	m := &FittedModel{Coefficients: []float64{1, 1, 1, 1}, Intercept: 2}
	out := m.Predict(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
