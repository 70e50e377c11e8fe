package model

// FeatureMatrix rows follow FeatureColumns order.
type FeatureMatrix [][]float64

// TargetVector holds closing prices aligned with a FeatureMatrix.
type TargetVector []float64

// SplitResult partitions aligned features and targets into train and test subsets.
// TrainIndex and TestIndex point back into the unsplit rows.
type SplitResult struct {
	TrainX     FeatureMatrix
	TrainY     TargetVector
	TestX      FeatureMatrix
	TestY      TargetVector
	TrainIndex []int
	TestIndex  []int
}

// Comparison pairs one test row's actual and predicted close.
type Comparison struct {
	Actual    float64
	Predicted float64
}

// ComparisonTable keeps the test subset's row order.
type ComparisonTable []Comparison

// Actuals returns the actual column.
func (c ComparisonTable) Actuals() []float64 {
	out := make([]float64, len(c))
	for i, row := range c {
		out[i] = row.Actual
	}
	return out
}

// Predictions returns the predicted column.
func (c ComparisonTable) Predictions() []float64 {
	out := make([]float64, len(c))
	for i, row := range c {
		out[i] = row.Predicted
	}
	return out
}

// ArtifactPaths lists the files written by one pipeline run.
type ArtifactPaths struct {
	Comparison    string
	ActualPlot    string
	PredictedPlot string
}

// MetricsResult is the outcome of one prediction run.
type MetricsResult struct {
	R2Score      float64 // NaN when the test target has zero variance
	Coefficients []float64
	Intercept    float64
	Predictions  []float64
	ActualValues []float64

	TrainRows       int
	TestRows        int
	RowsBeforeClean int
	RowsAfterClean  int
	Artifacts       ArtifactPaths
}
