package prediction

import (
	"fmt"
	"math"
	"math/rand"

	"StockLens/internal/model"
)

// DefaultTestFraction is the share of rows held out for evaluation.
const DefaultTestFraction = 0.25

// Partition derives the aligned feature matrix and target vector from a cleaned table.
func Partition(t model.Table) (model.FeatureMatrix, model.TargetVector) {
	x := make(model.FeatureMatrix, len(t.Rows))
	y := make(model.TargetVector, len(t.Rows))
	for i, r := range t.Rows {
		x[i] = []float64{r.Open, r.High, r.Low, r.Volume}
		y[i] = r.Close
	}
	return x, y
}

// TestSize returns ceil(fraction*n), the number of held-out rows.
func TestSize(n int, fraction float64) int {
	return int(math.Ceil(fraction * float64(n)))
}

// Split assigns rows to train and test with a seeded Fisher-Yates permutation.
// The first TestSize permuted indices form the test set, the rest the train set, both in permuted order.
func Split(x model.FeatureMatrix, y model.TargetVector, testFraction float64, seed int64) (*model.SplitResult, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("split: %d feature rows but %d targets", len(x), len(y))
	}
	if !(testFraction > 0 && testFraction < 1) {
		return nil, fmt.Errorf("split: test fraction %v not in (0, 1)", testFraction)
	}
	n := len(x)
	nTest := TestSize(n, testFraction)
	nTrain := n - nTest
	if nTest == 0 || nTrain == 0 {
		return nil, fmt.Errorf("split: %d rows cannot be split with test fraction %v", n, testFraction)
	}

	perm := permutation(n, seed)
	res := &model.SplitResult{
		TestIndex:  perm[:nTest],
		TrainIndex: perm[nTest:],
		TestX:      make(model.FeatureMatrix, nTest),
		TestY:      make(model.TargetVector, nTest),
		TrainX:     make(model.FeatureMatrix, nTrain),
		TrainY:     make(model.TargetVector, nTrain),
	}
	for i, idx := range res.TestIndex {
		res.TestX[i], res.TestY[i] = x[idx], y[idx]
	}
	for i, idx := range res.TrainIndex {
		res.TrainX[i], res.TrainY[i] = x[idx], y[idx]
	}
	return res, nil
}

func permutation(n int, seed int64) []int {
	r := rand.New(rand.NewSource(seed))
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
