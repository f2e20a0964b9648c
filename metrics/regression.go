// Package metrics provides the regression statistics used to summarize
// holdout validation runs. The pairwise-complete functions treat NaN as a
// missing value and silently exclude incomplete pairs; the vector variants
// expect complete data and validate dimensions instead.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/treestat/allometry/pkg/errors"
)

// PairwiseComplete returns the pairs where both actual and predicted are
// present. A value is missing when it is NaN. Input order is preserved.
func PairwiseComplete(actual, predicted []float64) (a, p []float64, err error) {
	if len(actual) != len(predicted) {
		return nil, nil, errors.NewDimensionError("metrics.PairwiseComplete", len(actual), len(predicted), 0)
	}

	a = make([]float64, 0, len(actual))
	p = make([]float64, 0, len(predicted))
	for i := range actual {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		a = append(a, actual[i])
		p = append(p, predicted[i])
	}
	return a, p, nil
}

// R2 computes the squared Pearson correlation between actual and predicted
// values over the complete pairs only. It returns an InsufficientDataError
// when fewer than two complete pairs remain, and an error when either side
// has zero variance (the correlation is undefined there, for example when a
// model predicts the same value for every observation).
func R2(actual, predicted []float64) (float64, error) {
	a, p, err := PairwiseComplete(actual, predicted)
	if err != nil {
		return 0, err
	}
	if len(a) < 2 {
		return 0, errors.NewInsufficientDataError("metrics.R2", len(a), 2)
	}

	if stat.Variance(a, nil) == 0 {
		return 0, errors.Newf("metrics.R2: zero variance in actual values")
	}
	if stat.Variance(p, nil) == 0 {
		return 0, errors.Newf("metrics.R2: zero variance in predicted values")
	}

	r := stat.Correlation(a, p, nil)
	return r * r, nil
}

// RMSE computes the root mean squared error over the complete pairs only,
// with the same exclusion rule as R2. Fewer than two complete pairs is an
// InsufficientDataError so that a near-empty summary is reported as
// undefined rather than as a spurious number.
func RMSE(actual, predicted []float64) (float64, error) {
	a, p, err := PairwiseComplete(actual, predicted)
	if err != nil {
		return 0, err
	}
	if len(a) < 2 {
		return 0, errors.NewInsufficientDataError("metrics.RMSE", len(a), 2)
	}

	var sum float64
	for i := range a {
		diff := a[i] - p[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(a))), nil
}

// MSE computes the mean squared error of complete vectors.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// MAE computes the mean absolute error of complete vectors.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score computes the coefficient of determination 1 - RSS/TSS of complete
// vectors. Unlike R2 it measures fit against the mean rather than linear
// association, which is what a model's own Score method reports.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	return 1 - rss/tss, nil
}
