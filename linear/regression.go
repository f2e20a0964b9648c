// Package linear provides the ordinary-least-squares regression models used
// as fitting collaborators in group-holdout validation: a pooled model over
// the numeric predictors, and a varying-intercept model with one intercept
// per species.
package linear

import (
	"encoding/json"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/treestat/allometry/core/model"
	"github.com/treestat/allometry/core/parallel"
	"github.com/treestat/allometry/dataset"
	"github.com/treestat/allometry/metrics"
	"github.com/treestat/allometry/pkg/errors"
)

// Regression is a pooled linear regression fitted by the normal equations
// w = (X^T X)^(-1) X^T y.
type Regression struct {
	model.BaseEstimator
	fitIntercept bool

	weights   *mat.VecDense
	intercept float64
	nFeatures int
}

// NewRegression creates a pooled linear regression. The intercept is fitted
// by default.
func NewRegression(opts ...Option) *Regression {
	lr := &Regression{fitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit trains the model on a design matrix and a column-vector response.
func (lr *Regression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("Regression.Fit", "empty data", errors.ErrEmptyData)
	}

	if ry != r {
		return errors.NewDimensionError("Regression.Fit", r, ry, 0)
	}

	if cy != 1 {
		return errors.NewValueError("Regression.Fit", "y must be a column vector")
	}

	lr.nFeatures = c

	cols := c
	offset := 0
	if lr.fitIntercept {
		cols = c + 1
		offset = 1
	}

	design := mat.NewDense(r, cols, nil)

	// Sequential below this many rows; allometry surveys are usually small.
	const parallelThreshold = 1000

	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if lr.fitIntercept {
				design.Set(i, 0, 1.0)
			}
			for j := 0; j < c; j++ {
				design.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	sol, err := solveNormalEquations(design, y, "Regression.Fit")
	if err != nil {
		return err
	}

	if lr.fitIntercept {
		lr.intercept = sol.AtVec(0)
	} else {
		lr.intercept = 0
	}
	lr.weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.weights.SetVec(j, sol.AtVec(j+offset))
	}

	lr.SetFitted()

	return nil
}

// solveNormalEquations solves (X^T X) w = X^T y for the given design matrix
// and column-vector response.
func solveNormalEquations(design *mat.Dense, y mat.Matrix, op string) (*mat.VecDense, error) {
	r, cols := design.Dims()

	var xt mat.Dense
	xt.CloneFrom(design.T())

	var xtx mat.Dense
	xtx.Mul(&xt, design)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, errors.NewModelError(op, "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var xty mat.VecDense
	xty.MulVec(&xt, yVec)

	sol := mat.NewVecDense(cols, nil)
	sol.MulVec(&xtxInv, &xty)
	return sol, nil
}

// Predict returns predictions for a design matrix.
func (lr *Regression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("Regression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.nFeatures {
		return nil, errors.NewDimensionError("Regression.Predict", lr.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)

	for i := 0; i < r; i++ {
		pred := lr.intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// FitDataset trains the model on a dataset's predictors and response.
func (lr *Regression) FitDataset(ds *dataset.Dataset) error {
	X, y, err := designFromDataset(ds, "Regression.FitDataset")
	if err != nil {
		return err
	}
	return lr.Fit(X, y)
}

// PredictObservation scores a single observation.
func (lr *Regression) PredictObservation(o dataset.Observation) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("Regression", "PredictObservation")
	}
	if len(o.Predictors) != lr.nFeatures {
		return 0, errors.NewDimensionError("Regression.PredictObservation", lr.nFeatures, len(o.Predictors), 1)
	}

	pred := lr.intercept
	for j, v := range o.Predictors {
		pred += v * lr.weights.AtVec(j)
	}
	return pred, nil
}

// Weights returns the fitted coefficients.
func (lr *Regression) Weights() []float64 {
	if lr.weights == nil {
		return nil
	}

	weights := make([]float64, lr.weights.Len())
	for i := 0; i < lr.weights.Len(); i++ {
		weights[i] = lr.weights.AtVec(i)
	}
	return weights
}

// Intercept returns the fitted intercept.
func (lr *Regression) Intercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.intercept
}

// Score returns the coefficient of determination R² on the given data.
func (lr *Regression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("Regression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	yTrueVec := mat.NewVecDense(r, nil)
	yPredVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yTrueVec.SetVec(i, y.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	return metrics.R2Score(yTrueVec, yPredVec)
}

// designFromDataset builds the design matrix and response vector from a
// dataset, checking that every observation carries the same predictor count.
func designFromDataset(ds *dataset.Dataset, op string) (*mat.Dense, *mat.Dense, error) {
	n := ds.Len()
	if n == 0 {
		return nil, nil, errors.NewModelError(op, "empty dataset", errors.ErrEmptyData)
	}
	p := ds.NumPredictors()
	if p == 0 {
		return nil, nil, errors.NewValueError(op, "observations carry no predictors")
	}

	X := mat.NewDense(n, p, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		o := ds.At(i)
		if len(o.Predictors) != p {
			return nil, nil, errors.NewDimensionError(op, p, len(o.Predictors), 1)
		}
		for j, v := range o.Predictors {
			X.Set(i, j, v)
		}
		y.Set(i, 0, o.Response)
	}
	return X, y, nil
}

// regressionParams is the JSON shape of a fitted pooled regression.
type regressionParams struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
	NFeatures int       `json:"n_features"`
}

// Export writes the fitted parameters as JSON.
func (lr *Regression) Export(w io.Writer) error {
	if !lr.IsFitted() {
		return errors.NewNotFittedError("Regression", "Export")
	}

	params := regressionParams{
		Weights:   lr.Weights(),
		Intercept: lr.intercept,
		NFeatures: lr.nFeatures,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&params); err != nil {
		return errors.Wrap(err, "Regression.Export")
	}
	return nil
}

// ExportFile writes the fitted parameters to a JSON file.
func (lr *Regression) ExportFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "Regression.ExportFile")
	}
	defer f.Close()

	return lr.Export(f)
}

// Import restores fitted parameters from JSON produced by Export.
func (lr *Regression) Import(r io.Reader) error {
	var params regressionParams
	if err := json.NewDecoder(r).Decode(&params); err != nil {
		return errors.Wrap(err, "Regression.Import")
	}
	if len(params.Weights) == 0 {
		return errors.NewValueError("Regression.Import", "no weights in parameters")
	}
	if params.NFeatures != len(params.Weights) {
		return errors.NewDimensionError("Regression.Import", params.NFeatures, len(params.Weights), 1)
	}

	lr.nFeatures = params.NFeatures
	lr.intercept = params.Intercept
	lr.weights = mat.NewVecDense(len(params.Weights), params.Weights)
	lr.SetFitted()
	return nil
}

// ImportFile restores fitted parameters from a JSON file.
func (lr *Regression) ImportFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "Regression.ImportFile")
	}
	defer f.Close()

	return lr.Import(f)
}
