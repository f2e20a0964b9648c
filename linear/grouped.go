package linear

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/treestat/allometry/core/model"
	"github.com/treestat/allometry/dataset"
	"github.com/treestat/allometry/pkg/errors"
)

// UnseenPolicy controls what a GroupedRegression predicts for a species
// that never appeared in its training data.
type UnseenPolicy int

const (
	// UnseenMissing returns an UnseenLevelError; holdout validation records
	// the observation as a missing prediction.
	UnseenMissing UnseenPolicy = iota
	// UnseenPooled falls back to the population-level intercept (the mean
	// of the fitted species intercepts).
	UnseenPooled
)

// GroupedRegression is a varying-intercept linear regression: one intercept
// per species, slopes pooled across species. It is the deterministic
// stand-in for a hierarchical species model inside the validation loop, and
// the model whose holdout behavior depends on the unseen-species policy.
type GroupedRegression struct {
	model.BaseEstimator
	policy UnseenPolicy

	intercepts map[string]float64
	pooled     float64
	weights    []float64
	nFeatures  int
}

// NewGroupedRegression creates a varying-intercept regression. The default
// unseen-species policy is UnseenMissing.
func NewGroupedRegression(opts ...GroupedOption) *GroupedRegression {
	gr := &GroupedRegression{policy: UnseenMissing}
	for _, opt := range opts {
		opt(gr)
	}
	return gr
}

// Fit trains one intercept per species and pooled slopes on the dataset.
// The design matrix carries an indicator column per species level instead
// of a global intercept, so the species columns absorb the intercept role.
func (gr *GroupedRegression) Fit(ds *dataset.Dataset) error {
	n := ds.Len()
	if n == 0 {
		return errors.NewModelError("GroupedRegression.Fit", "empty dataset", errors.ErrEmptyData)
	}
	p := ds.NumPredictors()
	if p == 0 {
		return errors.NewValueError("GroupedRegression.Fit", "observations carry no predictors")
	}

	levels := ds.Groups(dataset.BySpecies)
	sort.Strings(levels)
	levelIdx := make(map[string]int, len(levels))
	for i, lv := range levels {
		levelIdx[lv] = i
	}

	cols := len(levels) + p
	design := mat.NewDense(n, cols, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		o := ds.At(i)
		if len(o.Predictors) != p {
			return errors.NewDimensionError("GroupedRegression.Fit", p, len(o.Predictors), 1)
		}
		design.Set(i, levelIdx[o.Species], 1.0)
		for j, v := range o.Predictors {
			design.Set(i, len(levels)+j, v)
		}
		y.Set(i, 0, o.Response)
	}

	sol, err := solveNormalEquations(design, y, "GroupedRegression.Fit")
	if err != nil {
		return err
	}

	gr.nFeatures = p
	gr.intercepts = make(map[string]float64, len(levels))
	var sum float64
	for i, lv := range levels {
		a := sol.AtVec(i)
		gr.intercepts[lv] = a
		sum += a
	}
	gr.pooled = sum / float64(len(levels))

	gr.weights = make([]float64, p)
	for j := 0; j < p; j++ {
		gr.weights[j] = sol.AtVec(len(levels) + j)
	}

	gr.SetFitted()

	return nil
}

// PredictObservation scores a single observation. For a species absent from
// training the result follows the configured UnseenPolicy.
func (gr *GroupedRegression) PredictObservation(o dataset.Observation) (float64, error) {
	if !gr.IsFitted() {
		return 0, errors.NewNotFittedError("GroupedRegression", "PredictObservation")
	}
	if len(o.Predictors) != gr.nFeatures {
		return 0, errors.NewDimensionError("GroupedRegression.PredictObservation", gr.nFeatures, len(o.Predictors), 1)
	}

	intercept, ok := gr.intercepts[o.Species]
	if !ok {
		if gr.policy == UnseenMissing {
			return 0, errors.NewUnseenLevelError("GroupedRegression", o.Species)
		}
		intercept = gr.pooled
	}

	pred := intercept
	for j, v := range o.Predictors {
		pred += v * gr.weights[j]
	}
	return pred, nil
}

// Levels returns the species levels seen during fitting, sorted.
func (gr *GroupedRegression) Levels() []string {
	levels := make([]string, 0, len(gr.intercepts))
	for lv := range gr.intercepts {
		levels = append(levels, lv)
	}
	sort.Strings(levels)
	return levels
}

// InterceptFor returns the fitted intercept for a species level.
func (gr *GroupedRegression) InterceptFor(level string) (float64, bool) {
	a, ok := gr.intercepts[level]
	return a, ok
}

// PooledIntercept returns the population-level intercept used by the
// UnseenPooled policy.
func (gr *GroupedRegression) PooledIntercept() float64 {
	return gr.pooled
}

// Weights returns the pooled slope coefficients.
func (gr *GroupedRegression) Weights() []float64 {
	weights := make([]float64, len(gr.weights))
	copy(weights, gr.weights)
	return weights
}
