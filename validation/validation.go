// Package validation implements leave-one-group-out holdout validation for
// allometric regression models. Each distinct group (species, geographic
// cell) is held out in turn, a model is fitted to the remaining
// observations, and the held-out group's predictions are accumulated into a
// single collection summarized by pairwise-complete R² and RMSE.
package validation

import (
	"math"

	"github.com/treestat/allometry/dataset"
)

// Model is a fitted regression able to score single observations. A
// prediction may be unavailable (an unseen species level, for example);
// such failures are recorded as missing values and never abort a run.
type Model interface {
	PredictObservation(o dataset.Observation) (float64, error)
}

// FitFunc fits a model to a training dataset. It is the delegated
// model-fitting collaborator: errors it returns are treated as fatal for
// the whole run, since a fit that fails for one holdout indicates a data or
// specification problem likely to affect every holdout.
type FitFunc func(train *dataset.Dataset) (Model, error)

// PredictionRecord pairs one held-out observation's actual response with
// the prediction made by a model that never saw its group. Predicted is NaN
// when the prediction was unavailable.
type PredictionRecord struct {
	Group     string
	Actual    float64
	Predicted float64
}

// Missing reports whether the record's prediction is unavailable.
func (r PredictionRecord) Missing() bool {
	return math.IsNaN(r.Predicted)
}

// Summary holds the aggregate accuracy statistics of a validation run,
// computed over complete prediction pairs only. R2 and RMSE are NaN when
// undefined (fewer than two complete pairs, or zero variance on either
// side of the R² correlation).
type Summary struct {
	R2                 float64
	RMSE               float64
	CompletePairs      int
	MissingPredictions int
}

// Defined reports whether both summary statistics could be computed.
func (s Summary) Defined() bool {
	return !math.IsNaN(s.R2) && !math.IsNaN(s.RMSE)
}

// Result is the complete outcome of a validation run: one record per
// observation in the input dataset, plus the aggregate summary.
type Result struct {
	Records []PredictionRecord
	Summary Summary
}

// Actuals returns the actual response values in record order.
func (r *Result) Actuals() []float64 {
	vals := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		vals[i] = rec.Actual
	}
	return vals
}

// Predictions returns the predicted values in record order, NaN for
// missing predictions.
func (r *Result) Predictions() []float64 {
	vals := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		vals[i] = rec.Predicted
	}
	return vals
}
