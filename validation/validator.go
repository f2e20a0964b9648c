package validation

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/treestat/allometry/dataset"
	"github.com/treestat/allometry/metrics"
	"github.com/treestat/allometry/pkg/errors"
	alog "github.com/treestat/allometry/pkg/log"
)

// ErrFitTimeout marks a delegated fit call that exceeded the configured
// per-fit timeout.
var ErrFitTimeout = errors.New("model fit timed out")

// Validate estimates out-of-sample accuracy of the model family produced by
// fit through leave-one-group-out holdout under the given group key. It is
// a pure function of its inputs apart from the delegated fit calls: the
// dataset is never mutated and each call returns a fresh Result.
//
// Exactly one PredictionRecord is produced per observation. Fit errors
// abort the run with the offending group key attached; individual
// prediction failures become missing values.
func Validate(ds *dataset.Dataset, group dataset.GroupFunc, fit FitFunc, opts ...Option) (*Result, error) {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	folds, err := LeaveOneGroupOut{}.Split(ds, group)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	slog.Debug("validation run started",
		alog.ComponentKey, "validation",
		alog.OperationKey, "validate",
		alog.SamplesKey, ds.Len(),
		alog.GroupsKey, len(folds),
	)

	perFold := make([][]PredictionRecord, len(folds))
	if o.workers <= 1 {
		for i, fold := range folds {
			perFold[i], err = processFold(ds, fold, fit, o.fitTimeout)
			if err != nil {
				return nil, err
			}
		}
	} else {
		foldErrs := make([]error, len(folds))
		sem := make(chan struct{}, o.workers)
		var wg sync.WaitGroup
		for i := range folds {
			wg.Add(1)
			sem <- struct{}{}
			go func(idx int) {
				defer wg.Done()
				defer func() { <-sem }()
				perFold[idx], foldErrs[idx] = processFold(ds, folds[idx], fit, o.fitTimeout)
			}(i)
		}
		wg.Wait()
		for _, ferr := range foldErrs {
			if ferr != nil {
				return nil, ferr
			}
		}
	}

	records := make([]PredictionRecord, 0, ds.Len())
	for _, recs := range perFold {
		records = append(records, recs...)
	}

	result := &Result{
		Records: records,
		Summary: Summarize(records),
	}

	slog.Info("validation run finished",
		alog.ComponentKey, "validation",
		alog.OperationKey, "validate",
		alog.GroupsKey, len(folds),
		alog.R2Key, result.Summary.R2,
		alog.RMSEKey, result.Summary.RMSE,
		alog.CompletePairsKey, result.Summary.CompletePairs,
		alog.MissingKey, result.Summary.MissingPredictions,
		alog.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return result, nil
}

// processFold fits on the fold's training partition and scores its held-out
// observations.
func processFold(ds *dataset.Dataset, fold Fold, fit FitFunc, fitTimeout time.Duration) ([]PredictionRecord, error) {
	train := ds.Subset(fold.TrainIndices)
	test := ds.Subset(fold.TestIndices)

	// The splitter guarantees at least two groups, so a non-empty holdout
	// always leaves training data. Checked anyway: a fit on zero rows would
	// surface as a confusing model error.
	if train.Len() == 0 {
		return nil, errors.NewDegenerateSplitError(fold.Group, 2, 0)
	}

	m, err := runFit(fit, train, fitTimeout)
	if err != nil {
		if errors.Is(err, ErrFitTimeout) {
			slog.Warn("fit timed out, recording group as missing",
				alog.ComponentKey, "validation",
				alog.GroupKey, fold.Group,
				alog.TrainSizeKey, train.Len(),
			)
			records := make([]PredictionRecord, 0, test.Len())
			for i := 0; i < test.Len(); i++ {
				obs := test.At(i)
				records = append(records, PredictionRecord{
					Group:     fold.Group,
					Actual:    obs.Response,
					Predicted: math.NaN(),
				})
			}
			return records, nil
		}
		return nil, errors.Wrapf(err, "validation: fit failed with group %q held out", fold.Group)
	}

	records := make([]PredictionRecord, 0, test.Len())
	for i := 0; i < test.Len(); i++ {
		obs := test.At(i)
		pred, perr := m.PredictObservation(obs)
		if perr != nil || math.IsNaN(pred) {
			if perr != nil {
				slog.Debug("prediction unavailable",
					alog.ComponentKey, "validation",
					alog.GroupKey, fold.Group,
					alog.ErrAttrKey, perr,
				)
			}
			pred = math.NaN()
		}
		records = append(records, PredictionRecord{
			Group:     fold.Group,
			Actual:    obs.Response,
			Predicted: pred,
		})
	}

	return records, nil
}

// runFit invokes the delegated fit call, converting panics to errors and
// enforcing the optional timeout.
func runFit(fit FitFunc, train *dataset.Dataset, timeout time.Duration) (Model, error) {
	if timeout <= 0 {
		return safeFit(fit, train)
	}

	type fitResult struct {
		m   Model
		err error
	}
	done := make(chan fitResult, 1)
	go func() {
		m, err := safeFit(fit, train)
		done <- fitResult{m: m, err: err}
	}()

	select {
	case res := <-done:
		return res.m, res.err
	case <-time.After(timeout):
		return nil, errors.WithStack(ErrFitTimeout)
	}
}

func safeFit(fit FitFunc, train *dataset.Dataset) (Model, error) {
	var m Model
	err := errors.SafeExecute("validation.fit", func() error {
		var ferr error
		m, ferr = fit(train)
		return ferr
	})
	return m, err
}

// Summarize computes the aggregate statistics over a full record
// collection. Records with a missing prediction are excluded pairwise; a
// statistic that cannot be computed is reported as NaN and surfaced through
// the warning handler rather than as an error.
func Summarize(records []PredictionRecord) Summary {
	actual := make([]float64, len(records))
	predicted := make([]float64, len(records))
	missing := 0
	for i, rec := range records {
		actual[i] = rec.Actual
		predicted[i] = rec.Predicted
		if rec.Missing() {
			missing++
		}
	}

	s := Summary{
		R2:                 math.NaN(),
		RMSE:               math.NaN(),
		CompletePairs:      len(records) - missing,
		MissingPredictions: missing,
	}

	if r2, err := metrics.R2(actual, predicted); err != nil {
		errors.Warn(errors.NewUndefinedMetricWarning("R2", err.Error()))
	} else {
		s.R2 = r2
	}

	if rmse, err := metrics.RMSE(actual, predicted); err != nil {
		errors.Warn(errors.NewUndefinedMetricWarning("RMSE", err.Error()))
	} else {
		s.RMSE = rmse
	}

	return s
}
