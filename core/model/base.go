package model

// EstimatorState tracks whether a model has been fitted.
type EstimatorState int

const (
	// NotFitted means the model has not been trained yet.
	NotFitted EstimatorState = iota
	// Fitted means the model has been trained.
	Fitted
)

// BaseEstimator is embedded by every regression model to carry its
// fitted state.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the model to its unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
