package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on the given design matrix and response.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that predict from a design matrix.
type Predictor interface {
	// Predict returns predictions for the given design matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can score themselves.
type Scorer interface {
	// Score returns the coefficient of determination R² of the prediction.
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces a regression model satisfies.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// LinearModel is the interface for models with linear coefficients.
type LinearModel interface {
	// Weights returns the fitted coefficients.
	Weights() []float64
	// Intercept returns the fitted intercept.
	Intercept() float64
}
