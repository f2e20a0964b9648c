// Package log defines standard attribute keys for validation runs.
//
// Using these keys consistently keeps holdout logs filterable: every fit,
// predict, and summary record names its group and data shape the same way.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the regression model being fitted.
	// Examples: "Regression", "GroupedRegression"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "validate", "summary"
	OperationKey = "op"

	// ComponentKey identifies the package performing the operation.
	// Examples: "validation", "linear", "metrics"
	ComponentKey = "component"
)

// Holdout context.
const (
	// GroupKey names the group currently held out.
	GroupKey = "holdout.group"

	// GroupsKey is the number of distinct groups in the dataset.
	GroupsKey = "holdout.groups"

	// TrainSizeKey is the number of training observations for a split.
	TrainSizeKey = "holdout.train_size"

	// TestSizeKey is the number of held-out observations for a split.
	TestSizeKey = "holdout.test_size"
)

// Data shape.
const (
	// SamplesKey is the number of observations in a dataset.
	SamplesKey = "data.samples"

	// PredictorsKey is the number of predictor variables per observation.
	PredictorsKey = "data.predictors"
)

// Summary statistics.
const (
	// R2Key is the squared Pearson correlation of actual vs predicted.
	R2Key = "summary.r2"

	// RMSEKey is the root mean squared error of actual vs predicted.
	RMSEKey = "summary.rmse"

	// CompletePairsKey counts prediction pairs with both values present.
	CompletePairsKey = "summary.complete_pairs"

	// MissingKey counts observations whose prediction was unavailable.
	MissingKey = "summary.missing"

	// DurationMsKey is elapsed wall time in milliseconds.
	DurationMsKey = "duration_ms"
)
