// Package errors provides error handling and the warning system used across
// the allometry library. Errors are structured types carrying the context a
// caller needs to diagnose a failed validation run (offending group key,
// expected dimensions, and so on), with stack traces attached via
// cockroachdb/errors.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to standard error.
		log.Printf("allometry-warning: %v\n", w)
	}
	// zerolog sink, set lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the library-wide warning handler. Use it to control
// how recoverable conditions such as UndefinedMetricWarning are surfaced.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc routes warnings through a zerolog-backed sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. When a zerolog sink is configured it takes priority;
// otherwise the plain handler is used.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// UndefinedMetricWarning is emitted when a summary statistic cannot be
// computed, for example R² over fewer than two complete prediction pairs or
// over predictions with zero variance.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is undefined due to %s and is reported as NaN", w.Metric, w.Condition)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// DegenerateSplitError reports a group-holdout partition whose training side
// is empty: either the dataset holds fewer than two distinct groups, or a
// single group spans the entire dataset.
type DegenerateSplitError struct {
	Group     string
	Groups    int
	TrainSize int
}

func (e *DegenerateSplitError) Error() string {
	if e.Groups < 2 {
		return fmt.Sprintf("allometry: degenerate split: dataset has %d distinct group(s), need at least 2", e.Groups)
	}
	return fmt.Sprintf("allometry: degenerate split: holding out group %q leaves %d training observations", e.Group, e.TrainSize)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DegenerateSplitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("group", e.Group).
		Int("groups", e.Groups).
		Int("train_size", e.TrainSize).
		Str("type", "DegenerateSplitError")
}

// NewDegenerateSplitError creates a new DegenerateSplitError with a stack trace.
func NewDegenerateSplitError(group string, groups, trainSize int) error {
	err := &DegenerateSplitError{Group: group, Groups: groups, TrainSize: trainSize}
	return errors.WithStack(err)
}

// UnseenLevelError reports that a fitted model cannot score an observation
// because its categorical level never appeared in the training partition.
// Validation treats it as a missing prediction, not a run failure.
type UnseenLevelError struct {
	Model string
	Level string
}

func (e *UnseenLevelError) Error() string {
	return fmt.Sprintf("allometry: %s: level %q was not present in training data", e.Model, e.Level)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *UnseenLevelError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model", e.Model).
		Str("level", e.Level).
		Str("type", "UnseenLevelError")
}

// NewUnseenLevelError creates a new UnseenLevelError with a stack trace.
func NewUnseenLevelError(model, level string) error {
	err := &UnseenLevelError{Model: model, Level: level}
	return errors.WithStack(err)
}

// InsufficientDataError reports that too few complete prediction pairs
// remain for a statistic after missing values are excluded.
type InsufficientDataError struct {
	Metric   string
	Complete int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("allometry: %s: %d complete pair(s) after exclusions, need %d", e.Metric, e.Complete, e.Required)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("metric", e.Metric).
		Int("complete", e.Complete).
		Int("required", e.Required).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError creates a new InsufficientDataError with a stack trace.
func NewInsufficientDataError(metric string, complete, required int) error {
	err := &InsufficientDataError{Metric: metric, Complete: complete, Required: required}
	return errors.WithStack(err)
}

// NotFittedError reports a call to Predict or Score on a model that has not
// been fitted yet.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("allometry: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports input data whose dimensions differ from what an
// operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("allometry: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for an operation,
// for example a non-positive measurement passed to a log transform.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("allometry: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general error raised by a regression model.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("allometry: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("allometry: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a new ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no data.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a normal-equation solve encounters
	// a singular design matrix.
	ErrSingularMatrix = New("singular matrix")
)

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}
