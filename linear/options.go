package linear

// Option is a function that configures a Regression.
type Option func(*Regression)

// WithFitIntercept sets whether to fit the intercept.
func WithFitIntercept(fit bool) Option {
	return func(lr *Regression) {
		lr.fitIntercept = fit
	}
}

// GroupedOption is a function that configures a GroupedRegression.
type GroupedOption func(*GroupedRegression)

// WithUnseenPolicy sets the prediction policy for species that were absent
// from the training data.
func WithUnseenPolicy(policy UnseenPolicy) GroupedOption {
	return func(gr *GroupedRegression) {
		gr.policy = policy
	}
}
