package linear

// Option is a function that configures LinearRegression
type Option func(*LinearRegression)

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// WithTol sets the relative singular-value cutoff used to compute the rank
func WithTol(tol float64) Option {
	return func(lr *LinearRegression) {
		lr.tol = tol
	}
}

// WithNJobs sets the number of goroutines used for large inputs.
// -1 uses every CPU; the default of 1 keeps fitting single-threaded.
func WithNJobs(n int) Option {
	return func(lr *LinearRegression) {
		lr.nJobs = n
	}
}

// WithExpectedFeatures makes Fit reject inputs whose column count differs
// from n with a SchemaError. Zero disables the check.
func WithExpectedFeatures(n int) Option {
	return func(lr *LinearRegression) {
		lr.expectedFeatures = n
	}
}
