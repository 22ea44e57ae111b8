package splinelib

// SampleOption configures the sampling of AreGeometricallyEqual.
type SampleOption func(*sampleOptions)

type sampleOptions struct {
	budget         int
	samplesPerAxis int
}

// defaultSampleBudget is the default total number of sample points before
// rounding up per axis.
const defaultSampleBudget = 100

func defaultSampleOptions() sampleOptions {
	return sampleOptions{budget: defaultSampleBudget}
}

// WithSampleBudget sets the approximate total number of sample points. A
// spline with D parametric dimensions is sampled at ceil(budget^(1/D))+1
// points per axis.
func WithSampleBudget(budget int) SampleOption {
	return func(o *sampleOptions) {
		o.budget = max(budget, 1)
	}
}

// WithSamplesPerAxis fixes the number of sample points per axis and
// overrides the budget.
func WithSamplesPerAxis(n int) SampleOption {
	return func(o *sampleOptions) {
		o.samplesPerAxis = max(n, 2)
	}
}
