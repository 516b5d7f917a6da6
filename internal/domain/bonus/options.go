package bonus

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithThreshold sets the rating at which the high rate applies.
func WithThreshold(threshold float64) Option {
	return func(c *Calculator) {
		c.threshold = threshold
	}
}

// WithRates sets the high and standard rates. Negative rates are ignored.
func WithRates(high, standard float64) Option {
	return func(c *Calculator) {
		if high >= 0 {
			c.highRate = high
		}
		if standard >= 0 {
			c.standardRate = standard
		}
	}
}

// WithStrict enables input validation.
func WithStrict(strict bool) Option {
	return func(c *Calculator) {
		c.strict = strict
	}
}
