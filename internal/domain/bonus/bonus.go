// Package bonus computes discretionary bonuses from salary and performance rating.
package bonus

import (
	"context"
	"fmt"
	"math"
)

// Default rate schedule.
const (
	DefaultThreshold    = 4.0
	DefaultHighRate     = 0.10
	DefaultStandardRate = 0.05

	// Rating bounds enforced only in strict mode.
	minRating = 0.0
	maxRating = 5.0
)

// Tier names the rate band a rating falls into.
type Tier string

// Rate tiers.
const (
	TierHigh     Tier = "high"
	TierStandard Tier = "standard"
)

// Calculate returns salary multiplied by the tier rate: 10% when the rating is
// at least 4, otherwise 5%. Inputs are not validated.
func Calculate(salary, performanceRating float64) float64 {
	rate := DefaultStandardRate
	if performanceRating >= DefaultThreshold {
		rate = DefaultHighRate
	}
	return salary * rate
}

// Input is a single compensation pair.
type Input struct {
	Salary            float64
	PerformanceRating float64
}

// Result is the computed bonus and the rate that produced it.
type Result struct {
	Salary            float64
	PerformanceRating float64
	Rate              float64
	Tier              Tier
	Amount            float64
}

// Computer computes a bonus for an input.
type Computer interface {
	// Compute honors ctx for cancellation.
	Compute(ctx context.Context, in Input) (Result, error)
}

// Calculator implements Computer with a configurable two-tier schedule.
type Calculator struct {
	threshold    float64
	highRate     float64
	standardRate float64
	strict       bool
}

// NewCalculator creates a calculator using the default schedule unless
// overridden by options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		threshold:    DefaultThreshold,
		highRate:     DefaultHighRate,
		standardRate: DefaultStandardRate,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compute returns the bonus for in. Outside strict mode the only error is a
// cancelled context.
func (c *Calculator) Compute(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}
	if c.strict {
		if err := validate(in); err != nil {
			return Result{}, err
		}
	}

	tier, rate := c.Tier(in.PerformanceRating)
	return Result{
		Salary:            in.Salary,
		PerformanceRating: in.PerformanceRating,
		Rate:              rate,
		Tier:              tier,
		Amount:            in.Salary * rate,
	}, nil
}

// Tier reports which band rating falls into and the rate applied to it.
// The threshold is inclusive.
func (c *Calculator) Tier(rating float64) (Tier, float64) {
	if rating >= c.threshold {
		return TierHigh, c.highRate
	}
	return TierStandard, c.standardRate
}

// Threshold returns the rating at which the high rate starts to apply.
func (c *Calculator) Threshold() float64 { return c.threshold }

// Strict reports whether inputs are validated.
func (c *Calculator) Strict() bool { return c.strict }

func validate(in Input) error {
	switch {
	case math.IsNaN(in.Salary) || math.IsInf(in.Salary, 0):
		return fmt.Errorf("%w: salary must be finite", ErrInvalidInput)
	case in.Salary < 0:
		return fmt.Errorf("%w: salary must not be negative", ErrInvalidInput)
	case math.IsNaN(in.PerformanceRating):
		return fmt.Errorf("%w: performance rating must be a number", ErrInvalidInput)
	case in.PerformanceRating < minRating || in.PerformanceRating > maxRating:
		return fmt.Errorf("%w: performance rating must be within [%g, %g]", ErrInvalidInput, minRating, maxRating)
	}
	return nil
}
