package bonus_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/bonus/internal/domain/bonus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculate(t *testing.T) {
	Convey("Given the fixed two-tier schedule", t, func() {
		Convey("When the rating is above the threshold", func() {
			So(bonus.Calculate(50000, 4.5), ShouldEqual, 5000.0)
		})

		Convey("When the rating is below the threshold", func() {
			So(bonus.Calculate(50000, 3.9), ShouldEqual, 2500.0)
		})

		Convey("When the rating equals the threshold", func() {
			So(bonus.Calculate(80000, 4), ShouldAlmostEqual, 8000.0, 1e-9)
		})

		Convey("When the salary is zero", func() {
			So(bonus.Calculate(0, 5), ShouldEqual, 0.0)
		})

		Convey("When the salary is negative", func() {
			// not rejected
			So(bonus.Calculate(-1000, 1), ShouldAlmostEqual, -50.0, 1e-9)
		})

		Convey("Then every rating at or above 4 uses 10% and every rating below uses 5%", func() {
			salaries := []float64{0, 1, 12345.67, 50000, 1e7}
			for _, s := range salaries {
				for r := 0.0; r <= 5.0; r += 0.25 {
					want := s * 0.05
					if r >= 4 {
						want = s * 0.10
					}
					So(bonus.Calculate(s, r), ShouldEqual, want)
				}
			}
		})
	})
}

func TestCalculator_Compute(t *testing.T) {
	ctx := context.Background()

	Convey("Given a calculator with default options", t, func() {
		calc := bonus.NewCalculator()

		Convey("When computing a high tier bonus", func() {
			res, err := calc.Compute(ctx, bonus.Input{Salary: 50000, PerformanceRating: 4.5})

			Convey("Then it should report the rate and tier", func() {
				So(err, ShouldBeNil)
				So(res.Amount, ShouldEqual, 5000.0)
				So(res.Rate, ShouldEqual, 0.10)
				So(res.Tier, ShouldEqual, bonus.TierHigh)
				So(res.Salary, ShouldEqual, 50000.0)
				So(res.PerformanceRating, ShouldEqual, 4.5)
			})
		})

		Convey("When computing a standard tier bonus", func() {
			res, err := calc.Compute(ctx, bonus.Input{Salary: 50000, PerformanceRating: 3.9})
			So(err, ShouldBeNil)
			So(res.Amount, ShouldEqual, 2500.0)
			So(res.Tier, ShouldEqual, bonus.TierStandard)
		})

		Convey("When the input is out of range", func() {
			res, err := calc.Compute(ctx, bonus.Input{Salary: -10, PerformanceRating: 9})

			Convey("Then it should still compute without error", func() {
				So(err, ShouldBeNil)
				So(res.Tier, ShouldEqual, bonus.TierHigh)
				So(res.Amount, ShouldAlmostEqual, -1.0, 1e-9)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := calc.Compute(cctx, bonus.Input{Salary: 1, PerformanceRating: 1})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("Then the result should match Calculate", func() {
			for _, in := range []bonus.Input{{Salary: 1000, PerformanceRating: 0}, {Salary: 72000, PerformanceRating: 4}, {Salary: 31000.5, PerformanceRating: 3.99}} {
				res, err := calc.Compute(ctx, in)
				So(err, ShouldBeNil)
				So(res.Amount, ShouldEqual, bonus.Calculate(in.Salary, in.PerformanceRating))
			}
		})
	})

	Convey("Given a strict calculator", t, func() {
		calc := bonus.NewCalculator(bonus.WithStrict(true))
		So(calc.Strict(), ShouldBeTrue)

		Convey("When the salary is negative", func() {
			_, err := calc.Compute(ctx, bonus.Input{Salary: -1, PerformanceRating: 3})
			So(errors.Is(err, bonus.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the salary is not finite", func() {
			_, err := calc.Compute(ctx, bonus.Input{Salary: math.Inf(1), PerformanceRating: 3})
			So(errors.Is(err, bonus.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the rating is outside [0, 5]", func() {
			_, err := calc.Compute(ctx, bonus.Input{Salary: 1000, PerformanceRating: 5.1})
			So(errors.Is(err, bonus.ErrInvalidInput), ShouldBeTrue)

			_, err = calc.Compute(ctx, bonus.Input{Salary: 1000, PerformanceRating: -0.1})
			So(errors.Is(err, bonus.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the input is valid", func() {
			res, err := calc.Compute(ctx, bonus.Input{Salary: 0, PerformanceRating: 5})
			So(err, ShouldBeNil)
			So(res.Amount, ShouldEqual, 0.0)
		})
	})

	Convey("Given a calculator with a custom schedule", t, func() {
		calc := bonus.NewCalculator(
			bonus.WithThreshold(3),
			bonus.WithRates(0.2, 0.01),
		)
		So(calc.Threshold(), ShouldEqual, 3.0)

		Convey("Then the custom threshold and rates should apply", func() {
			tier, rate := calc.Tier(3)
			So(tier, ShouldEqual, bonus.TierHigh)
			So(rate, ShouldEqual, 0.2)

			tier, rate = calc.Tier(2.99)
			So(tier, ShouldEqual, bonus.TierStandard)
			So(rate, ShouldEqual, 0.01)
		})

		Convey("And negative rates should be ignored", func() {
			c := bonus.NewCalculator(bonus.WithRates(-1, -1))
			_, high := c.Tier(4)
			_, standard := c.Tier(1)
			So(high, ShouldEqual, bonus.DefaultHighRate)
			So(standard, ShouldEqual, bonus.DefaultStandardRate)
		})
	})
}
