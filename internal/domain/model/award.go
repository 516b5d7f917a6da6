// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/bonus/internal/domain/bonus"
)

// AwardRequest asks for a bonus to be computed and recorded for an employee.
type AwardRequest struct {
	RequestID         string    // unique id for idempotency
	EmployeeID        string    // employee the award belongs to
	Salary            float64   // base salary
	PerformanceRating float64   // performance score, roughly 0-5
	TS                time.Time // submission timestamp
}

// Input returns the calculator input carried by the request.
func (r AwardRequest) Input() bonus.Input {
	return bonus.Input{Salary: r.Salary, PerformanceRating: r.PerformanceRating}
}

// Award is a computed bonus recorded against an employee.
type Award struct {
	RequestID         string
	EmployeeID        string
	Salary            float64
	PerformanceRating float64
	Rate              float64
	Tier              bonus.Tier
	Amount            float64
	RequestedAt       time.Time
	ComputedAt        time.Time
}

// NewAward builds an Award from a request and its calculator result.
func NewAward(req AwardRequest, res bonus.Result, computedAt time.Time) Award { //nolint:gocritic // hugeParam: requests travel by value
	return Award{
		RequestID:         req.RequestID,
		EmployeeID:        req.EmployeeID,
		Salary:            res.Salary,
		PerformanceRating: res.PerformanceRating,
		Rate:              res.Rate,
		Tier:              res.Tier,
		Amount:            res.Amount,
		RequestedAt:       req.TS,
		ComputedAt:        computedAt,
	}
}
