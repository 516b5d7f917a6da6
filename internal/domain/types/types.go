// Package types contains common types used across the application
package types

import "time"

// Quote is the JSON shape of a synchronous bonus computation
type Quote struct {
	Salary            float64 `json:"salary"`
	PerformanceRating float64 `json:"performance_rating"`
	Rate              float64 `json:"rate"`
	Tier              string  `json:"tier"`
	Bonus             float64 `json:"bonus"`
}

// AwardView is the JSON shape of a recorded award
type AwardView struct {
	RequestID         string    `json:"request_id"`
	EmployeeID        string    `json:"employee_id"`
	Salary            float64   `json:"salary"`
	PerformanceRating float64   `json:"performance_rating"`
	Rate              float64   `json:"rate"`
	Tier              string    `json:"tier"`
	Bonus             float64   `json:"bonus"`
	RequestedAt       time.Time `json:"requested_at"`
	ComputedAt        time.Time `json:"computed_at"`
}
