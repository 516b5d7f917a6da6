package loadgen

import (
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Salary and rating ranges for generated requests.
const (
	minSalary     = 30_000
	salaryRange   = 120_000
	salaryStep    = 500
	maxRating     = 5.0
	ratingTenths  = 10
	employeePrefix = "emp-"
)

// Generate builds n award requests spread over employees employee ids.
// Ratings are on a 0-5 scale with one decimal so the high-tier boundary at
// exactly 4.0 is hit regularly.
func Generate(n, employees int, seed uint64, now time.Time) []Request {
	if employees < 1 {
		employees = 1
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ts := now.UTC().Format(time.RFC3339)

	out := make([]Request, n)
	for i := range out {
		salary := float64(minSalary + rng.IntN(salaryRange/salaryStep+1)*salaryStep)
		rating := math.Round(rng.Float64()*maxRating*ratingTenths) / ratingTenths
		out[i] = Request{
			RequestID:         uuid.NewString(),
			EmployeeID:        employeePrefix + strconv.Itoa(rng.IntN(employees)),
			Salary:            salary,
			PerformanceRating: rating,
			TS:                ts,
		}
	}
	return out
}
