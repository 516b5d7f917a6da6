// Package loadgen drives a running bonus service with generated award
// requests and checks every stored award against the bonus schedule.
package loadgen

import "time"

// Defaults used when Config fields are zero.
const (
	DefaultRequests     = 1000
	DefaultEmployees    = 50
	DefaultWorkers      = 8
	DefaultTimeout      = 10 * time.Second
	DefaultSettle       = 10 * time.Second
	DefaultPollInterval = 50 * time.Millisecond
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL      string        // base URL of the service
	Requests     int           // number of award requests to submit
	Employees    int           // distinct employee ids to spread requests over
	Workers      int           // concurrent submitters and verifiers
	Timeout      time.Duration // per HTTP request
	Settle       time.Duration // how long to wait for awards to be stored
	PollInterval time.Duration // delay between lookups of a pending award
	Seed         uint64        // generator seed; 0 picks one from the clock
}

func (c Config) withDefaults() Config {
	if c.Requests <= 0 {
		c.Requests = DefaultRequests
	}
	if c.Employees <= 0 {
		c.Employees = DefaultEmployees
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Settle <= 0 {
		c.Settle = DefaultSettle
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c
}

// Request is the POST /awards body.
type Request struct {
	RequestID         string  `json:"request_id"`
	EmployeeID        string  `json:"employee_id"`
	Salary            float64 `json:"salary"`
	PerformanceRating float64 `json:"performance_rating"`
	TS                string  `json:"ts"`
}

// Ack is the POST /awards response.
type Ack struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	RequestID string `json:"request_id"`
}

// Award is the GET /awards/{request_id} response.
type Award struct {
	RequestID         string  `json:"request_id"`
	EmployeeID        string  `json:"employee_id"`
	Salary            float64 `json:"salary"`
	PerformanceRating float64 `json:"performance_rating"`
	Rate              float64 `json:"rate"`
	Tier              string  `json:"tier"`
	Bonus             float64 `json:"bonus"`
}

// Report summarises a run.
type Report struct {
	Generated  int
	Accepted   int
	Duplicate  int
	Rejected   int
	Failed     int
	Verified   int
	Mismatched int
	Missing    int
	Duration   time.Duration
}

// OK reports whether every accepted award was stored with the expected amount.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Mismatched == 0 && r.Missing == 0
}
