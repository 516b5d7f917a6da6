package stats

import "errors"

// ErrEmpty is returned when a statistic is requested over no values.
var ErrEmpty = errors.New("no values")
