package finance

import "errors"

// Sentinel kinds for finance errors.
var (
	ErrZeroRevenue    = errors.New("revenue cannot be zero")
	ErrZeroInvestment = errors.New("cost of investment cannot be zero")
	ErrUnknownFormula = errors.New("unknown formula")
	ErrArity          = errors.New("wrong number of arguments")
)
