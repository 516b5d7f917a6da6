package finance

import (
	"fmt"
	"sort"
)

// Formula evaluates a named finance formula over positional arguments.
type Formula struct {
	Name   string
	Params []string
	eval   func(args []float64) (float64, error)
}

// Eval applies the formula to args, which must match Params in length.
func (f Formula) Eval(args ...float64) (float64, error) {
	if len(args) != len(f.Params) {
		return 0, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArity, f.Name, len(f.Params), len(args))
	}
	return f.eval(args)
}

var formulas = map[string]Formula{
	"profit-margin": {
		Name:   "profit-margin",
		Params: []string{"revenue", "cost"},
		eval:   func(a []float64) (float64, error) { return ProfitMargin(a[0], a[1]) },
	},
	"roi": {
		Name:   "roi",
		Params: []string{"gain", "cost"},
		eval:   func(a []float64) (float64, error) { return ROI(a[0], a[1]) },
	},
	"clv": {
		Name:   "clv",
		Params: []string{"avg_purchase_value", "purchase_frequency", "customer_lifespan"},
		eval:   func(a []float64) (float64, error) { return CLV(a[0], a[1], a[2]), nil },
	},
	"gross-profit": {
		Name:   "gross-profit",
		Params: []string{"revenue", "cogs"},
		eval:   func(a []float64) (float64, error) { return GrossProfit(a[0], a[1]), nil },
	},
	"net-profit": {
		Name:   "net-profit",
		Params: []string{"gross_profit", "expenses"},
		eval:   func(a []float64) (float64, error) { return NetProfit(a[0], a[1]), nil },
	},
	"roi-percent": {
		Name:   "roi-percent",
		Params: []string{"profit", "investment"},
		eval:   func(a []float64) (float64, error) { return ROIPercent(a[0], a[1]) },
	},
}

// Lookup returns the formula registered under name.
func Lookup(name string) (Formula, error) {
	f, ok := formulas[name]
	if !ok {
		return Formula{}, fmt.Errorf("%w: %q", ErrUnknownFormula, name)
	}
	return f, nil
}

// Names lists the registered formula names in sorted order.
func Names() []string {
	names := make([]string, 0, len(formulas))
	for name := range formulas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
