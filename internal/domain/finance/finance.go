// Package finance implements business metrics and basic financial formulas.
package finance

import "fmt"

// percent scales a ratio into a percentage.
const percent = 100

// ProfitMargin returns (revenue - cost) / revenue.
func ProfitMargin(revenue, cost float64) (float64, error) {
	if revenue == 0 {
		return 0, fmt.Errorf("profit margin: %w", ErrZeroRevenue)
	}
	return (revenue - cost) / revenue, nil
}

// ROI returns (gain - cost) / cost as a ratio.
func ROI(gainFromInvestment, costOfInvestment float64) (float64, error) {
	if costOfInvestment == 0 {
		return 0, fmt.Errorf("roi: %w", ErrZeroInvestment)
	}
	return (gainFromInvestment - costOfInvestment) / costOfInvestment, nil
}

// CLV returns customer lifetime value as the product of its three factors.
func CLV(avgPurchaseValue, purchaseFrequency, customerLifespan float64) float64 {
	return avgPurchaseValue * purchaseFrequency * customerLifespan
}

// GrossProfit returns revenue minus cost of goods sold.
func GrossProfit(revenue, cogs float64) float64 {
	return revenue - cogs
}

// NetProfit returns gross profit minus operating expenses.
func NetProfit(grossProfit, expenses float64) float64 {
	return grossProfit - expenses
}

// ROIPercent returns profit / investment expressed in percent.
func ROIPercent(profit, investment float64) (float64, error) {
	if investment == 0 {
		return 0, fmt.Errorf("roi percent: %w", ErrZeroInvestment)
	}
	return profit / investment * percent, nil
}
