package service

import "github.com/shopspring/decimal"

// formatMoney renders an amount with two decimals, prefixed by symbol.
func formatMoney(symbol string, value float64) string {
	return symbol + decimal.NewFromFloat(value).StringFixed(2)
}
