// internal/domain/shared/money.go
package shared

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as JSON numbers, matching what storefront clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// Round2 rounds a monetary amount to two decimal places
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
