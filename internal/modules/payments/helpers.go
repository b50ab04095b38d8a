package payments

import "github.com/shopspring/decimal"

func centsToUSD(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}
