package model

import "github.com/shopspring/decimal"

// BalanceSummary is derived from a set of transactions and never persisted.
type BalanceSummary struct {
	Label        string
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	TotalBalance decimal.Decimal // TotalIncome - TotalExpense
}
