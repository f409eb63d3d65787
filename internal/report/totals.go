// Package report computes aggregate views over a transaction sequence.
// Every function is pure: it reads its input and allocates its result.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// BalanceLabel is the label of the all-time summary.
const BalanceLabel = "Balance"

// TotalIncome sums the amounts of income transactions.
func TotalIncome(txns []model.Transaction) decimal.Decimal {
	return sumCategory(txns, model.CategoryIncome)
}

// TotalExpense sums the amounts of expense transactions.
func TotalExpense(txns []model.Transaction) decimal.Decimal {
	return sumCategory(txns, model.CategoryExpense)
}

// NetBalance is TotalIncome minus TotalExpense.
func NetBalance(txns []model.Transaction) decimal.Decimal {
	return TotalIncome(txns).Sub(TotalExpense(txns))
}

// Summarize returns the labelled income/expense/balance triple for txns.
func Summarize(label string, txns []model.Transaction) model.BalanceSummary {
	income := TotalIncome(txns)
	expense := TotalExpense(txns)
	return model.BalanceSummary{
		Label:        label,
		TotalIncome:  income,
		TotalExpense: expense,
		TotalBalance: income.Sub(expense),
	}
}

func sumCategory(txns []model.Transaction, category string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.Category == category {
			total = total.Add(t.Amount)
		}
	}
	return total
}
