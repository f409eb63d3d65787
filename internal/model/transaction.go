package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one ledger record. Amount is always positive; Category
// decides whether it counts as income or expense.
type Transaction struct {
	Timestamp   time.Time
	Category    string
	Subcategory string
	Amount      decimal.Decimal
	Description string
}

// IsIncome reports whether the transaction counts towards income.
func (t Transaction) IsIncome() bool { return t.Category == CategoryIncome }

// IsExpense reports whether the transaction counts towards expenses.
func (t Transaction) IsExpense() bool { return t.Category == CategoryExpense }

// Signed returns the amount with the sign implied by the category:
// negative for expenses, positive for income, zero for anything else.
func (t Transaction) Signed() decimal.Decimal {
	switch t.Category {
	case CategoryIncome:
		return t.Amount
	case CategoryExpense:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// HasTime reports whether the timestamp carries a time-of-day component.
func (t Transaction) HasTime() bool {
	h, m, s := t.Timestamp.Clock()
	return h != 0 || m != 0 || s != 0
}

// NormalizeTimestamp truncates ts to whole seconds and re-expresses its
// wall clock in UTC, which is the precision every record format keeps.
func NormalizeTimestamp(ts time.Time) time.Time {
	if ts.IsZero() {
		return ts
	}
	y, mo, d := ts.Date()
	h, mi, s := ts.Clock()
	return time.Date(y, mo, d, h, mi, s, 0, time.UTC)
}
