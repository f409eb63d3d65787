package report

import (
	"fmt"
	"time"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// ByMonth summarizes the transactions whose month-of-year is month (1-12),
// regardless of year: January 2023 and January 2024 land in the same
// bucket. Use ByYearMonth for a single calendar month.
func ByMonth(txns []model.Transaction, month int) (model.BalanceSummary, error) {
	if month < 1 || month > 12 {
		return model.BalanceSummary{}, fmt.Errorf("month %d out of range 1..12", month)
	}
	var matched []model.Transaction
	for _, t := range txns {
		if int(t.Timestamp.Month()) == month {
			matched = append(matched, t)
		}
	}
	return Summarize(time.Month(month).String(), matched), nil
}

// ByYearMonth summarizes the transactions of one calendar month.
func ByYearMonth(txns []model.Transaction, year, month int) (model.BalanceSummary, error) {
	if month < 1 || month > 12 {
		return model.BalanceSummary{}, fmt.Errorf("month %d out of range 1..12", month)
	}
	var matched []model.Transaction
	for _, t := range txns {
		if t.Timestamp.Year() == year && int(t.Timestamp.Month()) == month {
			matched = append(matched, t)
		}
	}
	return Summarize(fmt.Sprintf("%04d-%02d", year, month), matched), nil
}

// MonthlyRollup returns one ByMonth summary for each month 1..12.
func MonthlyRollup(txns []model.Transaction) [12]model.BalanceSummary {
	var out [12]model.BalanceSummary
	for m := 1; m <= 12; m++ {
		// Range is fixed, so ByMonth cannot fail.
		out[m-1], _ = ByMonth(txns, m)
	}
	return out
}
