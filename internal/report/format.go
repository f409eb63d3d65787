package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money renders an amount with two decimal places, rounding half away from
// zero. Aggregates are kept unrounded until this point.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// PercentLabel renders a share like "Food (33.33%)".
func PercentLabel(name string, percent decimal.Decimal) string {
	return fmt.Sprintf("%s (%s%%)", name, percent.StringFixed(2))
}
