package model

// Top-level category names. The sign of a transaction is derived from these.
const (
	CategoryExpense = "Expense"
	CategoryIncome  = "Income"
)

// Category is a top-level classification with its ordered subcategories.
type Category struct {
	Name          string
	Subcategories []string
	Aliases       []string // localized names accepted on import
}

// HasSubcategory reports whether sub belongs to the category (exact match).
func (c Category) HasSubcategory(sub string) bool {
	for _, s := range c.Subcategories {
		if s == sub {
			return true
		}
	}
	return false
}
