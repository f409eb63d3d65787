package categories

import "github.com/fintrack-dev/fintrack/internal/model"

// Default returns the built-in taxonomy. Subcategory order is the display order.
func Default() []model.Category {
	return []model.Category{
		{
			Name:          model.CategoryExpense,
			Subcategories: []string{"Utilities", "Food", "Entertainment", "Clothing", "Credit", "Deposit"},
			Aliases:       []string{"Витрата"},
		},
		{
			Name:          model.CategoryIncome,
			Subcategories: []string{"Salary", "Dividends", "Gift"},
			Aliases:       []string{"Прибуток"},
		},
	}
}

// subcategoryAliases maps localized subcategory names from older data files.
var subcategoryAliases = map[string]string{
	"Комунальні послуги": "Utilities",
	"Їжа":                "Food",
	"Розваги":            "Entertainment",
	"Одяг":               "Clothing",
	"Кредит":             "Credit",
	"Депозит":            "Deposit",
	"Заробітна плата":    "Salary",
	"Дивіденди":          "Dividends",
	"Подарунок":          "Gift",
}
