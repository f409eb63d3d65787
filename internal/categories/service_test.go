package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func TestDefault(t *testing.T) {
	cats := Default()
	require.Len(t, cats, 2)
	assert.Equal(t, model.CategoryExpense, cats[0].Name)
	assert.Equal(t, model.CategoryIncome, cats[1].Name)

	for _, c := range cats {
		assert.NotEmpty(t, c.Subcategories, "category %s has no subcategories", c.Name)
	}
}

func TestGetExists(t *testing.T) {
	svc := NewDefault()

	c, ok := svc.Get(model.CategoryIncome)
	assert.True(t, ok)
	assert.Equal(t, []string{"Salary", "Dividends", "Gift"}, c.Subcategories)

	_, ok = svc.Get("Transfer")
	assert.False(t, ok)

	assert.True(t, svc.Exists(model.CategoryExpense, "Food"))
	assert.False(t, svc.Exists(model.CategoryIncome, "Food"), "Food is not an income subcategory")
	assert.False(t, svc.Exists("expense", "Food"), "category match is case-sensitive")
}

func TestSubcategoriesOrder(t *testing.T) {
	svc := NewDefault()
	assert.Equal(t,
		[]string{"Utilities", "Food", "Entertainment", "Clothing", "Credit", "Deposit"},
		svc.Subcategories(model.CategoryExpense))
	assert.Nil(t, svc.Subcategories("Transfer"))
}

func TestValidate(t *testing.T) {
	svc := NewDefault()

	require.NoError(t, svc.Validate(model.CategoryIncome, "Gift"))

	err := svc.Validate("Transfer", "Gift")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")

	err = svc.Validate(model.CategoryIncome, "Food")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown subcategory")
}

func TestCanonical(t *testing.T) {
	svc := NewDefault()

	cat, sub := svc.Canonical("Витрата", "Їжа")
	assert.Equal(t, model.CategoryExpense, cat)
	assert.Equal(t, "Food", sub)

	cat, sub = svc.Canonical("Прибуток", "Заробітна плата")
	assert.Equal(t, model.CategoryIncome, cat)
	assert.Equal(t, "Salary", sub)

	cat, sub = svc.Canonical(model.CategoryExpense, "Food")
	assert.Equal(t, model.CategoryExpense, cat)
	assert.Equal(t, "Food", sub)
}

func TestLookupsReturnCopies(t *testing.T) {
	svc := NewDefault()

	all := svc.All()
	all[0].Name = "Changed"
	all[0].Subcategories[0] = "Changed"
	all[0].Aliases[0] = "Changed"

	subs := svc.Subcategories(model.CategoryExpense)
	subs[1] = "Changed"

	c, ok := svc.Get(model.CategoryIncome)
	require.True(t, ok)
	c.Subcategories[0] = "Changed"

	fresh := svc.All()
	assert.Equal(t, model.CategoryExpense, fresh[0].Name)
	assert.Equal(t, []string{"Utilities", "Food", "Entertainment", "Clothing", "Credit", "Deposit"}, fresh[0].Subcategories)
	assert.Equal(t, []string{"Salary", "Dividends", "Gift"}, fresh[1].Subcategories)
	assert.NoError(t, svc.Validate(model.CategoryExpense, "Utilities"))
	assert.NoError(t, svc.Validate(model.CategoryIncome, "Salary"))

	cat, sub := svc.Canonical("Витрата", "Їжа")
	assert.Equal(t, model.CategoryExpense, cat)
	assert.Equal(t, "Food", sub)
}
