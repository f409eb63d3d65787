package report

import (
	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

var hundred = decimal.NewFromInt(100)

// SubcategoryShare is one slice of a category's proportional view.
type SubcategoryShare struct {
	Subcategory string
	Amount      decimal.Decimal
	Percent     decimal.Decimal // 0 when the category total is zero
}

// CategoryBreakdown holds the per-subcategory sums of one category.
type CategoryBreakdown struct {
	Category      string
	Total         decimal.Decimal
	Subcategories []SubcategoryShare
}

// Ordering supplies the display order for categories and subcategories.
// Names it does not know are placed after known ones, in first-seen order.
type Ordering interface {
	All() []model.Category
}

// SubcategorySums maps category -> subcategory -> summed amount.
func SubcategorySums(txns []model.Transaction) map[string]map[string]decimal.Decimal {
	sums := make(map[string]map[string]decimal.Decimal)
	for _, t := range txns {
		bySub, ok := sums[t.Category]
		if !ok {
			bySub = make(map[string]decimal.Decimal)
			sums[t.Category] = bySub
		}
		bySub[t.Subcategory] = bySub[t.Subcategory].Add(t.Amount)
	}
	return sums
}

// ByCategoryAndSubcategory groups txns by category and subcategory and
// computes each subcategory's percentage of its category total. Only
// categories and subcategories that occur in txns are returned. order may
// be nil, in which case first-seen order is used throughout.
func ByCategoryAndSubcategory(txns []model.Transaction, order Ordering) []CategoryBreakdown {
	sums := SubcategorySums(txns)
	catOrder, subOrder := seenOrder(txns, order)

	result := make([]CategoryBreakdown, 0, len(catOrder))
	for _, cat := range catOrder {
		bySub := sums[cat]
		total := decimal.Zero
		for _, sub := range subOrder[cat] {
			total = total.Add(bySub[sub])
		}

		cb := CategoryBreakdown{Category: cat, Total: total}
		for _, sub := range subOrder[cat] {
			cb.Subcategories = append(cb.Subcategories, SubcategoryShare{
				Subcategory: sub,
				Amount:      bySub[sub],
				Percent:     Percent(bySub[sub], total),
			})
		}
		result = append(result, cb)
	}
	return result
}

// Percent returns 100 * part / total, or zero when total is zero.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total)
}

// seenOrder lists the categories and per-category subcategories present in
// txns, known names first in taxonomy order.
func seenOrder(txns []model.Transaction, order Ordering) ([]string, map[string][]string) {
	present := make(map[string]map[string]bool)
	var firstCats []string
	firstSubs := make(map[string][]string)
	for _, t := range txns {
		subs, ok := present[t.Category]
		if !ok {
			subs = make(map[string]bool)
			present[t.Category] = subs
			firstCats = append(firstCats, t.Category)
		}
		if !subs[t.Subcategory] {
			subs[t.Subcategory] = true
			firstSubs[t.Category] = append(firstSubs[t.Category], t.Subcategory)
		}
	}

	var known []model.Category
	if order != nil {
		known = order.All()
	}

	cats := make([]string, 0, len(firstCats))
	subOrder := make(map[string][]string, len(firstCats))
	placed := make(map[string]bool)
	for _, c := range known {
		if present[c.Name] == nil {
			continue
		}
		cats = append(cats, c.Name)
		placed[c.Name] = true
		subOrder[c.Name] = orderSubs(c.Subcategories, firstSubs[c.Name], present[c.Name])
	}
	for _, name := range firstCats {
		if placed[name] {
			continue
		}
		cats = append(cats, name)
		subOrder[name] = firstSubs[name]
	}
	return cats, subOrder
}

func orderSubs(known, seen []string, present map[string]bool) []string {
	out := make([]string, 0, len(seen))
	placed := make(map[string]bool, len(seen))
	for _, s := range known {
		if present[s] {
			out = append(out, s)
			placed[s] = true
		}
	}
	for _, s := range seen {
		if !placed[s] {
			out = append(out, s)
		}
	}
	return out
}
