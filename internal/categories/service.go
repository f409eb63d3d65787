package categories

import (
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Service provides read-only lookup over a taxonomy. It is built once and
// never mutated.
type Service struct {
	categories []model.Category
	byName     map[string]model.Category
	aliases    map[string]string
}

// NewService creates a Service from a slice of categories.
func NewService(cats []model.Category) *Service {
	byName := make(map[string]model.Category, len(cats))
	aliases := make(map[string]string)
	for _, c := range cats {
		byName[c.Name] = c
		for _, a := range c.Aliases {
			aliases[a] = c.Name
		}
	}
	return &Service{categories: cats, byName: byName, aliases: aliases}
}

// NewDefault returns a Service over the built-in taxonomy.
func NewDefault() *Service {
	return NewService(Default())
}

// All returns a copy of all categories in declaration order.
func (s *Service) All() []model.Category {
	out := make([]model.Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = cloneCategory(c)
	}
	return out
}

func cloneCategory(c model.Category) model.Category {
	c.Subcategories = append([]string(nil), c.Subcategories...)
	c.Aliases = append([]string(nil), c.Aliases...)
	return c
}

// Get returns a category by name.
func (s *Service) Get(name string) (model.Category, bool) {
	c, ok := s.byName[name]
	if !ok {
		return model.Category{}, false
	}
	return cloneCategory(c), true
}

// Subcategories returns the ordered subcategories of a category, or nil.
func (s *Service) Subcategories(category string) []string {
	c, ok := s.byName[category]
	if !ok {
		return nil
	}
	return append([]string(nil), c.Subcategories...)
}

// Exists reports whether sub is a subcategory of category.
func (s *Service) Exists(category, sub string) bool {
	c, ok := s.byName[category]
	return ok && c.HasSubcategory(sub)
}

// Validate returns an error describing why (category, sub) is not a valid pair.
func (s *Service) Validate(category, sub string) error {
	c, ok := s.byName[category]
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}
	if !c.HasSubcategory(sub) {
		return fmt.Errorf("unknown subcategory %q for category %q", sub, category)
	}
	return nil
}

// Canonical maps a category and subcategory, possibly given by a localized
// alias, to their canonical names. Unknown names are returned unchanged.
func (s *Service) Canonical(category, sub string) (string, string) {
	if name, ok := s.aliases[category]; ok {
		category = name
	}
	if name, ok := subcategoryAliases[sub]; ok {
		sub = name
	}
	return category, sub
}
