package session

import (
	"time"

	"github.com/shopspring/decimal"
)

// Taxonomy validates category/subcategory pairs.
type Taxonomy interface {
	Validate(category, subcategory string) error
}

// RecordParams holds the already-parsed inputs of one new transaction.
type RecordParams struct {
	Category    string
	Subcategory string
	Amount      decimal.Decimal
	Description string
	Timestamp   time.Time
}

// Validate checks params against the transaction invariants and returns
// every violation found.
func Validate(p RecordParams, taxonomy Taxonomy) ValidationErrors {
	var errs ValidationErrors

	switch {
	case p.Amount.IsZero():
		errs = append(errs, ValidationError{Field: "amount", Reason: "must not be zero"})
	case p.Amount.IsNegative():
		errs = append(errs, ValidationError{Field: "amount", Reason: "must be positive"})
	}

	switch {
	case p.Category == "":
		errs = append(errs, ValidationError{Field: "category", Reason: "missing"})
	case p.Subcategory == "":
		errs = append(errs, ValidationError{Field: "subcategory", Reason: "missing"})
	default:
		if err := taxonomy.Validate(p.Category, p.Subcategory); err != nil {
			errs = append(errs, ValidationError{Field: "category", Reason: err.Error()})
		}
	}

	if p.Timestamp.IsZero() {
		errs = append(errs, ValidationError{Field: "timestamp", Reason: "missing"})
	}

	return errs
}
