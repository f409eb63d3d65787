package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/ledger"
	"github.com/fintrack-dev/fintrack/internal/model"
)

const jsonDateFormat = "2006-01-02"

// JSONParser reads the whole-file JSON array ledger:
//
//	[{"date":"2024-01-10","category":"Expense","subcategory":"Food","amount":50.0,"description":"lunch"}]
//
// Amount may be a number or a string. Entries failing the record invariants
// are reported in Skipped with their 1-based array index.
type JSONParser struct{}

type legacyRecord struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Format returns the parser name.
func (JSONParser) Format() string { return "json" }

// Ext returns the file extension of JSON ledgers.
func (JSONParser) Ext() string { return ".json" }

// Parse decodes the array in r. An empty document is an empty ledger.
func (JSONParser) Parse(r io.Reader) (ledger.LoadResult, error) {
	var res ledger.LoadResult
	var records []legacyRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		return res, fmt.Errorf("decoding JSON ledger: %w", err)
	}

	for i, rec := range records {
		txn, err := rec.transaction()
		if err != nil {
			res.Skipped = append(res.Skipped, ledger.LineError{Line: i + 1, Err: err})
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}

func (rec legacyRecord) transaction() (model.Transaction, error) {
	if rec.Date == "" {
		return model.Transaction{}, errors.New("missing date")
	}
	ts, err := time.Parse(jsonDateFormat, rec.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec.Date, err)
	}
	if rec.Category == "" || rec.Subcategory == "" {
		return model.Transaction{}, errors.New("missing category or subcategory")
	}
	if !rec.Amount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("amount %s is not positive", rec.Amount)
	}
	return model.Transaction{
		Timestamp:   ts,
		Category:    rec.Category,
		Subcategory: rec.Subcategory,
		Amount:      rec.Amount,
		Description: rec.Description,
	}, nil
}
