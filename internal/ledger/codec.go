package ledger

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Record formats understood by CodecFor.
const (
	FormatJSONL = "jsonl"
	FormatText  = "text"
)

// ErrUnencodable is returned when a transaction cannot be represented as a
// single line in the active format.
var ErrUnencodable = errors.New("transaction cannot be encoded")

// Codec converts one transaction to and from one line of a ledger file.
type Codec interface {
	Format() string
	// Ext is the file extension, including the dot.
	Ext() string
	Marshal(txn model.Transaction) (string, error)
	Unmarshal(line string) (model.Transaction, error)
}

// CodecFor returns the codec registered under format.
func CodecFor(format string) (Codec, error) {
	switch format {
	case FormatJSONL, "":
		return JSONCodec{}, nil
	case FormatText:
		return TextCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown ledger format %q", format)
	}
}

// FormatAmount renders an amount keeping the scale it was created with, so
// "50.00" is written back as "50.00" rather than "50".
func FormatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// checkDecoded enforces the record invariants every codec shares.
func checkDecoded(txn model.Transaction) error {
	if txn.Timestamp.IsZero() {
		return errors.New("missing date")
	}
	if txn.Category == "" {
		return errors.New("missing category")
	}
	if txn.Subcategory == "" {
		return errors.New("missing subcategory")
	}
	if !txn.Amount.IsPositive() {
		return fmt.Errorf("amount %s is not positive", txn.Amount)
	}
	return nil
}

// checkEncodable rejects text fields that are not valid UTF-8; they would
// not read back byte for byte.
func checkEncodable(txn model.Transaction) error {
	for _, f := range []struct{ name, value string }{
		{"category", txn.Category},
		{"subcategory", txn.Subcategory},
		{"description", txn.Description},
	} {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%w: %s is not valid UTF-8", ErrUnencodable, f.name)
		}
	}
	return nil
}
