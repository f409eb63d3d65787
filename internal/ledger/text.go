package ledger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

const (
	textDateFormat     = "02.01.2006"
	textDateTimeFormat = "02.01.2006 15:04:05"
)

// textLine matches
//
//	<dd.MM.yyyy[ HH:mm:ss]> - Категорія: <category> - Підкатегорія: <sub>, Сума: <amount>, Опис: <description>
//
// The description is the last field and runs to the end of the line.
var textLine = regexp.MustCompile(
	`^(\d{2}\.\d{2}\.\d{4}(?: \d{2}:\d{2}:\d{2})?) - Категорія: (.+?) - Підкатегорія: (.+?), Сума: (\S+), Опис: (.*)$`,
)

// TextCodec reads and writes the human-readable line format of older
// installations.
type TextCodec struct{}

// Format returns the codec name.
func (TextCodec) Format() string { return FormatText }

// Ext returns the file extension.
func (TextCodec) Ext() string { return ".txt" }

// Marshal renders txn as one text line (no trailing newline).
func (TextCodec) Marshal(txn model.Transaction) (string, error) {
	if err := checkEncodable(txn); err != nil {
		return "", err
	}
	for field, v := range map[string]string{
		"category":    txn.Category,
		"subcategory": txn.Subcategory,
		"description": txn.Description,
	} {
		if strings.ContainsAny(v, "\r\n") {
			return "", fmt.Errorf("%w: %s contains a line break", ErrUnencodable, field)
		}
	}
	if strings.Contains(txn.Category, " - ") || strings.Contains(txn.Subcategory, ", Сума: ") {
		return "", fmt.Errorf("%w: category names clash with field separators", ErrUnencodable)
	}

	layout := textDateFormat
	if txn.HasTime() {
		layout = textDateTimeFormat
	}
	return fmt.Sprintf("%s - Категорія: %s - Підкатегорія: %s, Сума: %s, Опис: %s",
		txn.Timestamp.Format(layout),
		txn.Category,
		txn.Subcategory,
		FormatAmount(txn.Amount),
		txn.Description,
	), nil
}

// Unmarshal parses one text line.
func (TextCodec) Unmarshal(line string) (model.Transaction, error) {
	m := textLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return model.Transaction{}, fmt.Errorf("line does not match the record format")
	}

	layout := textDateFormat
	if len(m[1]) > len(textDateFormat) {
		layout = textDateTimeFormat
	}
	ts, err := time.Parse(layout, m[1])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", m[1], err)
	}

	amount, err := decimal.NewFromString(m[4])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", m[4], err)
	}

	txn := model.Transaction{
		Timestamp:   ts,
		Category:    m[2],
		Subcategory: m[3],
		Amount:      amount,
		Description: m[5],
	}
	if err := checkDecoded(txn); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}
