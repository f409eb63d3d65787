package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

const (
	jsonDateFormat = "2006-01-02"
	jsonTimeFormat = "15:04:05"
)

type jsonRecord struct {
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// JSONCodec stores one JSON object per line.
type JSONCodec struct{}

// Format returns the codec name.
func (JSONCodec) Format() string { return FormatJSONL }

// Ext returns the file extension.
func (JSONCodec) Ext() string { return ".jsonl" }

// Marshal renders txn as a single-line JSON object.
func (JSONCodec) Marshal(txn model.Transaction) (string, error) {
	if err := checkEncodable(txn); err != nil {
		return "", err
	}
	rec := jsonRecord{
		Date:        txn.Timestamp.Format(jsonDateFormat),
		Category:    txn.Category,
		Subcategory: txn.Subcategory,
		Amount:      FormatAmount(txn.Amount),
		Description: txn.Description,
	}
	if txn.HasTime() {
		rec.Time = txn.Timestamp.Format(jsonTimeFormat)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnencodable, err)
	}
	// Encode terminates with a newline; the store adds its own.
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Unmarshal parses one JSON line.
func (JSONCodec) Unmarshal(line string) (model.Transaction, error) {
	var rec jsonRecord
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return model.Transaction{}, fmt.Errorf("decoding record: %w", err)
	}
	if dec.More() {
		return model.Transaction{}, fmt.Errorf("trailing data after record")
	}

	ts, err := time.Parse(jsonDateFormat, rec.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec.Date, err)
	}
	if rec.Time != "" {
		clock, err := time.Parse(jsonTimeFormat, rec.Time)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing time %q: %w", rec.Time, err)
		}
		ts = ts.Add(time.Duration(clock.Hour())*time.Hour +
			time.Duration(clock.Minute())*time.Minute +
			time.Duration(clock.Second())*time.Second)
	}

	amount, err := decimal.NewFromString(rec.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec.Amount, err)
	}

	txn := model.Transaction{
		Timestamp:   ts,
		Category:    rec.Category,
		Subcategory: rec.Subcategory,
		Amount:      amount,
		Description: rec.Description,
	}
	if err := checkDecoded(txn); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}
