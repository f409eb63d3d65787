package importer

import (
	"io"

	"github.com/fintrack-dev/fintrack/internal/ledger"
)

// TextParser reads the line-oriented text ledger. Malformed lines are
// skipped and reported.
type TextParser struct{}

// Format returns the parser name.
func (TextParser) Format() string { return "text" }

// Ext returns the file extension of text ledgers.
func (TextParser) Ext() string { return ".txt" }

// Parse decodes every line of r.
func (TextParser) Parse(r io.Reader) (ledger.LoadResult, error) {
	return ledger.Decode(r, ledger.TextCodec{})
}
