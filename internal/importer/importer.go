// Package importer reads ledgers written by older installations and records
// their transactions into the current store.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fintrack-dev/fintrack/internal/ledger"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/session"
)

// Parser converts a legacy ledger file into transactions.
type Parser interface {
	Parse(r io.Reader) (ledger.LoadResult, error)
	Format() string
	Ext() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a file waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TextParser{})
	r.Register(JSONParser{})
	return r
}

// Canonicalizer maps localized category names to canonical ones.
type Canonicalizer interface {
	Canonical(category, subcategory string) (string, string)
}

// Recorder is the single mutation entry point imported records go through.
type Recorder interface {
	RecordTransaction(p session.RecordParams) (model.Transaction, error)
}

// Rejected is a parsed record the ledger refused.
type Rejected struct {
	Transaction model.Transaction
	Err         error
}

// Result summarizes one import.
type Result struct {
	Imported int
	Skipped  []ledger.LineError
	Rejected []Rejected
}

// Import records every transaction in res through rec, mapping names with
// canon first. Validation failures are collected in Result.Rejected; a
// persistence failure stops the import.
func Import(rec Recorder, canon Canonicalizer, res ledger.LoadResult) (Result, error) {
	out := Result{Skipped: res.Skipped}
	for _, txn := range res.Transactions {
		category, sub := canon.Canonical(txn.Category, txn.Subcategory)
		_, err := rec.RecordTransaction(session.RecordParams{
			Category:    category,
			Subcategory: sub,
			Amount:      txn.Amount,
			Description: txn.Description,
			Timestamp:   txn.Timestamp,
		})
		var verrs session.ValidationErrors
		switch {
		case err == nil:
			out.Imported++
		case errors.As(err, &verrs):
			out.Rejected = append(out.Rejected, Rejected{Transaction: txn, Err: err})
		default:
			return out, fmt.Errorf("importing record %d: %w", out.Imported+len(out.Rejected)+1, err)
		}
	}
	return out, nil
}

// ImportFile parses path with p and imports the result.
func ImportFile(rec Recorder, canon Canonicalizer, p Parser, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := p.Parse(f)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s as %s: %w", path, p.Format(), err)
	}
	return Import(rec, canon, res)
}

// importDir is the subdirectory for files waiting to be imported.
const importDir = "import"

// processedDir is the subdirectory for imported files.
const processedDir = "import/processed"

// Scan returns the files in <root>/import/ whose extension is ext.
func Scan(root, ext string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
