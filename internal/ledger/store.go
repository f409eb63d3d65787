package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fintrack-dev/fintrack/internal/lineio"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// MaxRecordBytes is the longest encoded record Encode and Append accept.
const MaxRecordBytes = 64 << 10

// maxLineBytes is the longest line Decode parses. Longer lines are skipped.
// It is larger than MaxRecordBytes so files written by older versions with
// a looser limit still load.
const maxLineBytes = 1 << 20

// LineError describes a persisted line that could not be parsed.
type LineError struct {
	Line int // 1-based
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// LoadResult is the outcome of reading a ledger file. Malformed lines are
// skipped and reported in Skipped; they never abort the load.
type LoadResult struct {
	Transactions []model.Transaction
	Skipped      []LineError
}

// Store keeps one append-only file per user under dir.
type Store struct {
	dir    string
	codec  Codec
	logger *log.Logger
}

// NewStore creates a Store writing files with codec under dir.
func NewStore(dir string, codec Codec, logger *log.Logger) *Store {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Store{dir: dir, codec: codec, logger: logging.OrDiscard(logger)}
}

// Codec returns the active record codec.
func (s *Store) Codec() Codec {
	return s.codec
}

// Path returns the ledger file for user.
func (s *Store) Path(user string) string {
	return filepath.Join(s.dir, user+"_transactions"+s.codec.Ext())
}

// Encode renders txn in the store's record format without writing it.
// Records longer than MaxRecordBytes are rejected with ErrUnencodable.
func (s *Store) Encode(txn model.Transaction) (string, error) {
	line, err := s.codec.Marshal(txn)
	if err != nil {
		return "", err
	}
	if len(line) > MaxRecordBytes {
		return "", fmt.Errorf("%w: record is %d bytes, limit is %d", ErrUnencodable, len(line), MaxRecordBytes)
	}
	return line, nil
}

// LoadAll reads every transaction for user in file order. A missing file
// yields an empty result. On a read error the transactions read before it
// are returned along with the error.
func (s *Store) LoadAll(user string) (LoadResult, error) {
	path := s.Path(user)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadResult{}, nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	res, err := Decode(f, s.codec)
	for _, le := range res.Skipped {
		s.logger.Warn("skipped malformed ledger line", "user", user, "line", le.Line, "error", le.Err)
	}
	if err != nil {
		return res, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return res, nil
}

// Append writes txn as one line at the end of the user's file, creating it
// if needed. The file is opened and closed on every call so each record is
// on disk when Append returns.
func (s *Store) Append(user string, txn model.Transaction) (err error) {
	line, err := s.Encode(txn)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	path := s.Path(user)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing ledger: %w", cerr)
		}
	}()

	// A torn final line from an earlier crash must not swallow this record.
	prefix, err := needsNewline(f)
	if err != nil {
		return fmt.Errorf("inspecting ledger: %w", err)
	}
	if prefix {
		line = "\n" + line
	}

	if _, err := io.WriteString(f, line+"\n"); err != nil {
		return fmt.Errorf("appending to ledger: %w", err)
	}
	return f.Sync()
}

// Decode reads line-delimited records from r. Blank lines are ignored.
// Lines that do not parse, or are longer than the decoder accepts, are
// reported in Skipped and reading continues. On a read error the records
// decoded so far are returned with the error.
func Decode(r io.Reader, codec Codec) (LoadResult, error) {
	var res LoadResult
	err := lineio.Scan(r, maxLineBytes, func(l lineio.Line) {
		if l.Err != nil {
			res.Skipped = append(res.Skipped, LineError{Line: l.Number, Err: l.Err})
			return
		}
		line := l.Text
		if l.Number == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			return
		}
		txn, err := codec.Unmarshal(line)
		if err != nil {
			res.Skipped = append(res.Skipped, LineError{Line: l.Number, Err: err})
			return
		}
		res.Transactions = append(res.Transactions, txn)
	})
	return res, err
}

func needsNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}
