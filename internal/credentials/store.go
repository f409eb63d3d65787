package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/fintrack-dev/fintrack/internal/lineio"
	"github.com/fintrack-dev/fintrack/internal/logging"
)

var (
	// ErrAlreadyExists is returned by Register for a username already on file.
	ErrAlreadyExists = errors.New("username already exists")
	// ErrInvalidUsername is returned for usernames that cannot be stored.
	ErrInvalidUsername = errors.New("invalid username")
)

// MaxUsernameBytes bounds usernames so a credential line stays short and
// "<username>_transactions.jsonl" fits in a file name.
const MaxUsernameBytes = 64

// maxLineBytes is the longest credential line read; longer lines are
// skipped as malformed.
const maxLineBytes = 4 << 10

// Record is one line of the credential file.
type Record struct {
	Username     string
	PasswordHash string
}

// Store is an append-only username/password-hash file. Lines have the form
// "<username> <hash>". Two processes registering the same name at the same
// moment can both succeed; only a single process per file is supported.
type Store struct {
	path   string
	scheme Scheme
	logger *log.Logger
}

// NewStore creates a Store backed by the file at path. New registrations
// are hashed with scheme; verification accepts any known scheme.
func NewStore(path string, scheme Scheme, logger *log.Logger) *Store {
	if scheme == "" {
		scheme = SchemeSHA256
	}
	return &Store{path: path, scheme: scheme, logger: logging.OrDiscard(logger)}
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path
}

// ValidateUsername rejects names that would break the line format or the
// per-user file naming.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUsername)
	}
	if len(username) > MaxUsernameBytes {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidUsername, MaxUsernameBytes)
	}
	if strings.ContainsAny(username, `/\`) || username == "." || username == ".." {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidUsername, username)
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidUsername, username)
	}
	return nil
}

// Authenticate reports whether username exists with the given password.
// Any read failure is logged and treated as a failed login.
func (s *Store) Authenticate(username, password string) bool {
	records, err := s.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("reading credentials", "path", s.path, "error", err)
		}
		return false
	}
	for _, r := range records {
		if r.Username == username && verify(r.PasswordHash, password) {
			return true
		}
	}
	return false
}

// Exists reports whether a username is already registered.
func (s *Store) Exists(username string) (bool, error) {
	records, err := s.read()
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Register appends a new credential line. It returns ErrAlreadyExists
// without writing if the username is already present.
func (s *Store) Register(username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}

	exists, err := s.Exists(username)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, username)
	}

	hash, err := hashWith(s.scheme, password)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening credentials: %w", err)
	}
	if _, err := fmt.Fprintln(f, FormatRecord(Record{Username: username, PasswordHash: hash})); err != nil {
		f.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing credentials: %w", err)
	}

	s.logger.Info("registered user", "user", username, "scheme", string(s.scheme))
	return nil
}

func (s *Store) read() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	err = lineio.Scan(f, maxLineBytes, func(l lineio.Line) {
		if l.Err != nil {
			s.logger.Warn("skipped oversized credential line", "line", l.Number)
			return
		}
		r, ok := ParseRecord(l.Text)
		if !ok {
			return
		}
		records = append(records, r)
	})
	if err != nil {
		return nil, fmt.Errorf("reading credentials %s: %w", s.path, err)
	}
	return records, nil
}

// FormatRecord renders a credential line without the trailing newline.
func FormatRecord(r Record) string {
	return r.Username + " " + r.PasswordHash
}

// ParseRecord parses "<username> <hash>". Lines with any other shape are
// rejected.
func ParseRecord(line string) (Record, bool) {
	parts := strings.Split(strings.TrimRight(line, "\r"), " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Record{}, false
	}
	return Record{Username: parts[0], PasswordHash: parts[1]}, true
}
