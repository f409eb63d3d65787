package activitylog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Actions recorded by the session service.
const (
	ActionRegister    = "register"
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionLoad        = "load"
	ActionRecord      = "record"
	ActionImport      = "import"
	ActionClose       = "close"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	SessionID string
	User      string
	Action    string
	Details   string
}

// Header is the CSV header for activity-log.csv.
const Header = "timestamp,session_id,user,action,details"

const (
	numFields    = 5
	logDir       = "logs"
	logFile      = "activity-log.csv"
	colTimestamp = 0
	colSession   = 1
	colUser      = 2
	colAction    = 3
	colDetails   = 4
)

// Path returns the activity log location under root.
func Path(root string) string {
	return filepath.Join(root, logDir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colSession] = e.SessionID
	row[colUser] = e.User
	row[colAction] = e.Action
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		SessionID: record[colSession],
		User:      record[colUser],
		Action:    record[colAction],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <root>/logs/activity-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(root)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/activity-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorder buffers entries for one root and writes them on Flush.
type Recorder struct {
	root    string
	entries []Entry
	now     func() time.Time
}

// NewRecorder creates a Recorder writing under root. An empty root yields a
// Recorder that keeps entries in memory only.
func NewRecorder(root string) *Recorder {
	return &Recorder{root: root, now: time.Now}
}

// Add buffers one entry stamped with the current time.
func (r *Recorder) Add(sessionID, user, action, details string) {
	r.entries = append(r.entries, Entry{
		Timestamp: r.now().UTC(),
		SessionID: sessionID,
		User:      user,
		Action:    action,
		Details:   details,
	})
}

// Entries returns the entries buffered since the last Flush.
func (r *Recorder) Entries() []Entry {
	return r.entries
}

// Flush appends buffered entries to the log and clears the buffer.
func (r *Recorder) Flush() error {
	if r.root == "" || len(r.entries) == 0 {
		r.entries = nil
		return nil
	}
	if err := Append(r.root, r.entries); err != nil {
		return err
	}
	r.entries = nil
	return nil
}
