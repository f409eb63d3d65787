package session

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fintrack-dev/fintrack/internal/activitylog"
	"github.com/fintrack-dev/fintrack/internal/ledger"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/report"
)

// State is the lifecycle stage of a Session.
type State int

const (
	StateLoggedOut State = iota
	StateAuthenticating
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged-out"
	case StateAuthenticating:
		return "authenticating"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LoadReport describes how the ledger was read at login.
type LoadReport struct {
	Loaded  int
	Skipped []ledger.LineError
	// Err is set when the ledger file existed but could not be read in
	// full; the session keeps the records read before the error.
	Err error
}

// Session owns one user's in-memory ledger. It is not safe for concurrent
// use; callers drive it from a single goroutine.
type Session struct {
	svc      *Service
	id       uuid.UUID
	state    State
	user     string
	txns     []model.Transaction
	load     LoadReport
	pending  []model.Transaction
	activity *activitylog.Recorder
	logger   *log.Logger
}

// ID returns the session identifier used in the activity log.
func (s *Session) ID() string { return s.id.String() }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// User returns the authenticated username, or "" before login.
func (s *Session) User() string { return s.user }

// Login authenticates and, on success, loads the user's ledger and makes
// the session active. On failure the session returns to LoggedOut.
func (s *Session) Login(username, password string) error {
	if s.state != StateLoggedOut {
		return fmt.Errorf("%w: state is %s", ErrAlreadyStarted, s.state)
	}

	s.state = StateAuthenticating
	if !s.svc.creds.Authenticate(username, password) {
		s.state = StateLoggedOut
		s.logger.Info("login failed", "user", username)
		s.note(username, activitylog.ActionLoginFailed, "")
		return ErrInvalidCredentials
	}

	res, err := s.svc.store.LoadAll(username)
	if err != nil {
		s.logger.Warn("ledger read failed, keeping records read before the error",
			"user", username, "loaded", len(res.Transactions), "error", err)
	}
	s.user = username
	s.txns = res.Transactions
	s.load = LoadReport{Loaded: len(res.Transactions), Skipped: res.Skipped, Err: err}
	s.state = StateActive

	s.logger.Info("session started", "user", username, "session", s.ID(),
		"transactions", s.load.Loaded, "skipped", len(s.load.Skipped))
	s.note(username, activitylog.ActionLogin, "")
	s.note(username, activitylog.ActionLoad, fmt.Sprintf("%d loaded, %d skipped", s.load.Loaded, len(s.load.Skipped)))
	return nil
}

// RecordTransaction validates the input, appends the transaction to the
// in-memory ledger and persists it. This is the only way to add to the
// ledger.
//
// Inputs whose encoded record is invalid UTF-8 or longer than
// ledger.MaxRecordBytes are rejected as ValidationErrors.
//
// A *PersistError means the transaction is in memory (and returned) but has
// no durable copy; it is listed by Unpersisted.
func (s *Session) RecordTransaction(p RecordParams) (model.Transaction, error) {
	if s.state != StateActive {
		return model.Transaction{}, ErrNotActive
	}
	if errs := Validate(p, s.svc.catalog); len(errs) > 0 {
		return model.Transaction{}, errs
	}

	txn := model.Transaction{
		Timestamp:   model.NormalizeTimestamp(p.Timestamp),
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Amount:      p.Amount,
		Description: p.Description,
	}
	line, err := s.svc.store.Encode(txn)
	if err != nil {
		return model.Transaction{}, ValidationErrors{{Field: "description", Reason: err.Error()}}
	}
	if len(line) > ledger.MaxRecordBytes {
		return model.Transaction{}, ValidationErrors{{
			Field:  "description",
			Reason: fmt.Sprintf("record is %d bytes, limit is %d", len(line), ledger.MaxRecordBytes),
		}}
	}

	s.txns = append(s.txns, txn)
	if err := s.svc.store.Append(s.user, txn); err != nil {
		s.pending = append(s.pending, txn)
		s.logger.Error("persisting transaction", "user", s.user, "error", err)
		return txn, &PersistError{Transaction: txn, Err: err}
	}

	s.note(s.user, activitylog.ActionRecord,
		fmt.Sprintf("%s/%s %s", txn.Category, txn.Subcategory, report.Money(txn.Amount)))
	return txn, nil
}

// Transactions returns a copy of the ledger in entry order.
func (s *Session) Transactions() ([]model.Transaction, error) {
	if s.state != StateActive {
		return nil, ErrNotActive
	}
	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out, nil
}

// CurrentSummary recomputes the all-time balance from the full ledger.
func (s *Session) CurrentSummary() (model.BalanceSummary, error) {
	if s.state != StateActive {
		return model.BalanceSummary{}, ErrNotActive
	}
	return report.Summarize(report.BalanceLabel, s.txns), nil
}

// Breakdown returns per-category, per-subcategory sums with percentages.
func (s *Session) Breakdown() ([]report.CategoryBreakdown, error) {
	if s.state != StateActive {
		return nil, ErrNotActive
	}
	return report.ByCategoryAndSubcategory(s.txns, s.svc.catalog), nil
}

// Month summarizes one month-of-year across all years.
func (s *Session) Month(month int) (model.BalanceSummary, error) {
	if s.state != StateActive {
		return model.BalanceSummary{}, ErrNotActive
	}
	return report.ByMonth(s.txns, month)
}

// YearMonth summarizes a single calendar month.
func (s *Session) YearMonth(year, month int) (model.BalanceSummary, error) {
	if s.state != StateActive {
		return model.BalanceSummary{}, ErrNotActive
	}
	return report.ByYearMonth(s.txns, year, month)
}

// LoadReport returns diagnostics from the login-time ledger read.
func (s *Session) LoadReport() LoadReport {
	return s.load
}

// Unpersisted returns transactions that are in memory but failed to write.
func (s *Session) Unpersisted() []model.Transaction {
	out := make([]model.Transaction, len(s.pending))
	copy(out, s.pending)
	return out
}

// LogActivity adds a free-form entry to the activity log for this session.
func (s *Session) LogActivity(action, details string) {
	s.note(s.user, action, details)
}

// Close ends the session. Records are appended as they are made, so there
// is nothing left to write. Close is idempotent.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	wasActive := s.state == StateActive
	s.state = StateClosed
	if wasActive {
		s.note(s.user, activitylog.ActionClose, fmt.Sprintf("%d unpersisted", len(s.pending)))
		s.logger.Debug("session closed", "user", s.user, "session", s.ID())
	}
	s.txns = nil
	return nil
}

func (s *Session) note(user, action, details string) {
	s.activity.Add(s.ID(), user, action, details)
	if err := s.activity.Flush(); err != nil {
		s.logger.Warn("writing activity log", "error", err)
	}
}
