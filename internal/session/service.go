package session

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fintrack-dev/fintrack/internal/activitylog"
	"github.com/fintrack-dev/fintrack/internal/ledger"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/model"
)

// Credentials authenticates and registers users.
type Credentials interface {
	Authenticate(username, password string) bool
	Register(username, password string) error
}

// LedgerStore loads and appends a user's transactions.
type LedgerStore interface {
	LoadAll(user string) (ledger.LoadResult, error)
	Append(user string, txn model.Transaction) error
	Encode(txn model.Transaction) (string, error)
}

// Catalog is the taxonomy view the service needs: validation plus the
// display order used by breakdowns.
type Catalog interface {
	Taxonomy
	All() []model.Category
}

// Options configures a Service.
type Options struct {
	// ActivityRoot is the directory holding logs/activity-log.csv. Empty
	// disables the on-disk activity log.
	ActivityRoot string
	Logger       *log.Logger
}

// Service wires the credential store, ledger store and taxonomy together
// and hands out sessions.
type Service struct {
	creds        Credentials
	store        LedgerStore
	catalog      Catalog
	activityRoot string
	logger       *log.Logger
}

// NewService creates a Service.
func NewService(creds Credentials, store LedgerStore, catalog Catalog, opts Options) *Service {
	return &Service{
		creds:        creds,
		store:        store,
		catalog:      catalog,
		activityRoot: opts.ActivityRoot,
		logger:       logging.OrDiscard(opts.Logger),
	}
}

// Register creates a new user. It fails with credentials.ErrAlreadyExists
// for a taken username.
func (svc *Service) Register(username, password string) error {
	if err := svc.creds.Register(username, password); err != nil {
		return err
	}
	rec := activitylog.NewRecorder(svc.activityRoot)
	rec.Add("", username, activitylog.ActionRegister, "")
	if err := rec.Flush(); err != nil {
		svc.logger.Warn("writing activity log", "error", err)
	}
	return nil
}

// NewSession returns a session in the LoggedOut state.
func (svc *Service) NewSession() *Session {
	return &Session{
		svc:      svc,
		id:       uuid.New(),
		state:    StateLoggedOut,
		activity: activitylog.NewRecorder(svc.activityRoot),
		logger:   svc.logger,
	}
}

// Login is NewSession followed by Session.Login.
func (svc *Service) Login(username, password string) (*Session, error) {
	s := svc.NewSession()
	if err := s.Login(username, password); err != nil {
		return nil, err
	}
	return s, nil
}
