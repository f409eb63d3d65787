package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/fintrack-dev/fintrack/internal/categories"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/credentials"
	"github.com/fintrack-dev/fintrack/internal/gitops"
	"github.com/fintrack-dev/fintrack/internal/ledger"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/session"
)

// Environment fallbacks for the credential flags.
const (
	EnvUser     = "FINTRACK_USER"
	EnvPassword = "FINTRACK_PASSWORD"
)

type globalOptions struct {
	dir      string
	user     string
	password string
}

func (o *globalOptions) credentials() (string, string, error) {
	user, password := o.user, o.password
	if user == "" {
		user = os.Getenv(EnvUser)
	}
	if password == "" {
		password = os.Getenv(EnvPassword)
	}
	if user == "" || password == "" {
		return "", "", fmt.Errorf("username and password are required (--user/--password or $%s/$%s)", EnvUser, EnvPassword)
	}
	return user, password, nil
}

// app is the set of stores and services one command invocation works with.
type app struct {
	base    string
	cfg     *config.Config
	catalog *categories.Service
	svc     *session.Service
	logger  *log.Logger
}

func openApp(dir string) (*app, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadDir(base)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logging.Init(cfg.Logging.Level)

	codec, err := ledger.CodecFor(cfg.Ledger.Format)
	if err != nil {
		return nil, err
	}
	scheme, err := credentials.ParseScheme(cfg.Credentials.HashScheme)
	if err != nil {
		return nil, err
	}

	creds := credentials.NewStore(cfg.UsersFile(base), scheme, logging.Logger(logging.SourceCredentials))
	store := ledger.NewStore(cfg.LedgerDir(base), codec, logging.Logger(logging.SourceLedger))
	catalog := categories.NewDefault()
	svc := session.NewService(creds, store, catalog, session.Options{
		ActivityRoot: cfg.DataRoot(base),
		Logger:       logging.Logger(logging.SourceSession),
	})

	return &app{
		base:    base,
		cfg:     cfg,
		catalog: catalog,
		svc:     svc,
		logger:  logging.Logger(logging.SourceApp),
	}, nil
}

func (a *app) dataRoot() string {
	return a.cfg.DataRoot(a.base)
}

// withSession logs in, runs fn and closes the session.
func (a *app) withSession(opts *globalOptions, fn func(*session.Session) error) error {
	user, password, err := opts.credentials()
	if err != nil {
		return err
	}
	s, err := a.svc.Login(user, password)
	if err != nil {
		return err
	}
	defer s.Close()

	if rep := s.LoadReport(); rep.Err != nil {
		a.logger.Warn("ledger could not be read; showing an empty ledger", "error", rep.Err)
	}
	return fn(s)
}

// snapshot commits the data directory when git.auto_commit is on.
func (a *app) snapshot(message string) {
	if !a.cfg.Git.AutoCommit {
		return
	}
	root := a.dataRoot()
	if !gitops.IsRepo(root) {
		a.logger.Warn("git.auto_commit is set but the data directory is not a git repository", "dir", root)
		return
	}
	hash, err := gitops.Snapshot(root, message, a.cfg.Git.AuthorName, a.cfg.Git.AuthorEmail)
	if err != nil {
		a.logger.Warn("git snapshot failed", "error", err)
		return
	}
	if hash != "" {
		a.logger.Debug("git snapshot", "commit", hash)
	}
}

func isPersistError(err error) bool {
	var perr *session.PersistError
	return errors.As(err, &perr)
}
