package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/fintrack-dev/fintrack/internal/credentials"
	"github.com/fintrack-dev/fintrack/internal/ledger"
)

// FileName is the config file looked up in a project directory.
const FileName = "fintrack.yaml"

// Environment variables that override file settings.
const (
	EnvDataDir      = "FINTRACK_DATA_DIR"
	EnvLedgerFormat = "FINTRACK_LEDGER_FORMAT"
	EnvLogLevel     = "FINTRACK_LOG_LEVEL"
	EnvHashScheme   = "FINTRACK_HASH_SCHEME"
)

// Config represents the top-level fintrack.yaml configuration.
type Config struct {
	Data        DataConfig        `yaml:"data"`
	Ledger      LedgerConfig      `yaml:"ledger"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Logging     LoggingConfig     `yaml:"logging"`
	Git         GitConfig         `yaml:"git"`
}

// DataConfig locates the data files. Relative paths are resolved against
// the directory holding fintrack.yaml.
type DataConfig struct {
	Dir     string `yaml:"dir"`
	UserDir string `yaml:"user_dir"` // relative to Dir
}

// LedgerConfig selects the record format of transaction files.
type LedgerConfig struct {
	Format string `yaml:"format"` // "jsonl" or "text"
}

// CredentialsConfig controls the user file.
type CredentialsConfig struct {
	File       string `yaml:"file"`        // relative to Data.Dir
	HashScheme string `yaml:"hash_scheme"` // "sha256" or "bcrypt"
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git snapshots of the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a fintrack.yaml file from disk. Settings missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir loads <dir>/fintrack.yaml, falling back to Default when the file
// does not exist.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:     ".",
			UserDir: "userdata",
		},
		Ledger: LedgerConfig{
			Format: ledger.FormatJSONL,
		},
		Credentials: CredentialsConfig{
			File:       "users.txt",
			HashScheme: string(credentials.SchemeSHA256),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "fintrack",
			AuthorEmail: "fintrack@localhost",
		},
	}
}

// ApplyEnv overrides settings from environment variables read via getenv.
// Empty values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := getenv(EnvLedgerFormat); v != "" {
		c.Ledger.Format = strings.ToLower(v)
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := getenv(EnvHashScheme); v != "" {
		c.Credentials.HashScheme = strings.ToLower(v)
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Data.Dir == "" {
		errs = append(errs, errors.New("data.dir is empty"))
	}
	if c.Data.UserDir == "" {
		errs = append(errs, errors.New("data.user_dir is empty"))
	}
	if _, err := ledger.CodecFor(c.Ledger.Format); err != nil {
		errs = append(errs, fmt.Errorf("ledger.format: %w", err))
	}
	if c.Credentials.File == "" {
		errs = append(errs, errors.New("credentials.file is empty"))
	}
	if _, err := credentials.ParseScheme(c.Credentials.HashScheme); err != nil {
		errs = append(errs, fmt.Errorf("credentials.hash_scheme: %w", err))
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Git.AutoCommit && (c.Git.AuthorName == "" || c.Git.AuthorEmail == "") {
		errs = append(errs, errors.New("git.auto_commit needs author_name and author_email"))
	}
	return errors.Join(errs...)
}

// DataRoot returns the data directory for a config loaded from base.
func (c *Config) DataRoot(base string) string {
	return resolve(base, c.Data.Dir)
}

// UsersFile returns the path of the credential file.
func (c *Config) UsersFile(base string) string {
	return resolve(c.DataRoot(base), c.Credentials.File)
}

// LedgerDir returns the directory holding per-user transaction files.
func (c *Config) LedgerDir(base string) string {
	return resolve(c.DataRoot(base), c.Data.UserDir)
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
