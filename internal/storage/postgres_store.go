package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/moodcheck/internal/constants"
	"github.com/julianstephens/moodcheck/internal/logger"
	"github.com/julianstephens/moodcheck/internal/migration"
	"github.com/julianstephens/moodcheck/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	s := &PostgresStore{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

// IsPostgresConnString reports whether the config value names a PostgreSQL database.
func IsPostgresConnString(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func (s *PostgresStore) ensureSearchPath() {
	if IsPostgresConnString(s.connStr) {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
		return
	}
	if !hasDSNParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasDSNParam reports whether a DSN-style (space-separated key=value) connection
// string contains the given key, case-insensitively.
func hasDSNParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasDSNParam(connStr, "sslmode")
}

// ValidateConnString checks that a connection string is a valid PostgreSQL
// URI or DSN and that it does not carry a password.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if IsPostgresConnString(connStr) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		return nil
	}

	if hasDSNParam(connStr, "password") {
		return ErrEmbeddedCredentials
	}
	return nil
}

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	return nil
}

func (s *PostgresStore) Init() error {
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.ApplyMigrations(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *PostgresStore) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunnerWithDialect(s.db, subFS, migration.DialectPostgres), nil
}

// PendingMigrations reports how many embedded migrations are not yet applied.
func (s *PostgresStore) PendingMigrations() (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("storage not loaded")
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.Pending()
}

func (s *PostgresStore) Get(key string) ([]byte, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *PostgresStore) Put(key string, value []byte) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(key string) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	if _, err := s.db.Exec("DELETE FROM kv WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) GetConfigPath() string {
	// Non-sensitive identifier instead of the connection string
	return "postgresql"
}
