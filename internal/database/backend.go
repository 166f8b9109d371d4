package database

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/tourism/internal/config"
)

// ErrInvalidDatabaseURL is returned for a DATABASE_URL that cannot be used.
var ErrInvalidDatabaseURL = errors.New("invalid database url")

// Backend is one relational engine the application can run on.
// Exactly one is selected at startup; callers never branch on it.
type Backend interface {
	// Name is a short identifier ("sqlite", "postgres", "mysql").
	Name() string
	// Local reports whether this is the embedded file-based engine.
	Local() bool
	// DriverName is the database/sql driver name, also used for sqlx bind types.
	DriverName() string
	DSN() string
	// Describe returns a loggable form of the connection target without credentials.
	Describe() string
	// Prepare runs before the first connection is opened.
	Prepare() error
	Dialector(db *sql.DB) gorm.Dialector
	SessionStore(db *sql.DB) scs.Store
	SessionTableDDL() []string
	IsDuplicateKey(err error) bool
}

// SelectBackend picks the backend for cfg. An empty URL selects the local
// SQLite file; postgres:// and mysql:// URLs select the networked engines.
func SelectBackend(cfg config.Database) (Backend, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		path := cfg.Path
		if path == "" {
			path = config.DefaultDatabasePath
		}
		return &sqliteBackend{path: path}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDatabaseURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return newPostgresBackend(u)
	case "mysql":
		return newMySQLBackend(u)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidDatabaseURL, u.Scheme)
	}
}

// connInfo is the parsed form of a cloud connection string.
type connInfo struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Params   url.Values
}

func parseConnInfo(u *url.URL, defaultPort string) (connInfo, error) {
	info := connInfo{
		Host:     u.Hostname(),
		Port:     u.Port(),
		Database: strings.TrimPrefix(u.Path, "/"),
		Params:   u.Query(),
	}
	if u.User != nil {
		info.User = u.User.Username()
		info.Password, _ = u.User.Password()
	}
	if info.Port == "" {
		info.Port = defaultPort
	}
	if info.Host == "" {
		return connInfo{}, fmt.Errorf("%w: missing host", ErrInvalidDatabaseURL)
	}
	if info.Database == "" {
		return connInfo{}, fmt.Errorf("%w: missing database name", ErrInvalidDatabaseURL)
	}
	return info, nil
}

func (i connInfo) describe(scheme string) string {
	u := url.URL{Scheme: scheme, Host: net.JoinHostPort(i.Host, i.Port), Path: "/" + i.Database}
	if i.User != "" {
		u.User = url.User(i.User)
	}
	return u.String()
}

// --- SQLite (local) ---

type sqliteBackend struct {
	path string
}

func (b *sqliteBackend) Name() string       { return "sqlite" }
func (b *sqliteBackend) Local() bool        { return true }
func (b *sqliteBackend) DriverName() string { return "sqlite3" }
func (b *sqliteBackend) Describe() string   { return "sqlite://" + b.path }

// DSN enables foreign keys and waits on a locked database instead of failing.
func (b *sqliteBackend) DSN() string {
	return "file:" + b.path + "?_foreign_keys=on&_busy_timeout=5000"
}

func (b *sqliteBackend) Prepare() error {
	dir := filepath.Dir(b.path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

func (b *sqliteBackend) Dialector(db *sql.DB) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: b.DriverName(), Conn: db})
}

func (b *sqliteBackend) SessionStore(db *sql.DB) scs.Store {
	return sqlite3store.New(db)
}

func (b *sqliteBackend) SessionTableDDL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry)`,
	}
}

func (b *sqliteBackend) IsDuplicateKey(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// --- PostgreSQL (cloud) ---

type postgresBackend struct {
	info connInfo
	dsn  string
}

func newPostgresBackend(u *url.URL) (*postgresBackend, error) {
	info, err := parseConnInfo(u, "5432")
	if err != nil {
		return nil, err
	}
	// lib/pq only accepts the postgres:// and postgresql:// spellings in lower case
	u.Scheme = strings.ToLower(u.Scheme)
	dsn, err := pq.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDatabaseURL, err)
	}
	return &postgresBackend{info: info, dsn: dsn}, nil
}

func (b *postgresBackend) Name() string       { return "postgres" }
func (b *postgresBackend) Local() bool        { return false }
func (b *postgresBackend) DriverName() string { return "postgres" }
func (b *postgresBackend) DSN() string        { return b.dsn }
func (b *postgresBackend) Describe() string   { return b.info.describe("postgres") }
func (b *postgresBackend) Prepare() error     { return nil }

func (b *postgresBackend) Dialector(db *sql.DB) gorm.Dialector {
	return postgres.New(postgres.Config{Conn: db})
}

func (b *postgresBackend) SessionStore(db *sql.DB) scs.Store {
	return postgresstore.New(db)
}

func (b *postgresBackend) SessionTableDDL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BYTEA NOT NULL,
			expiry TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions (expiry)`,
	}
}

func (b *postgresBackend) IsDuplicateKey(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// --- MySQL (cloud) ---

type mysqlBackend struct {
	info connInfo
	dsn  string
}

func newMySQLBackend(u *url.URL) (*mysqlBackend, error) {
	info, err := parseConnInfo(u, "3306")
	if err != nil {
		return nil, err
	}

	cfg := mysqldriver.NewConfig()
	cfg.User = info.User
	cfg.Passwd = info.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(info.Host, info.Port)
	cfg.DBName = info.Database
	cfg.ParseTime = true
	// Report matched rather than changed rows so no-op updates still count as found.
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	for key := range info.Params {
		switch key {
		case "parseTime":
			cfg.ParseTime = info.Params.Get(key) != "false"
		default:
			cfg.Params[key] = info.Params.Get(key)
		}
	}

	return &mysqlBackend{info: info, dsn: cfg.FormatDSN()}, nil
}

func (b *mysqlBackend) Name() string       { return "mysql" }
func (b *mysqlBackend) Local() bool        { return false }
func (b *mysqlBackend) DriverName() string { return "mysql" }
func (b *mysqlBackend) DSN() string        { return b.dsn }
func (b *mysqlBackend) Describe() string   { return b.info.describe("mysql") }
func (b *mysqlBackend) Prepare() error     { return nil }

func (b *mysqlBackend) Dialector(db *sql.DB) gorm.Dialector {
	return gormmysql.New(gormmysql.Config{Conn: db, SkipInitializeWithVersion: true})
}

func (b *mysqlBackend) SessionStore(db *sql.DB) scs.Store {
	return mysqlstore.New(db)
}

func (b *mysqlBackend) SessionTableDDL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			token CHAR(43) PRIMARY KEY,
			data BLOB NOT NULL,
			expiry TIMESTAMP(6) NOT NULL,
			INDEX sessions_expiry_idx (expiry)
		)`,
	}
}

func (b *mysqlBackend) IsDuplicateKey(err error) bool {
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}
