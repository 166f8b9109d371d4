package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// database/sql drivers for the three backends
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/logging"
)

// Store owns the connection pool of the selected backend. Request handlers
// never use the pool directly; they work on a Conn checked out from it.
type Store struct {
	backend Backend
	sqlDB   *sql.DB
	gormDB  *gorm.DB
	sqlxDB  *sqlx.DB
	logger  *zap.Logger
}

// Open selects the backend from cfg and opens its pool. No query is issued,
// so an unreachable cloud database surfaces later as a per-request error.
func Open(cfg config.Database, logger *zap.Logger) (*Store, error) {
	backend, err := SelectBackend(cfg)
	if err != nil {
		return nil, err
	}
	return OpenBackend(backend, logger)
}

// OpenBackend opens a pool for an already selected backend.
func OpenBackend(backend Backend, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := backend.Prepare(); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(backend.DriverName(), backend.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend.Name(), err)
	}

	gormDB, err := gorm.Open(backend.Dialector(sqlDB), &gorm.Config{
		Logger: logging.NewGormLogger(logger),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("database selected",
		zap.String("backend", backend.Name()),
		zap.String("target", backend.Describe()),
	)

	return &Store{
		backend: backend,
		sqlDB:   sqlDB,
		gormDB:  gormDB,
		sqlxDB:  sqlx.NewDb(sqlDB, backend.DriverName()),
		logger:  logger,
	}, nil
}

func (s *Store) Backend() Backend {
	return s.backend
}

// SQLDB exposes the pool for components that need a plain *sql.DB,
// such as the session store.
func (s *Store) SQLDB() *sql.DB {
	return s.sqlDB
}

// SessionStore returns the scs store that matches the backend.
func (s *Store) SessionStore() scs.Store {
	return s.backend.SessionStore(s.sqlDB)
}

// Acquire checks out one connection for exclusive use until Release.
func (s *Store) Acquire(ctx context.Context) (*Conn, error) {
	xconn, err := s.sqlxDB.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s connection: %w", s.backend.Name(), err)
	}
	return newConn(ctx, s.gormDB, xconn, s.backend), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.sqlDB.Close()
}
