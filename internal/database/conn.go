package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoRequestScope is returned by ConnFrom when RequestScope is not installed.
var ErrNoRequestScope = errors.New("no request-scoped database connection")

// Querier runs hand-written SQL and maps rows into structs by their db tags.
// Queries use ? placeholders; they are rebound for the active backend.
type Querier interface {
	Select(ctx context.Context, dest any, query string, args ...any) error
	Get(ctx context.Context, dest any, query string, args ...any) error
}

// Conn is a single checked-out connection. Its gorm handle and its sqlx
// methods share that connection, so a request sees one consistent session.
type Conn struct {
	gormDB  *gorm.DB
	xconn   *sqlx.Conn
	backend Backend
	once    sync.Once
	err     error
}

var _ Querier = (*Conn)(nil)

func newConn(ctx context.Context, root *gorm.DB, xconn *sqlx.Conn, backend Backend) *Conn {
	session := root.Session(&gorm.Session{Context: ctx, NewDB: true})
	session.Statement.ConnPool = xconn.Conn
	return &Conn{gormDB: session, xconn: xconn, backend: backend}
}

// Gorm returns a gorm handle bound to this connection.
func (c *Conn) Gorm() *gorm.DB {
	return c.gormDB
}

func (c *Conn) Backend() Backend {
	return c.backend
}

// Rebind converts ? placeholders to the backend's bind style.
func (c *Conn) Rebind(query string) string {
	return sqlx.Rebind(sqlx.BindType(c.backend.DriverName()), query)
}

func (c *Conn) Select(ctx context.Context, dest any, query string, args ...any) error {
	return c.xconn.SelectContext(ctx, dest, c.Rebind(query), args...)
}

func (c *Conn) Get(ctx context.Context, dest any, query string, args ...any) error {
	return c.xconn.GetContext(ctx, dest, c.Rebind(query), args...)
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func (c *Conn) IsDuplicateKey(err error) bool {
	return c.backend.IsDuplicateKey(err)
}

// Release returns the connection to the pool. Calling it again is a no-op.
func (c *Conn) Release() error {
	c.once.Do(func() {
		c.err = c.xconn.Close()
		if errors.Is(c.err, sql.ErrConnDone) {
			c.err = nil
		}
	})
	return c.err
}

const connContextKey = "database_conn"

type lazyConn struct {
	store *Store
	conn  *Conn
	err   error
	done  bool
}

// RequestScope installs a lazily acquired connection on every request.
// The connection is opened on the first ConnFrom call and released when
// the handler chain returns, including after a panic. Release errors are
// logged and dropped.
func (s *Store) RequestScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		lc := &lazyConn{store: s}
		c.Set(connContextKey, lc)

		defer func() {
			if lc.conn == nil {
				return
			}
			if err := lc.conn.Release(); err != nil {
				s.logger.Warn("failed to release connection",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
			}
		}()

		c.Next()
	}
}

// ConnFrom returns the request's connection, acquiring it on first use.
// A failed acquisition is remembered for the rest of the request.
func ConnFrom(c *gin.Context) (*Conn, error) {
	v, ok := c.Get(connContextKey)
	if !ok {
		return nil, ErrNoRequestScope
	}
	lc := v.(*lazyConn)
	if !lc.done {
		lc.done = true
		lc.conn, lc.err = lc.store.Acquire(c.Request.Context())
	}
	return lc.conn, lc.err
}
