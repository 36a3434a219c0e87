// Package unitofwork scopes data access to a single request. A unit of work
// pins one connection from the pool, constructs its repositories up front,
// and releases the connection on Close.
package unitofwork

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dbalakin/userman/internal/server/repositories/users"
)

// UnitOfWork is the request-scoped repository bundle. Not safe for
// concurrent use; every request begins its own.
type UnitOfWork interface {
	// Users returns the user repository bound to this unit's connection.
	Users() users.Repository

	// Save commits any pending mutations and returns the number of
	// affected rows. The repositories flush after every mutating
	// operation, so this is normally a no-op kept for explicit final
	// commits.
	Save(ctx context.Context) (int64, error)

	// Close releases the unit's connection. Always call it, usually via
	// defer, or the pool leaks a connection.
	Close() error
}

// Factory builds units of work over a shared pool.
type Factory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

type postgresUnitOfWork struct {
	conn  *sql.Conn
	users users.Repository
}

func (u *postgresUnitOfWork) Users() users.Repository { return u.users }

func (u *postgresUnitOfWork) Save(ctx context.Context) (int64, error) {
	return u.users.Save(ctx)
}

func (u *postgresUnitOfWork) Close() error { return u.conn.Close() }

// PostgresFactory builds SQL-backed units of work.
type PostgresFactory struct {
	db                          *sql.DB
	secretKey                   []byte
	accessTokenValidityDuration time.Duration
}

func NewPostgresFactory(db *sql.DB, secretKey []byte, accessTokenValidityDuration time.Duration) *PostgresFactory {
	return &PostgresFactory{
		db:                          db,
		secretKey:                   secretKey,
		accessTokenValidityDuration: accessTokenValidityDuration,
	}
}

// Begin pins a connection and constructs the repositories eagerly, so a
// broken pool surfaces here rather than on first repository use.
func (f *PostgresFactory) Begin(ctx context.Context) (UnitOfWork, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &postgresUnitOfWork{
		conn:  conn,
		users: users.NewPostgresRepository(conn, f.secretKey, f.accessTokenValidityDuration),
	}, nil
}
