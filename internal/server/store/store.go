// Package store implements the entity-agnostic data access layer: a CRUD and
// predicate-query contract parameterized over an entity type with a string
// identifier, plus a PostgreSQL implementation driven by a per-entity schema
// adapter.
package store

import "context"

// Store is the generic persistence contract. T is an entity whose identifier
// is a string assigned by the caller before Add; the store never generates
// identifiers.
type Store[T any] interface {
	// GetAll returns every stored entity; an empty slice, not an error,
	// when none exist.
	GetAll(ctx context.Context) ([]T, error)

	// Get returns the entity with the given identifier or
	// common.ErrorNotFound.
	Get(ctx context.Context, id string) (T, error)

	// Find returns all entities satisfying the predicate, in store
	// iteration order.
	Find(ctx context.Context, predicate func(T) bool) ([]T, error)

	// Add inserts one entity; common.ErrorConstraintViolation when the
	// identifier already exists.
	Add(ctx context.Context, entity T) error

	// AddRange inserts a batch atomically.
	AddRange(ctx context.Context, entities []T) error

	// Update replaces the stored entity with the same identifier entirely;
	// common.ErrorNotFound when absent.
	Update(ctx context.Context, entity T) error

	// Delete removes the entity with the given identifier;
	// common.ErrorNotFound when absent.
	Delete(ctx context.Context, id string) error

	// Save commits the pending mutation batch in one transaction and
	// returns the number of affected rows. The mutating operations above
	// flush themselves, so an explicit Save on an idle store returns 0.
	Save(ctx context.Context) (int64, error)
}

// RowScanner is satisfied by both *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// Schema adapts one entity type to its backing table. Columns lists the
// column names with the identifier column first; Values must produce the
// column values in the same order.
type Schema[T any] struct {
	Table   string
	Columns []string
	ID      func(T) string
	Values  func(T) []any
	Scan    func(row RowScanner) (T, error)
}
