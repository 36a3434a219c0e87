package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dbalakin/userman/internal/common"
	"github.com/dbalakin/userman/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// Conn is the database handle the store needs: plain query access plus the
// ability to open the commit transaction. *sql.DB and *sql.Conn satisfy it.
type Conn interface {
	dbx.DBTX
	dbx.TxBeginner
}

type opKind int

const (
	opInsert opKind = iota
	opUpdate
	opDelete
)

type mutation[T any] struct {
	kind   opKind
	entity T
	id     string
}

// PostgresStore is the SQL-backed Store implementation. It is request-scoped
// and not safe for concurrent use: every unit of work builds its own
// instance over its own connection.
//
// Mutations are enqueued and flushed by Save inside a single transaction.
// Matching the original data-access layer, Add/AddRange/Update/Delete call
// Save themselves right after enqueueing, so each operation commits its own
// batch and a later explicit Save finds nothing pending.
type PostgresStore[T any] struct {
	db      Conn
	schema  Schema[T]
	pending []mutation[T]

	selectAll  string
	selectOne  string
	existsStmt string
	insertStmt string
	updateStmt string
	deleteStmt string
}

func NewPostgresStore[T any](db Conn, schema Schema[T]) *PostgresStore[T] {
	cols := strings.Join(schema.Columns, ", ")
	idCol := schema.Columns[0]

	placeholders := make([]string, len(schema.Columns))
	for i := range schema.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	assignments := make([]string, 0, len(schema.Columns)-1)
	for i, col := range schema.Columns[1:] {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", col, i+2))
	}

	return &PostgresStore[T]{
		db:         db,
		schema:     schema,
		selectAll:  fmt.Sprintf("SELECT %s FROM %s", cols, schema.Table),
		selectOne:  fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", cols, schema.Table, idCol),
		existsStmt: fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)", schema.Table, idCol),
		insertStmt: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", schema.Table, cols, strings.Join(placeholders, ", ")),
		updateStmt: fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1", schema.Table, strings.Join(assignments, ", "), idCol),
		deleteStmt: fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Table, idCol),
	}
}

func (s *PostgresStore[T]) GetAll(ctx context.Context) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, s.selectAll)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		entity, err := s.schema.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (s *PostgresStore[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	entity, err := s.schema.Scan(s.db.QueryRowContext(ctx, s.selectOne, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, common.ErrorNotFound
		}
		return zero, fmt.Errorf("db error: %w", err)
	}

	return entity, nil
}

func (s *PostgresStore[T]) Find(ctx context.Context, predicate func(T) bool) ([]T, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(all))
	for _, entity := range all {
		if predicate(entity) {
			result = append(result, entity)
		}
	}

	return result, nil
}

func (s *PostgresStore[T]) Add(ctx context.Context, entity T) error {
	exists, err := s.exists(ctx, s.schema.ID(entity))
	if err != nil {
		return err
	}
	if exists {
		return common.ErrorConstraintViolation
	}

	s.pending = append(s.pending, mutation[T]{kind: opInsert, entity: entity})
	_, err = s.Save(ctx)
	return err
}

func (s *PostgresStore[T]) AddRange(ctx context.Context, entities []T) error {
	seen := make(map[string]struct{}, len(entities))
	for _, entity := range entities {
		id := s.schema.ID(entity)
		if _, dup := seen[id]; dup {
			return common.ErrorConstraintViolation
		}
		seen[id] = struct{}{}

		exists, err := s.exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrorConstraintViolation
		}
	}

	for _, entity := range entities {
		s.pending = append(s.pending, mutation[T]{kind: opInsert, entity: entity})
	}
	_, err := s.Save(ctx)
	return err
}

func (s *PostgresStore[T]) Update(ctx context.Context, entity T) error {
	exists, err := s.exists(ctx, s.schema.ID(entity))
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrorNotFound
	}

	s.pending = append(s.pending, mutation[T]{kind: opUpdate, entity: entity})
	_, err = s.Save(ctx)
	return err
}

func (s *PostgresStore[T]) Delete(ctx context.Context, id string) error {
	exists, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrorNotFound
	}

	s.pending = append(s.pending, mutation[T]{kind: opDelete, id: id})
	_, err = s.Save(ctx)
	return err
}

// Save flushes the pending batch inside one transaction. On success the
// batch is cleared; on failure it stays pending so the caller may retry.
func (s *PostgresStore[T]) Save(ctx context.Context) (int64, error) {
	if len(s.pending) == 0 {
		return 0, nil
	}

	var affected int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, m := range s.pending {
			var (
				res sql.Result
				err error
			)
			switch m.kind {
			case opInsert:
				res, err = tx.ExecContext(ctx, s.insertStmt, s.schema.Values(m.entity)...)
			case opUpdate:
				res, err = tx.ExecContext(ctx, s.updateStmt, s.schema.Values(m.entity)...)
			case opDelete:
				res, err = tx.ExecContext(ctx, s.deleteStmt, m.id)
			}
			if err != nil {
				return mapDBError(err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.pending = nil
	return affected, nil
}

func (s *PostgresStore[T]) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, s.existsStmt, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// mapDBError translates driver errors into the shared taxonomy. A concurrent
// insert can slip past the Add pre-check, so the unique-violation SQLSTATE
// still maps to the constraint error.
func mapDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return common.ErrorConstraintViolation
	}
	return fmt.Errorf("db error: %w", err)
}
