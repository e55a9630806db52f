package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	"homebase/internal/errors"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ref names the row a statement targets, for not-found errors.
type ref struct {
	kind string
	id   string
}

func (r ref) notFound() error { return errors.NewNotFoundError(r.kind, r.id) }

func dbError(operation string, err error) error {
	return errors.NewDatabaseError(operation, err)
}

// noRows turns sql.ErrNoRows into a not-found error for r and leaves other
// errors alone.
func noRows(err error, r ref) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return r.notFound()
	}
	return err
}

// requireRow fails with not-found when a statement touched nothing.
func requireRow(result sql.Result, r ref) error {
	n, err := result.RowsAffected()
	switch {
	case err != nil:
		return dbError("get rows affected", err)
	case n == 0:
		return r.notFound()
	}
	return nil
}

// insert runs an INSERT and reports the rowid it produced.
func insert(ctx context.Context, q querier, query string, args ...interface{}) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, dbError("execute query", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, dbError("get last insert ID", err)
	}
	return id, nil
}

// execOne runs a statement that must touch the row named by r.
func execOne(ctx context.Context, q querier, r ref, query string, args ...interface{}) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return dbError("execute query", err)
	}
	return requireRow(result, r)
}

// execCount runs a bulk statement and returns the number of rows it touched.
func execCount(ctx context.Context, q querier, operation string, query string, args ...interface{}) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, dbError(operation, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, dbError("get rows affected", err)
	}
	return n, nil
}

func queryOne[T any](ctx context.Context, q querier, r ref, scan func(Scanner) (*T, error), query string, args ...interface{}) (*T, error) {
	v, err := scan(q.QueryRowContext(ctx, query, args...))
	if err == nil {
		return v, nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, r.notFound()
	}
	return nil, dbError("scan "+r.kind, err)
}

func queryAll[T any](ctx context.Context, q querier, kind string, scan func(Rows) ([]*T, error), query string, args ...interface{}) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("query "+kind, err)
	}
	defer rows.Close()

	out, err := scan(rows)
	if err != nil {
		return nil, dbError("scan "+kind, err)
	}
	return out, nil
}
