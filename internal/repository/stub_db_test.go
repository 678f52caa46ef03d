package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// assignScan copies values into scan destinations. A nil value leaves the
// destination zeroed, which is how pgx treats NULL for pointer targets.
func assignScan(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values for %d destinations", len(values), len(dest))
	}
	for i, value := range values {
		if value == nil {
			continue
		}
		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Pointer {
			return errors.New("scan target is not a pointer")
		}
		source := reflect.ValueOf(value)
		if !source.Type().AssignableTo(target.Elem().Type()) {
			return fmt.Errorf("scan: cannot assign %T to %s", value, target.Elem().Type())
		}
		target.Elem().Set(source)
	}
	return nil
}

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assignScan(r.values, dest)
}

type stubRows struct {
	rows   [][]any
	err    error
	index  int
	closed bool
}

func (r *stubRows) Close()                                       { r.closed = true }
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error)                       { return r.rows[r.index-1], nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	if r.index >= len(r.rows) {
		return false
	}
	r.index++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	return assignScan(r.rows[r.index-1], dest)
}

type recordedCall struct {
	query string
	args  []any
}

type stubDBTX struct {
	execTag    pgconn.CommandTag
	execErr    error
	rows       *stubRows
	queryErr   error
	queryRowFn func(query string, args ...any) stubRow

	execs    []recordedCall
	queries  []recordedCall
	rowCalls []recordedCall
}

func (db *stubDBTX) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, recordedCall{query: query, args: args})
	return db.execTag, db.execErr
}

func (db *stubDBTX) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	db.queries = append(db.queries, recordedCall{query: query, args: args})
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	return db.rows, nil
}

func (db *stubDBTX) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	db.rowCalls = append(db.rowCalls, recordedCall{query: query, args: args})
	return db.queryRowFn(query, args...)
}
