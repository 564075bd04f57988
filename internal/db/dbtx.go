package db

import (
	"context"
	"database/sql"
)

// DBTX is what the ledger repositories execute against. A repository built
// on the pool runs each statement on its own; one built on a transaction
// joins the unit of work that owns it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
