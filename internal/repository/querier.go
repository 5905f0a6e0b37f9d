package repository

import (
	"context"
	"database/sql"
)

// Querier is the subset of database/sql used by repositories. It is
// satisfied by both *sql.DB and *sql.Tx, so a repository can be rebound to a
// transaction with WithTx and reused inside a service-level transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
