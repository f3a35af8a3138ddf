package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx used by repositories. Both pools and
// transactions satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Transactor runs a unit of work inside a single transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) error
}

// TxBeginner is implemented by *pgxpool.Pool.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// PgxTransactor commits when fn returns nil and rolls back on error or panic.
type PgxTransactor struct {
	db   TxBeginner
	opts pgx.TxOptions
}

// NewTransactor wraps db.
func NewTransactor(db TxBeginner) *PgxTransactor {
	return &PgxTransactor{db: db}
}

// WithinTx runs fn in a transaction. Panics are rethrown after rollback.
func (t *PgxTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) (err error) {
	tx, err := t.db.BeginTx(ctx, t.opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("commit tx: %w", commitErr)
		}
	}()

	return fn(ctx, tx)
}
