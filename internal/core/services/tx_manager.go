package services

import (
	"context"
	"database/sql"

	"github.com/souravsouru7/barbez/internal/plugins/postgres"
)

// TxManager runs a function inside one database transaction, carried through
// the context so repositories pick it up transparently.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

func (tm *TxManager) WithTx(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {
	if tm.db == nil {
		return fn(ctx)
	}
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(postgres.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
