// Package transaction carries an open *sqlx.Tx through a context so that
// DAO calls made inside db.TX join the surrounding transaction.
package transaction

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type txContextKey struct{}

// WithTx returns a context that carries tx.
func WithTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// FromContext returns the transaction stored by WithTx, if any.
func FromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*sqlx.Tx)
	return tx, ok
}
