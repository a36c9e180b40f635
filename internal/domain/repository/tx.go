package repository

import "context"

// TxManager runs a function inside a single store transaction.
//
// Every repository call made with the context passed to fn observes the same
// transaction. If fn returns an error the transaction is rolled back in full;
// otherwise it is committed. Each public business operation executes exactly
// one such transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
