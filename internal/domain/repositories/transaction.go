package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. Every multi-step effect
// in this core (accepting a pending change, merging, committing a version)
// runs inside ExecTx so it is atomic: all effects visible or none.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
