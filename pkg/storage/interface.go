// Package storage declares the persistence contracts used by the calculator
// service. Backends live in sub-packages.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// AllStorage is every capability a backend offers, inside or outside a
// transaction.
type AllStorage interface {
	CalculationStorage
	JobStorage
}

// TxStorage is a storage handle bound to an open transaction. It must not be
// used after Commit or Rollback.
type TxStorage interface {
	AllStorage

	Commit() error
	Rollback() error
}

// Storage is the root handle returned by a backend constructor.
type Storage interface {
	AllStorage

	// Close releases the connection pool.
	Close() error

	// Begin opens a transaction. It fails with ErrAlreadyInTx on a
	// transactional handle.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx runs cb in a transaction, committing when cb returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
