// Package store defines the durable order store collaborator and its redis
// implementation. The store is the system of record: a put that succeeds here
// is the point after which the caller must never be told the order does not
// exist.
package store

import (
	"context"
	"errors"

	"Order-Intake-Service/pkg/order"
)

var (
	// ErrConflict is returned by PutNew when a record with the same orderID
	// already exists. A duplicate-key put never silently overwrites.
	ErrConflict = errors.New("order already exists")
	// ErrNotFound is returned by Get when no record exists for the orderID.
	ErrNotFound = errors.New("order not found")
)

// Store is the durable order store collaborator.
type Store interface {
	// PutNew persists a new record, failing with ErrConflict if the orderID
	// is already taken. Any other error means the record was not persisted.
	PutNew(ctx context.Context, rec order.Record) error
	// Get retrieves a record by orderID, or ErrNotFound.
	Get(ctx context.Context, orderID string) (order.Record, error)
	// UpdateStatus rewrites the status of an existing record. It also keeps
	// the enqueue-failed index current so the reconciler can find degraded
	// orders without scanning the whole keyspace.
	UpdateStatus(ctx context.Context, orderID string, status order.Status) error
	// ListEnqueueFailed returns the orderIDs currently indexed as
	// ENQUEUE_FAILED, for the reconciliation sweep.
	ListEnqueueFailed(ctx context.Context) ([]string, error)
}
