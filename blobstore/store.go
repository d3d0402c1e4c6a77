package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when an artifact does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for reading and writing named artifacts.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put writes an artifact atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads an artifact. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns the names of all artifacts with the given prefix,
	// sorted in ascending order. Page artifacts are named so that this
	// order is the fetch order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes an artifact. Deleting a missing artifact is not an
	// error.
	Delete(ctx context.Context, name string) error
}
