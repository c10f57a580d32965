// Package storage holds the backends that keep the goods document.
// Every backend reads and writes the whole document at once.
package storage

import (
	"context"
	"errors"
)

// ErrUnavailable wraps every backend failure
var ErrUnavailable = errors.New("storage unavailable")

// EmptyDocument is the content of a ledger with no records
var EmptyDocument = []byte("[]")

// Store loads and saves the whole goods document
type Store interface {
	// Load returns the current document bytes
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the document with data
	Save(ctx context.Context, data []byte) error
	// Driver names the backend for logs and metrics
	Driver() string
}
