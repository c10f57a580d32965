package ledger

import "errors"

var (
	// ErrNotFound indicates no record has the requested id or transaction id.
	ErrNotFound = errors.New("product not found")

	// ErrStorageUnavailable indicates the goods document could not be read, parsed or written.
	ErrStorageUnavailable = errors.New("goods document unavailable")

	// ErrTransactionIDExhausted indicates every generated transaction id collided with an existing one.
	ErrTransactionIDExhausted = errors.New("could not generate a unique transaction id")
)
