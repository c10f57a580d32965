package ledger

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// TransactionIDLength is the length of the public order lookup code
const TransactionIDLength = 9

// maxTransactionIDAttempts bounds regeneration when a code is already taken
const maxTransactionIDAttempts = 16

// IDGenerator produces internal record ids
type IDGenerator func() string

// TransactionIDGenerator produces candidate transaction ids
type TransactionIDGenerator func() (string, error)

// NewRecordID returns a random UUID string
func NewRecordID() string {
	return uuid.New().String()
}

// NewTransactionID hex-encodes random bytes and keeps the first nine characters, upper-cased
func NewTransactionID() (string, error) {
	buf := make([]byte, (TransactionIDLength+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)[:TransactionIDLength]), nil
}
