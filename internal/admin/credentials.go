// Package admin verifies admin panel credentials.
package admin

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a username and password pair
type Verifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// StaticVerifier accepts a single configured username. When PasswordHash is set the password
// is checked against that bcrypt hash, otherwise against Password.
type StaticVerifier struct {
	Username     string
	Password     string
	PasswordHash string
}

// NewStaticVerifier returns a verifier for one username/password pair
func NewStaticVerifier(username, password, passwordHash string) *StaticVerifier {
	return &StaticVerifier{Username: username, Password: password, PasswordHash: passwordHash}
}

func (v *StaticVerifier) Verify(_ context.Context, username, password string) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.Username)) == 1

	if v.PasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(v.PasswordHash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return userOK, nil
	}

	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.Password)) == 1
	return userOK && passOK, nil
}
