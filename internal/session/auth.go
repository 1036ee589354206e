package session

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the cost the operator password has always been hashed with.
const DefaultCost = 10

// Authenticator checks submitted credentials against the single configured operator.
type Authenticator struct {
	username string
	hash     []byte
}

// NewAuthenticator hashes password once so the plaintext is not kept in memory.
func NewAuthenticator(username, password string, cost int) (*Authenticator, error) {
	if username == "" {
		return nil, errors.New("username must not be empty")
	}
	if cost == 0 {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &Authenticator{username: username, hash: hash}, nil
}

// Check reports whether username and password match the configured operator.
func (a *Authenticator) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	return userOK && passErr == nil
}
