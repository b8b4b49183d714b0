// Package accounts holds the gateway's login credentials. Accounts live in
// memory and are seeded at startup; password hashes are bcrypt.
package accounts

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"coursecloud/pkg/platform/sentinel"
)

// Account is a gateway login identity, distinct from the student records the
// identity service manages.
type Account struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	PasswordHash []byte `json:"-"`
}

// Store is a mutex-guarded account table.
type Store struct {
	mu       sync.Mutex
	accounts map[string]Account
}

func NewStore() *Store {
	return &Store{accounts: make(map[string]Account)}
}

// Seed adds an account with a freshly hashed password. Existing usernames
// are overwritten, which keeps startup idempotent.
func (s *Store) Seed(id, username, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = Account{ID: id, Username: username, Role: role, PasswordHash: hash}
	return nil
}

// Authenticate verifies the password for the username. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *Store) Authenticate(_ context.Context, username, password string) (*Account, error) {
	s.mu.Lock()
	account, ok := s.accounts[username]
	s.mu.Unlock()

	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, sentinel.ErrNotFound
	}
	return &account, nil
}
