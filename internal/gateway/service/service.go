// Package service implements the gateway auth operations.
package service

import (
	"context"
	"time"

	"coursecloud/internal/gateway/accounts"
	"coursecloud/internal/jwttoken"
	dErrors "coursecloud/pkg/domain-errors"
)

type Service struct {
	accounts *accounts.Store
	tokens   *jwttoken.Service
	tokenTTL time.Duration
}

func New(accountStore *accounts.Store, tokens *jwttoken.Service, tokenTTL time.Duration) *Service {
	return &Service{accounts: accountStore, tokens: tokens, tokenTTL: tokenTTL}
}

// LoginResult carries the issued token and its subject.
type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresIn int64             `json:"expiresIn"`
	User      *accounts.Account `json:"user"`
}

// Login checks credentials and issues a token. Every credential failure is
// the same 401 so callers cannot probe for usernames.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	account, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
	}

	token, err := s.tokens.Generate(account.ID, account.Username, account.Role, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
		User:      account,
	}, nil
}

// Validate verifies a bearer token and returns its claims.
func (s *Service) Validate(tokenString string) (*jwttoken.Claims, error) {
	return s.tokens.Validate(tokenString)
}
