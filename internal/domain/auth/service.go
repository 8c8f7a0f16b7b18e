package auth

import (
	"context"
	"time"
)

type Service struct {
	Store  *Store
	Secret string
	TTL    time.Duration
}

func NewService(store *Store, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TTL: ttl}
}

// Login verifies credentials and returns a signed session token. Unknown
// emails and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (Principal, string, error) {
	account, err := s.Store.FindAccount(ctx, email)
	if err != nil {
		return Principal{}, "", err
	}
	if err := CheckPassword(account.PasswordHash, password); err != nil {
		return Principal{}, "", ErrInvalidCredentials
	}
	token, err := GenerateToken(s.Secret, account.Principal, s.TTL)
	if err != nil {
		return Principal{}, "", err
	}
	return account.Principal, token, nil
}
