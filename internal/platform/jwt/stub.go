package jwt

import (
	"errors"
	"time"
)

type StubSigner struct {
	SignFunc   func(subject string, ttl time.Duration) (string, error)
	VerifyFunc func(tokenString string) (*Claims, error)
	RevokeFunc func(tokenString string)
}

var _ Signer = (*StubSigner)(nil)

func (s *StubSigner) Sign(subject string, ttl time.Duration) (string, error) {
	if s.SignFunc == nil {
		return "", errors.New("Sign is not implemented by stub")
	}
	return s.SignFunc(subject, ttl)
}

func (s *StubSigner) Verify(tokenString string) (*Claims, error) {
	if s.VerifyFunc == nil {
		return nil, errors.New("Verify is not implemented by stub")
	}
	return s.VerifyFunc(tokenString)
}

func (s *StubSigner) Revoke(tokenString string) {
	if s.RevokeFunc != nil {
		s.RevokeFunc(tokenString)
	}
}
