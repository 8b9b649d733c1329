package user

import (
	"context"
	"errors"
)

type StubService struct {
	FindFunc func(ctx context.Context, userID string) (*User, error)
}

var _ UserService = (*StubService)(nil)

func (s *StubService) Find(ctx context.Context, userID string) (*User, error) {
	if s.FindFunc == nil {
		return nil, errors.New("Find not implemented by stub")
	}
	return s.FindFunc(ctx, userID)
}
