package user

import (
	"context"
	"fmt"
)

// UserService exposes user lookups to handlers and other modules.
type UserService interface {
	Find(ctx context.Context, userID string) (*User, error)
}

type Service struct {
	repo *Repository
}

var _ UserService = (*Service)(nil)

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Find(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.Find(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user with id %s: %w", userID, err)
	}
	return u, nil
}
