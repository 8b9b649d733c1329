package auth

import (
	"context"
	"errors"
	"time"

	"github.com/icaliwag/pasokit/internal/user"
)

type StubService struct {
	RegisterUserFunc         func(ctx context.Context, params RegisterUserParams) (user.User, error)
	LoginUserFunc            func(ctx context.Context, params LoginUserParams) (string, *user.User, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ConfirmPasswordResetFunc func(ctx context.Context, token, newPassword string) error
	VerifyEmailFunc          func(ctx context.Context, token string) error
}

var _ AuthService = (*StubService)(nil)

func (s *StubService) RegisterUser(ctx context.Context, params RegisterUserParams) (user.User, error) {
	if s.RegisterUserFunc == nil {
		return user.User{}, errors.New("RegisterUser not implemented by stub")
	}
	return s.RegisterUserFunc(ctx, params)
}

func (s *StubService) LoginUser(ctx context.Context, params LoginUserParams) (string, *user.User, error) {
	if s.LoginUserFunc == nil {
		return "", nil, errors.New("LoginUser not implemented by stub")
	}
	return s.LoginUserFunc(ctx, params)
}

func (s *StubService) RequestPasswordReset(ctx context.Context, email string) error {
	if s.RequestPasswordResetFunc == nil {
		return errors.New("RequestPasswordReset not implemented by stub")
	}
	return s.RequestPasswordResetFunc(ctx, email)
}

func (s *StubService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if s.ConfirmPasswordResetFunc == nil {
		return errors.New("ConfirmPasswordReset not implemented by stub")
	}
	return s.ConfirmPasswordResetFunc(ctx, token, newPassword)
}

func (s *StubService) VerifyEmail(ctx context.Context, token string) error {
	if s.VerifyEmailFunc == nil {
		return errors.New("VerifyEmail not implemented by stub")
	}
	return s.VerifyEmailFunc(ctx, token)
}

type StubUserStore struct {
	CreateFunc                  func(ctx context.Context, params user.CreateUserParams) (user.User, error)
	FindByEmailFunc             func(ctx context.Context, email string) (*user.User, error)
	FindByVerificationTokenFunc func(ctx context.Context, token string) (*user.User, error)
	SetVerificationTokenFunc    func(ctx context.Context, userID, token string, expiry time.Time) error
	ResetPasswordFunc           func(ctx context.Context, userID, passwordHash string) error
	ActivateFunc                func(ctx context.Context, userID string) error
}

var _ UserStore = (*StubUserStore)(nil)

func (s *StubUserStore) Create(ctx context.Context, params user.CreateUserParams) (user.User, error) {
	if s.CreateFunc == nil {
		return user.User{}, errors.New("Create not implemented by stub")
	}
	return s.CreateFunc(ctx, params)
}

func (s *StubUserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if s.FindByEmailFunc == nil {
		return nil, errors.New("FindByEmail not implemented by stub")
	}
	return s.FindByEmailFunc(ctx, email)
}

func (s *StubUserStore) FindByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	if s.FindByVerificationTokenFunc == nil {
		return nil, errors.New("FindByVerificationToken not implemented by stub")
	}
	return s.FindByVerificationTokenFunc(ctx, token)
}

func (s *StubUserStore) SetVerificationToken(ctx context.Context, userID, token string, expiry time.Time) error {
	if s.SetVerificationTokenFunc == nil {
		return errors.New("SetVerificationToken not implemented by stub")
	}
	return s.SetVerificationTokenFunc(ctx, userID, token, expiry)
}

func (s *StubUserStore) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	if s.ResetPasswordFunc == nil {
		return errors.New("ResetPassword not implemented by stub")
	}
	return s.ResetPasswordFunc(ctx, userID, passwordHash)
}

func (s *StubUserStore) Activate(ctx context.Context, userID string) error {
	if s.ActivateFunc == nil {
		return errors.New("Activate not implemented by stub")
	}
	return s.ActivateFunc(ctx, userID)
}

// StubTxManager runs the function without a real transaction.
type StubTxManager struct{}

func (StubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
