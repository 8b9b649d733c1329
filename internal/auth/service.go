package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/icaliwag/pasokit/internal/config"
	"github.com/icaliwag/pasokit/internal/pkg/security"
	"github.com/icaliwag/pasokit/internal/platform/db"
	"github.com/icaliwag/pasokit/internal/platform/email"
	"github.com/icaliwag/pasokit/internal/platform/hash"
	"github.com/icaliwag/pasokit/internal/platform/jwt"
	"github.com/icaliwag/pasokit/internal/user"
)

var (
	ErrUserExists         = errors.New("auth service: user already exists")
	ErrInvalidCredentials = errors.New("auth service: invalid credentials")
	ErrUserNotActive      = errors.New("auth service: email not verified")
	ErrTokenInvalid       = errors.New("auth service: invalid token")
	ErrTokenExpired       = errors.New("auth service: token expired")
)

// Length in bytes of the opaque verification/reset tokens.
const verificationTokenLength = 32

// UserStore is the slice of the user repository the auth workflow needs.
type UserStore interface {
	Create(ctx context.Context, params user.CreateUserParams) (user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*user.User, error)
	SetVerificationToken(ctx context.Context, userID, token string, expiry time.Time) error
	ResetPassword(ctx context.Context, userID, passwordHash string) error
	Activate(ctx context.Context, userID string) error
}

type Providers struct {
	Hasher hash.Hasher
	Signer jwt.Signer
	Mailer email.Mailer
	TxMgr  db.TxManager
}

type Service struct {
	users  UserStore
	hasher hash.Hasher
	signer jwt.Signer
	mailer email.Mailer
	txMgr  db.TxManager
	cfg    *config.Config
}

var _ AuthService = (*Service)(nil)

func NewService(users UserStore, providers *Providers, cfg *config.Config) *Service {
	return &Service{
		users:  users,
		hasher: providers.Hasher,
		signer: providers.Signer,
		mailer: providers.Mailer,
		txMgr:  providers.TxMgr,
		cfg:    cfg,
	}
}

type RegisterUserParams struct {
	Username string
	Email    string
	Password string
}

func (p RegisterUserParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", p.Username),
		slog.String("email", "*"),
		slog.String("password", "*"),
	)
}

// RegisterUser creates an inactive account and kicks off email
// verification. The verification email rides the same token pair mechanism
// as password resets.
func (s *Service) RegisterUser(ctx context.Context, params RegisterUserParams) (user.User, error) {
	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, user.CreateUserParams{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return user.User{}, ErrUserExists
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueVerificationToken(ctx, newUser.ID, s.cfg.Email.VerifyTTL.Duration)
	if err != nil {
		// The account exists; verification can be retried later.
		slog.Error("failed to issue verification token", "reason", err)
		return newUser, nil
	}

	go s.sendEmail(&HTMLEmail{
		Email:    newUser.Email,
		Subject:  "Verify Your Account",
		Title:    "Email Verification",
		Template: "verification",
		Link:     s.cfg.Server.URL + "/api/auth/verify?token=" + token,
	})

	return newUser, nil
}

type LoginUserParams struct {
	Email    string
	Password string
}

func (p LoginUserParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", "*"),
		slog.String("password", "*"),
	)
}

// LoginUser checks the credentials and issues a session token. An unknown
// email and a wrong password both come back as ErrInvalidCredentials so the
// response can't be used to probe for accounts.
func (s *Service) LoginUser(ctx context.Context, params LoginUserParams) (string, *user.User, error) {
	u, err := s.users.FindByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user by email: %w", err)
	}

	ok, err := s.hasher.Verify(params.Password, u.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return "", nil, ErrUserNotActive
	}

	token, err := s.signer.Sign(u.ID, s.cfg.JWT.TTL.Duration)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	return token, u, nil
}

// RequestPasswordReset issues a reset token for the account behind email,
// if one exists. The caller's response never depends on whether it did: an
// unknown email is a silent no-op.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	u, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	token, err := s.issueVerificationToken(ctx, u.ID, s.cfg.Email.ResetTTL.Duration)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	// The token row is persisted before the email leaves the building.
	go s.sendEmail(&HTMLEmail{
		Email:    u.Email,
		Subject:  "Reset Your Password",
		Title:    "Password Reset",
		Template: "reset_password",
		Link:     s.cfg.Server.URL + "/reset-password?token=" + token,
	})

	return nil
}

// ConfirmPasswordReset consumes a reset token: rehash the new password and
// clear the token pair in a single transaction. Expiry is strict, a token
// is still valid at the boundary instant.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		u, err := s.findByLiveToken(txCtx, token)
		if err != nil {
			return err
		}

		passwordHash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("hash new password: %w", err)
		}

		if err := s.users.ResetPassword(txCtx, u.ID, passwordHash); err != nil {
			return fmt.Errorf("reset password for user %s: %w", u.ID, err)
		}
		return nil
	})
}

// VerifyEmail consumes a verification token and activates the account.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	return s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		u, err := s.findByLiveToken(txCtx, token)
		if err != nil {
			return err
		}

		if err := s.users.Activate(txCtx, u.ID); err != nil {
			return fmt.Errorf("activate user %s: %w", u.ID, err)
		}
		return nil
	})
}

func (s *Service) findByLiveToken(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	u, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("find user by token: %w", err)
	}

	if u.TokenExpiry == nil {
		return nil, ErrTokenInvalid
	}

	if time.Now().After(*u.TokenExpiry) {
		return nil, ErrTokenExpired
	}

	return u, nil
}

func (s *Service) issueVerificationToken(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	token, err := security.GenerateRandomBytesURLEncoded(verificationTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	expiry := time.Now().Add(ttl)
	if err := s.users.SetVerificationToken(ctx, userID, token, expiry); err != nil {
		return "", fmt.Errorf("store token for user %s: %w", userID, err)
	}

	return token, nil
}

type HTMLEmail struct {
	Email, Subject, Title, Template, Link string
}

func (s *Service) sendEmail(msg *HTMLEmail) {
	slog.Info("Sending email...", "template", msg.Template)

	data := map[string]string{
		"Title":  msg.Title,
		"Header": msg.Subject,
		"Link":   msg.Link,
	}
	if err := s.mailer.SendHTML([]string{msg.Email}, msg.Subject, msg.Template, data); err != nil {
		slog.Error("failed to send email", "template", msg.Template, "reason", err)
	}
}
