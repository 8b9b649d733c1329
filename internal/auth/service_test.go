package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/icaliwag/pasokit/internal/auth"
	"github.com/icaliwag/pasokit/internal/config"
	"github.com/icaliwag/pasokit/internal/pkg/timex"
	"github.com/icaliwag/pasokit/internal/platform/email"
	"github.com/icaliwag/pasokit/internal/platform/hash"
	"github.com/icaliwag/pasokit/internal/platform/jwt"
	"github.com/icaliwag/pasokit/internal/user"
)

const (
	testUserID = "3f6cbf38-7d19-4a4e-bb5d-8a74a96d4f02"
	testEmail  = "alice@example.com"
	testPass   = "secret1"
	testHash   = "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: &config.Server{URL: "http://localhost:8888"},
		JWT: &config.JWT{
			Issuer: "pasokit",
			TTL:    timex.Duration{Duration: time.Hour},
		},
		Email: &config.Email{
			VerifyTTL: timex.Duration{Duration: 24 * time.Hour},
			ResetTTL:  timex.Duration{Duration: time.Hour},
		},
	}
}

func passthroughHasher() *hash.StubHasher {
	return &hash.StubHasher{
		HashFunc: func(plain string) (string, error) {
			return testHash, nil
		},
		VerifyFunc: func(plain, hashed string) (bool, error) {
			return plain == testPass && hashed == testHash, nil
		},
	}
}

func silentMailer() *email.StubMailer {
	return &email.StubMailer{
		SendHTMLFunc: func(to []string, subject, tmplName string, data map[string]string) error {
			return nil
		},
	}
}

func newTestService(store auth.UserStore, providers *auth.Providers) *auth.Service {
	if providers.Hasher == nil {
		providers.Hasher = passthroughHasher()
	}
	if providers.Mailer == nil {
		providers.Mailer = silentMailer()
	}
	if providers.TxMgr == nil {
		providers.TxMgr = auth.StubTxManager{}
	}
	return auth.NewService(store, providers, testConfig())
}

func activeUser() *user.User {
	u := &user.User{
		Username:     "alice",
		Email:        testEmail,
		PasswordHash: testHash,
		IsActive:     true,
	}
	u.ID = testUserID
	return u
}

func TestService_RegisterUser(t *testing.T) {
	t.Parallel()

	t.Run("successful registration issues a verification token", func(t *testing.T) {
		t.Parallel()

		var storedHash, storedToken string
		var storedExpiry time.Time
		store := &auth.StubUserStore{
			CreateFunc: func(ctx context.Context, params user.CreateUserParams) (user.User, error) {
				storedHash = params.PasswordHash
				u := user.User{Username: params.Username, Email: params.Email, PasswordHash: params.PasswordHash}
				u.ID = testUserID
				return u, nil
			},
			SetVerificationTokenFunc: func(ctx context.Context, userID, token string, expiry time.Time) error {
				if userID != testUserID {
					t.Errorf("SetVerificationToken userID = %q, want: %q", userID, testUserID)
				}
				storedToken = token
				storedExpiry = expiry
				return nil
			},
		}

		svc := newTestService(store, &auth.Providers{})
		newUser, err := svc.RegisterUser(context.Background(), auth.RegisterUserParams{
			Username: "alice",
			Email:    testEmail,
			Password: testPass,
		})
		if err != nil {
			t.Fatal(err)
		}

		if newUser.ID != testUserID {
			t.Errorf("newUser.ID = %q, want: %q", newUser.ID, testUserID)
		}
		if storedHash != testHash {
			t.Errorf("stored hash = %q, want: %q", storedHash, testHash)
		}
		if storedToken == "" {
			t.Error("no verification token was stored")
		}
		wantExpiry := time.Now().Add(24 * time.Hour)
		if storedExpiry.Before(wantExpiry.Add(-time.Minute)) || storedExpiry.After(wantExpiry.Add(time.Minute)) {
			t.Errorf("token expiry = %v, want: about %v", storedExpiry, wantExpiry)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		store := &auth.StubUserStore{
			CreateFunc: func(ctx context.Context, params user.CreateUserParams) (user.User, error) {
				return user.User{}, user.ErrDuplicateEmail
			},
		}

		svc := newTestService(store, &auth.Providers{})
		_, err := svc.RegisterUser(context.Background(), auth.RegisterUserParams{
			Username: "alice",
			Email:    testEmail,
			Password: testPass,
		})
		if !errors.Is(err, auth.ErrUserExists) {
			t.Errorf("RegisterUser() = %v, want: %v", err, auth.ErrUserExists)
		}
	})
}

func TestService_LoginUser(t *testing.T) {
	t.Parallel()

	signer := &jwt.StubSigner{
		SignFunc: func(subject string, ttl time.Duration) (string, error) {
			return "signed-token", nil
		},
	}

	tests := []struct {
		name      string
		findFunc  func(ctx context.Context, email string) (*user.User, error)
		password  string
		wantErr   error
		wantToken string
	}{
		{
			name: "unknown email",
			findFunc: func(ctx context.Context, email string) (*user.User, error) {
				return nil, user.ErrNotFound
			},
			password: testPass,
			wantErr:  auth.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			findFunc: func(ctx context.Context, email string) (*user.User, error) {
				return activeUser(), nil
			},
			password: "wrong-password",
			wantErr:  auth.ErrInvalidCredentials,
		},
		{
			name: "inactive account",
			findFunc: func(ctx context.Context, email string) (*user.User, error) {
				u := activeUser()
				u.IsActive = false
				return u, nil
			},
			password: testPass,
			wantErr:  auth.ErrUserNotActive,
		},
		{
			name: "active account with correct password",
			findFunc: func(ctx context.Context, email string) (*user.User, error) {
				return activeUser(), nil
			},
			password:  testPass,
			wantToken: "signed-token",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &auth.StubUserStore{FindByEmailFunc: tt.findFunc}
			svc := newTestService(store, &auth.Providers{Signer: signer})

			token, u, err := svc.LoginUser(context.Background(), auth.LoginUserParams{
				Email:    testEmail,
				Password: tt.password,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoginUser() error = %v, want: %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if token != tt.wantToken {
				t.Errorf("token = %q, want: %q", token, tt.wantToken)
			}
			if u == nil || u.ID != testUserID {
				t.Errorf("user = %+v, want ID: %q", u, testUserID)
			}
		})
	}
}

func TestService_RequestPasswordReset(t *testing.T) {
	t.Parallel()

	t.Run("unknown email is a silent no-op", func(t *testing.T) {
		t.Parallel()

		store := &auth.StubUserStore{
			FindByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
				return nil, user.ErrNotFound
			},
			SetVerificationTokenFunc: func(ctx context.Context, userID, token string, expiry time.Time) error {
				t.Error("SetVerificationToken should not be called for an unknown email")
				return nil
			},
		}

		svc := newTestService(store, &auth.Providers{})
		if err := svc.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
			t.Errorf("RequestPasswordReset() = %v, want: nil", err)
		}
	})

	t.Run("known email persists the token before notifying", func(t *testing.T) {
		t.Parallel()

		persisted := make(chan struct{})
		sent := make(chan struct{})

		store := &auth.StubUserStore{
			FindByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
				return activeUser(), nil
			},
			SetVerificationTokenFunc: func(ctx context.Context, userID, token string, expiry time.Time) error {
				wantExpiry := time.Now().Add(time.Hour)
				if expiry.Before(wantExpiry.Add(-time.Minute)) || expiry.After(wantExpiry.Add(time.Minute)) {
					t.Errorf("token expiry = %v, want: about %v", expiry, wantExpiry)
				}
				close(persisted)
				return nil
			},
		}
		mailer := &email.StubMailer{
			SendHTMLFunc: func(to []string, subject, tmplName string, data map[string]string) error {
				select {
				case <-persisted:
				default:
					t.Error("email dispatched before the token was persisted")
				}
				if tmplName != "reset_password" {
					t.Errorf("template = %q, want: %q", tmplName, "reset_password")
				}
				close(sent)
				return nil
			},
		}

		svc := newTestService(store, &auth.Providers{Mailer: mailer})
		if err := svc.RequestPasswordReset(context.Background(), testEmail); err != nil {
			t.Fatal(err)
		}

		select {
		case <-sent:
		case <-time.After(time.Second):
			t.Error("reset email was never dispatched")
		}
	})

	t.Run("mailer failure does not surface", func(t *testing.T) {
		t.Parallel()

		sent := make(chan struct{})
		store := &auth.StubUserStore{
			FindByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
				return activeUser(), nil
			},
			SetVerificationTokenFunc: func(ctx context.Context, userID, token string, expiry time.Time) error {
				return nil
			},
		}
		mailer := &email.StubMailer{
			SendHTMLFunc: func(to []string, subject, tmplName string, data map[string]string) error {
				close(sent)
				return errors.New("smtp is down")
			},
		}

		svc := newTestService(store, &auth.Providers{Mailer: mailer})
		if err := svc.RequestPasswordReset(context.Background(), testEmail); err != nil {
			t.Errorf("RequestPasswordReset() = %v, want: nil", err)
		}

		select {
		case <-sent:
		case <-time.After(time.Second):
			t.Error("reset email was never attempted")
		}
	})
}

func TestService_ConfirmPasswordReset(t *testing.T) {
	t.Parallel()

	liveToken := "live-reset-token"

	userWithToken := func(expiry time.Time) *user.User {
		u := activeUser()
		u.VerificationToken = &liveToken
		u.TokenExpiry = &expiry
		return u
	}

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		store := &auth.StubUserStore{
			FindByVerificationTokenFunc: func(ctx context.Context, token string) (*user.User, error) {
				return nil, user.ErrNotFound
			},
		}

		svc := newTestService(store, &auth.Providers{})
		err := svc.ConfirmPasswordReset(context.Background(), "no-such-token", "newpass1")
		if !errors.Is(err, auth.ErrTokenInvalid) {
			t.Errorf("ConfirmPasswordReset() = %v, want: %v", err, auth.ErrTokenInvalid)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&auth.StubUserStore{}, &auth.Providers{})
		err := svc.ConfirmPasswordReset(context.Background(), "", "newpass1")
		if !errors.Is(err, auth.ErrTokenInvalid) {
			t.Errorf("ConfirmPasswordReset() = %v, want: %v", err, auth.ErrTokenInvalid)
		}
	})

	t.Run("expired token leaves the password unchanged", func(t *testing.T) {
		t.Parallel()

		store := &auth.StubUserStore{
			FindByVerificationTokenFunc: func(ctx context.Context, token string) (*user.User, error) {
				return userWithToken(time.Now().Add(-time.Minute)), nil
			},
			ResetPasswordFunc: func(ctx context.Context, userID, passwordHash string) error {
				t.Error("ResetPassword should not be called for an expired token")
				return nil
			},
		}

		svc := newTestService(store, &auth.Providers{})
		err := svc.ConfirmPasswordReset(context.Background(), liveToken, "newpass1")
		if !errors.Is(err, auth.ErrTokenExpired) {
			t.Errorf("ConfirmPasswordReset() = %v, want: %v", err, auth.ErrTokenExpired)
		}
	})

	t.Run("valid token updates the hash and clears the pair", func(t *testing.T) {
		t.Parallel()

		resetCalled := false
		store := &auth.StubUserStore{
			FindByVerificationTokenFunc: func(ctx context.Context, token string) (*user.User, error) {
				if token != liveToken {
					t.Errorf("lookup token = %q, want: %q", token, liveToken)
				}
				return userWithToken(time.Now().Add(30 * time.Minute)), nil
			},
			ResetPasswordFunc: func(ctx context.Context, userID, passwordHash string) error {
				resetCalled = true
				if userID != testUserID {
					t.Errorf("ResetPassword userID = %q, want: %q", userID, testUserID)
				}
				if passwordHash != testHash {
					t.Errorf("ResetPassword hash = %q, want: %q", passwordHash, testHash)
				}
				return nil
			},
		}

		svc := newTestService(store, &auth.Providers{})
		if err := svc.ConfirmPasswordReset(context.Background(), liveToken, "newpass1"); err != nil {
			t.Fatal(err)
		}
		if !resetCalled {
			t.Error("ResetPassword was never called")
		}
	})
}

func TestService_VerifyEmail(t *testing.T) {
	t.Parallel()

	liveToken := "live-verification-token"

	t.Run("valid token activates the account", func(t *testing.T) {
		t.Parallel()

		activated := false
		store := &auth.StubUserStore{
			FindByVerificationTokenFunc: func(ctx context.Context, token string) (*user.User, error) {
				u := activeUser()
				u.IsActive = false
				u.VerificationToken = &liveToken
				expiry := time.Now().Add(time.Hour)
				u.TokenExpiry = &expiry
				return u, nil
			},
			ActivateFunc: func(ctx context.Context, userID string) error {
				activated = true
				return nil
			},
		}

		svc := newTestService(store, &auth.Providers{})
		if err := svc.VerifyEmail(context.Background(), liveToken); err != nil {
			t.Fatal(err)
		}
		if !activated {
			t.Error("Activate was never called")
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		store := &auth.StubUserStore{
			FindByVerificationTokenFunc: func(ctx context.Context, token string) (*user.User, error) {
				return nil, user.ErrNotFound
			},
		}

		svc := newTestService(store, &auth.Providers{})
		err := svc.VerifyEmail(context.Background(), "no-such-token")
		if !errors.Is(err, auth.ErrTokenInvalid) {
			t.Errorf("VerifyEmail() = %v, want: %v", err, auth.ErrTokenInvalid)
		}
	})
}
