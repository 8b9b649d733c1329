package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/icaliwag/pasokit/internal/pkg/message"
	"github.com/icaliwag/pasokit/internal/pkg/security"
	"github.com/icaliwag/pasokit/internal/pkg/web"
	"github.com/icaliwag/pasokit/internal/platform/jwt"
	"github.com/icaliwag/pasokit/internal/user"
)

const maskChar = "*"

// AuthService is what the HTTP handlers need from the workflow.
type AuthService interface {
	RegisterUser(ctx context.Context, params RegisterUserParams) (user.User, error)
	LoginUser(ctx context.Context, params LoginUserParams) (token string, u *user.User, err error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
}

type Handler struct {
	svc    AuthService
	signer jwt.Signer
}

func NewHandler(svc AuthService, signer jwt.Signer) *Handler {
	return &Handler{
		svc:    svc,
		signer: signer,
	}
}

type RegisterUserRequest struct {
	Username string `json:"username,omitempty" validate:"required"`
	Email    string `json:"email,omitempty" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"required,min=6"`
}

func (r RegisterUserRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", r.Username),
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

type RegisterUserResponse struct {
	UserID string `json:"user_id"`
}

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[RegisterUserRequest](r.Context())
	if err != nil {
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
		return
	}

	params := RegisterUserParams(req)
	newUser, err := h.svc.RegisterUser(r.Context(), params)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			web.Fail(w, http.StatusConflict, err, MsgUserExists, nil)
			return
		}
		web.Fail(w, http.StatusInternalServerError, err, "Something went wrong.", nil)
		return
	}

	msg := MsgRegistered
	data := &RegisterUserResponse{UserID: newUser.ID}
	web.OK(w, http.StatusCreated, &msg, data)
}

type UserLoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"required"`
}

func (r UserLoginRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

type UserLoginResponse struct {
	Token string          `json:"token"`
	User  user.PublicUser `json:"user"`
}

func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[UserLoginRequest](r.Context())
	if err != nil {
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
		return
	}

	params := LoginUserParams(req)
	token, u, err := h.svc.LoginUser(r.Context(), params)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			web.Fail(w, http.StatusUnauthorized, err, MsgInvalidLogin, nil)
			return
		}
		if errors.Is(err, ErrUserNotActive) {
			web.Fail(w, http.StatusUnauthorized, err, MsgNotActive, nil)
			return
		}
		web.Fail(w, http.StatusInternalServerError, err, "Something went wrong.", nil)
		return
	}

	msg := MsgLoginSuccess
	data := &UserLoginResponse{
		Token: token,
		User:  u.Public(),
	}
	web.OK(w, http.StatusOK, &msg, data)
}

type ForgotPasswordRequest struct {
	Email string `json:"email,omitempty" validate:"required,email"`
}

func (r ForgotPasswordRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
	)
}

// ForgotPassword always answers with the same generic message so the
// response can't reveal whether the email is registered.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[ForgotPasswordRequest](r.Context())
	if err != nil {
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		slog.Error("password reset request failed", "reason", err)
	}

	msg := MsgResetSent
	web.OK[struct{}](w, http.StatusOK, &msg, nil)
}

type ResetPasswordRequest struct {
	Password string `json:"password,omitempty" validate:"required,min=6"`
}

func (r ResetPasswordRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("password", maskChar),
	)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[ResetPasswordRequest](r.Context())
	if err != nil {
		web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
		return
	}

	token := r.PathValue("token")
	if err := h.svc.ConfirmPasswordReset(r.Context(), token, req.Password); err != nil {
		if errors.Is(err, ErrTokenExpired) {
			web.Fail(w, http.StatusBadRequest, err, MsgTokenExpired, nil)
			return
		}
		if errors.Is(err, ErrTokenInvalid) {
			web.Fail(w, http.StatusBadRequest, err, MsgTokenInvalid, nil)
			return
		}
		web.Fail(w, http.StatusInternalServerError, err, "Something went wrong.", nil)
		return
	}

	msg := MsgPasswordReset
	web.OK[struct{}](w, http.StatusOK, &msg, nil)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := h.svc.VerifyEmail(r.Context(), token); err != nil {
		if errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenExpired) {
			web.Fail(w, http.StatusBadRequest, err, MsgTokenInvalid, nil)
			return
		}
		web.Fail(w, http.StatusInternalServerError, err, "Something went wrong.", nil)
		return
	}

	msg := MsgVerified
	web.OK[struct{}](w, http.StatusOK, &msg, nil)
}

// LogoutUser revokes the presented session token. Best effort: the route is
// already behind RequireToken, so the token is known to be valid.
func (h *Handler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	token, err := security.ExtractBearerToken(r)
	if err != nil {
		web.Fail(w, http.StatusUnauthorized, err, message.TokenMissing, nil)
		return
	}

	h.signer.Revoke(token)

	msg := MsgLoggedOut
	web.OK[struct{}](w, http.StatusOK, &msg, nil)
}
