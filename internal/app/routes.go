package app

import (
	"github.com/icaliwag/pasokit/internal/auth"
	"github.com/icaliwag/pasokit/internal/middleware"
	"github.com/icaliwag/pasokit/internal/platform/jwt"
	"github.com/icaliwag/pasokit/internal/platform/router"
	"github.com/icaliwag/pasokit/internal/platform/validation"
	"github.com/icaliwag/pasokit/internal/user"
)

func (a *App) setupRoutes() {
	userRepo := user.NewRepository(a.db)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authProviders := &auth.Providers{
		Hasher: a.providers.Hasher,
		Signer: a.providers.Signer,
		Mailer: a.providers.Mailer,
		TxMgr:  a.providers.TxMgr,
	}
	authSvc := auth.NewService(userRepo, authProviders, a.config)
	authHandler := auth.NewHandler(authSvc, a.providers.Signer)

	r := a.providers.Router
	maxBodySize := a.config.Server.MaxBodyBytes

	mountAuthRoutes(r, authHandler, a.providers.Validator, a.providers.Signer, maxBodySize)
	mountUserRoutes(r, userHandler, a.providers.Signer)
}

func mountAuthRoutes(r router.Router, handler *auth.Handler, validator validation.Validator,
	signer jwt.Signer, maxBodySize int64) {
	r.Group("/api/auth", func(gr router.Router) {
		gr.Post("/register", handler.RegisterUser,
			middleware.DecodePayload[auth.RegisterUserRequest](maxBodySize),
			middleware.ValidateInput[auth.RegisterUserRequest](validator))
		gr.Post("/login", handler.LoginUser,
			middleware.DecodePayload[auth.UserLoginRequest](maxBodySize),
			middleware.ValidateInput[auth.UserLoginRequest](validator))
		gr.Get("/verify", handler.VerifyEmail)
		gr.Post("/logout", handler.LogoutUser, auth.RequireToken(signer))
		gr.Post("/password-reset", handler.ForgotPassword,
			middleware.DecodePayload[auth.ForgotPasswordRequest](maxBodySize),
			middleware.ValidateInput[auth.ForgotPasswordRequest](validator))
		gr.Post("/password-reset/{token}", handler.ResetPassword,
			middleware.DecodePayload[auth.ResetPasswordRequest](maxBodySize),
			middleware.ValidateInput[auth.ResetPasswordRequest](validator))
	})
}

func mountUserRoutes(r router.Router, handler *user.Handler, signer jwt.Signer) {
	r.Group("/api/users", func(gr router.Router) {
		gr.Get("/me", handler.CurrentUser)
	}, auth.RequireToken(signer))
}
