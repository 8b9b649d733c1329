package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/gopherkit/env"

	"github.com/icaliwag/pasokit/internal/config"
	"github.com/icaliwag/pasokit/internal/middleware"
	"github.com/icaliwag/pasokit/internal/pkg/logging"
	"github.com/icaliwag/pasokit/internal/pkg/message"
	"github.com/icaliwag/pasokit/internal/platform/db"
	"github.com/icaliwag/pasokit/internal/platform/email"
	"github.com/icaliwag/pasokit/internal/platform/hash"
	"github.com/icaliwag/pasokit/internal/platform/jwt"
	"github.com/icaliwag/pasokit/internal/platform/router"
	"github.com/icaliwag/pasokit/internal/platform/validation"
)

func Run(baseCtx context.Context) error {
	slog.Info("Initializing...")

	signalCtx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	appEnv := os.Getenv("ENV")
	if appEnv != "production" {
		if err := env.Load(".env"); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}
	logging.Setup(appEnv, os.Getenv("LOG_LEVEL"), os.Stderr)

	cfg, err := config.Load("config.json")
	if err != nil {
		return err
	}

	dbConn, err := db.Connect(signalCtx, cfg.DB)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.Migrate(signalCtx, dbConn); err != nil {
		return err
	}

	const envKey = "KEY"
	securityKey, ok := os.LookupEnv(envKey)
	if !ok {
		return fmt.Errorf(message.EnvErrFmt, envKey)
	}

	providers, err := setupProviders(cfg, securityKey, dbConn)
	if err != nil {
		return err
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		middleware.CheckContentType,
	}

	application := New(cfg, dbConn, providers, middlewares)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- application.Start(signalCtx)
	}()

	select {
	case <-signalCtx.Done():
		slog.Info("Shutdown signal received.")
		stop()
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
	}

	return application.Shutdown()
}

func setupProviders(cfg *config.Config, securityKey string, dbConn *sql.DB) (*Providers, error) {
	signer := jwt.NewGolangJWTSigner(cfg.JWT, securityKey)
	hasher := hash.NewArgon2Hasher(cfg.Argon2, securityKey)

	smtpCfg, err := email.NewSMTPConfigFromEnv()
	if err != nil {
		return nil, err
	}
	mailer, err := email.NewSMTPMailer(smtpCfg, cfg.Email)
	if err != nil {
		return nil, fmt.Errorf("new smtp mailer: %w", err)
	}

	return &Providers{
		Signer:    signer,
		Hasher:    hasher,
		Mailer:    mailer,
		Validator: validation.NewGoPlaygroundValidator(),
		Router:    router.NewGoexpressRouter(),
		TxMgr:     db.NewSQLTxManager(dbConn),
	}, nil
}
