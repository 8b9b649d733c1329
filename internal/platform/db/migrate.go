package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/icaliwag/pasokit/internal/platform/db/migrations"
)

// Migrate brings the schema up to date using the embedded goose migrations.
func Migrate(ctx context.Context, conn *sql.DB) error {
	slog.Info("Running migrations...")
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("Migrations complete.")
	return nil
}
