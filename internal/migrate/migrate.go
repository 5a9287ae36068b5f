// Package migrate applies the embedded storage schema before the postgres backend is used.
package migrate

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/and161185/school-portal/migrations"
)

// Up runs all pending client_storage migrations against dsn.
func Up(ctx context.Context, dsn string, log *zap.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	ver, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return err
	}
	log.Info("storage schema ready", zap.Int64("version", ver))
	return nil
}
