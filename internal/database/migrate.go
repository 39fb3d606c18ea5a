package database

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Varun5711/attendly/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseLogger routes goose output through the service logger.
type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(strings.TrimSuffix(format, "\n"), v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal(strings.TrimSuffix(format, "\n"), v...)
}

// Migrate applies the embedded schema migrations to the primary.
func (m *DBManager) Migrate(ctx context.Context, log *logger.Logger) error {
	db := stdlib.OpenDBFromPool(m.primary)
	defer db.Close()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: log})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
