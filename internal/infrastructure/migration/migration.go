package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Name  string
	Query string
}

// Migrations lists the schema changes applied on startup, in order. Every
// statement is idempotent.
var Migrations = []Migration{
	{
		Name: "create_compile_jobs",
		Query: `
		CREATE TABLE IF NOT EXISTS compile_jobs (
			id            UUID PRIMARY KEY,
			status        TEXT NOT NULL,
			engine        TEXT NOT NULL DEFAULT '',
			source_size   INTEGER NOT NULL DEFAULT 0,
			artifact_size INTEGER NOT NULL DEFAULT 0,
			error         TEXT NOT NULL DEFAULT '',
			metadata      JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	},
	{
		Name:  "index_compile_jobs_created_at",
		Query: `CREATE INDEX IF NOT EXISTS compile_jobs_created_at_idx ON compile_jobs (created_at DESC);`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("starting database migrations", zap.Int("count", len(Migrations)))

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.Query); err != nil {
			logger.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return err
		}
		logger.Info("migration completed", zap.String("name", m.Name))
	}

	logger.Info("all migrations completed successfully")
	return nil
}
