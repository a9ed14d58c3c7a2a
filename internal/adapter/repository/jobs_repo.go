package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-compiler/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

type JobsRepo struct {
	pool *pgxpool.Pool
}

func NewJobsRepo(pool *pgxpool.Pool) *JobsRepo {
	return &JobsRepo{pool: pool}
}

// Save upserts a compile run. Without a pool it does nothing.
func (r *JobsRepo) Save(ctx context.Context, j *domain.CompileJob) error {
	if r == nil || r.pool == nil {
		return nil
	}

	metaB, err := json.Marshal(j.Metadata)
	if err != nil {
		return fmt.Errorf("marshal job metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO compile_jobs (id, status, engine, source_size, artifact_size, error, metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, engine = EXCLUDED.engine, source_size = EXCLUDED.source_size, artifact_size = EXCLUDED.artifact_size, error = EXCLUDED.error, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		j.ID, j.Status, j.Engine, j.SourceSize, j.ArtifactSize, j.Error, metaB, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save compile job %s: %w", j.ID, err)
	}
	return nil
}
