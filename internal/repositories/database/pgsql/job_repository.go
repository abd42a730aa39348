package pgsql

import (
	"context"
	"errors"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAutoMatchJobRepository struct {
	BaseRepository
}

// newPgxAutoMatchJobRepository creates a new repository for auto-match job state.
func newPgxAutoMatchJobRepository(pool *pgxpool.Pool) portsrepo.AutoMatchJobRepositoryFacade {
	return &PgxAutoMatchJobRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AutoMatchJobRepositoryFacade = (*PgxAutoMatchJobRepository)(nil)

// SaveJob persists a new job in its pending state.
func (r *PgxAutoMatchJobRepository) SaveJob(ctx context.Context, job domain.AutoMatchJob) error {
	m := mapping.ToModelAutoMatchJob(job)
	query := `
		INSERT INTO auto_match_jobs (job_id, company_id, reconciliation_id, status, lines_processed, lines_matched, lines_ambiguous, lines_unmatched, lines_failed, failure_detail, started_at, finished_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.JobID,
		m.CompanyID,
		m.ReconciliationID,
		m.Status,
		m.LinesProcessed,
		m.LinesMatched,
		m.LinesAmbiguous,
		m.LinesUnmatched,
		m.LinesFailed,
		m.FailureDetail,
		m.StartedAt,
		m.FinishedAt,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert auto-match job "+m.JobID, err)
	}
	return nil
}

// UpdateJob overwrites the mutable fields of a job.
func (r *PgxAutoMatchJobRepository) UpdateJob(ctx context.Context, job domain.AutoMatchJob) error {
	m := mapping.ToModelAutoMatchJob(job)
	query := `
		UPDATE auto_match_jobs
		SET status = $2, lines_processed = $3, lines_matched = $4, lines_ambiguous = $5, lines_unmatched = $6, lines_failed = $7, failure_detail = $8, started_at = $9, finished_at = $10
		WHERE job_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.JobID,
		m.Status,
		m.LinesProcessed,
		m.LinesMatched,
		m.LinesAmbiguous,
		m.LinesUnmatched,
		m.LinesFailed,
		m.FailureDetail,
		m.StartedAt,
		m.FinishedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update auto-match job "+m.JobID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindJobByID retrieves a job.
func (r *PgxAutoMatchJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.AutoMatchJob, error) {
	query := `
		SELECT job_id, company_id, reconciliation_id, status, lines_processed, lines_matched, lines_ambiguous, lines_unmatched, lines_failed, failure_detail, started_at, finished_at, created_at, created_by
		FROM auto_match_jobs
		WHERE job_id = $1;
	`
	var m models.AutoMatchJob
	err := r.Pool.QueryRow(ctx, query, jobID).Scan(
		&m.JobID,
		&m.CompanyID,
		&m.ReconciliationID,
		&m.Status,
		&m.LinesProcessed,
		&m.LinesMatched,
		&m.LinesAmbiguous,
		&m.LinesUnmatched,
		&m.LinesFailed,
		&m.FailureDetail,
		&m.StartedAt,
		&m.FinishedAt,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find auto-match job by ID "+jobID, err)
	}

	domainJob := mapping.ToDomainAutoMatchJob(m)
	return &domainJob, nil
}
