package repositories

import (
	"context"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// AutoMatchJobRepositoryFacade persists the pollable state of queued auto-match
// runs.
type AutoMatchJobRepositoryFacade interface {
	// SaveJob persists a new job in its pending state.
	SaveJob(ctx context.Context, job domain.AutoMatchJob) error

	// UpdateJob overwrites the mutable fields (status, counters, timestamps).
	UpdateJob(ctx context.Context, job domain.AutoMatchJob) error

	// FindJobByID retrieves a job.
	FindJobByID(ctx context.Context, jobID string) (*domain.AutoMatchJob, error)
}
