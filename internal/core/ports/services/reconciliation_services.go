package services

import (
	"context"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
)

// ReconciliationSvcFacade drives the reconciliation lifecycle state machine.
// Every mutation returns a fresh snapshot with the recomputed variance.
type ReconciliationSvcFacade interface {
	// StartReconciliation creates a reconciliation for a statement (draft) and
	// immediately transitions it to in-progress.
	StartReconciliation(ctx context.Context, companyID string, statementID string, userID string) (*dto.ReconciliationSnapshot, error)

	GetReconciliation(ctx context.Context, companyID string, reconciliationID string, userID string) (*dto.ReconciliationSnapshot, error)

	ListReconciliations(ctx context.Context, companyID string, userID string, params dto.ListParams) (*dto.ListReconciliationsResponse, error)

	// Complete transitions in-progress -> completed. Guarded by the balance
	// predicate over current matches and adjustments.
	Complete(ctx context.Context, companyID string, reconciliationID string, userID string) (*dto.ReconciliationSnapshot, error)

	// Lock transitions completed -> locked. Idempotent when already locked.
	Lock(ctx context.Context, companyID string, reconciliationID string, userID string) (*dto.ReconciliationSnapshot, error)

	// Reopen transitions completed|locked -> in-progress with the reopened flag
	// set, bounded by the acting user's role window.
	Reopen(ctx context.Context, companyID string, reconciliationID string, req dto.ReopenRequest, userID string) (*dto.ReconciliationSnapshot, error)
}

// MatchSvcFacade covers candidate discovery and manual matching.
type MatchSvcFacade interface {
	// FindCandidates scores plausible sources for one statement line, sorted by
	// descending confidence. An empty result is not an error.
	FindCandidates(ctx context.Context, companyID string, reconciliationID string, lineID string, sourceType *domain.MatchSourceType, userID string) ([]dto.MatchCandidate, error)

	CreateManualMatch(ctx context.Context, companyID string, reconciliationID string, req dto.CreateManualMatchRequest, userID string) (*domain.BankReconciliationMatch, error)

	// RemoveMatch deletes a match and recomputes variance. Removing an
	// already-removed match is a no-op.
	RemoveMatch(ctx context.Context, companyID string, reconciliationID string, matchID string, userID string) error

	ListMatches(ctx context.Context, companyID string, reconciliationID string, userID string) ([]domain.BankReconciliationMatch, error)
}

// AdjustmentSvcFacade manages signed adjustments on an editable reconciliation.
type AdjustmentSvcFacade interface {
	CreateAdjustment(ctx context.Context, companyID string, reconciliationID string, req dto.CreateAdjustmentRequest, userID string) (*domain.BankReconciliationAdjustment, error)

	UpdateAdjustment(ctx context.Context, companyID string, reconciliationID string, adjustmentID string, req dto.UpdateAdjustmentRequest, userID string) (*domain.BankReconciliationAdjustment, error)

	// DeleteAdjustment removes an adjustment; deleting an already-removed one is
	// a no-op.
	DeleteAdjustment(ctx context.Context, companyID string, reconciliationID string, adjustmentID string, userID string) error

	ListAdjustments(ctx context.Context, companyID string, reconciliationID string, userID string) ([]domain.BankReconciliationAdjustment, error)
}

// AutoMatchSvcFacade queues asynchronous auto-match runs and serves their
// pollable status. There is no cancellation operation.
type AutoMatchSvcFacade interface {
	// EnqueueAutoMatch validates the reconciliation is editable, persists a
	// pending job, hands it to the background worker, and returns the handle
	// immediately.
	EnqueueAutoMatch(ctx context.Context, companyID string, reconciliationID string, userID string) (*domain.AutoMatchJob, error)

	GetJob(ctx context.Context, companyID string, jobID string, userID string) (*domain.AutoMatchJob, error)
}

// AuditSvcFacade records and serves the append-only audit trail.
type AuditSvcFacade interface {
	// Record appends one entry; before/after are marshalled to JSON snapshots.
	Record(ctx context.Context, companyID string, actor string, action domain.AuditAction, subjectType string, subjectID string, before any, after any) error

	ListBySubject(ctx context.Context, companyID string, subjectID string, userID string, params dto.ListParams) (*dto.ListAuditEntriesResponse, error)
}
