package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/finbooks/bank_reconciliation_app/internal/platform/config"
)

// reconciliationService drives the reconciliation lifecycle state machine.
// All transitions are compare-and-set against the stored status, so two
// racing calls cannot both succeed.
type reconciliationService struct {
	reconRepo     portsrepo.ReconciliationRepositoryFacade
	statementRepo portsrepo.StatementRepositoryFacade
	companySvc    portssvc.CompanyAuthorizerSvc
	auditSvc      portssvc.AuditSvcFacade
	reopen        config.ReopenWindows
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	statementRepo portsrepo.StatementRepositoryFacade,
	companySvc portssvc.CompanyAuthorizerSvc,
	auditSvc portssvc.AuditSvcFacade,
	reopen config.ReopenWindows,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconRepo:     reconRepo,
		statementRepo: statementRepo,
		companySvc:    companySvc,
		auditSvc:      auditSvc,
		reopen:        reopen,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// findOwnedReconciliation loads a reconciliation and verifies company scope.
func (s *reconciliationService) findOwnedReconciliation(ctx context.Context, companyID string, reconciliationID string) (*domain.BankReconciliation, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if recon.CompanyID != companyID {
		// Obscure existence across tenants.
		return nil, apperrors.ErrNotFound
	}
	return recon, nil
}

// snapshot recomputes variance and maps the reconciliation for the API.
func (s *reconciliationService) snapshot(ctx context.Context, recon *domain.BankReconciliation) (*dto.ReconciliationSnapshot, error) {
	variance, err := reconciliationVariance(ctx, s.statementRepo, s.reconRepo, recon)
	if err != nil {
		return nil, err
	}
	snap := dto.ToReconciliationSnapshot(recon, variance, IsBalanced(variance))
	return &snap, nil
}

// StartReconciliation creates a reconciliation for a statement and moves it to
// in-progress. A statement carries at most one reconciliation.
func (s *reconciliationService) StartReconciliation(ctx context.Context, companyID string, statementID string, userID string) (*dto.ReconciliationSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant); err != nil {
		logger.Warn("Authorization failed for StartReconciliation", slog.String("user_id", userID), slog.String("company_id", companyID))
		return nil, err
	}

	statement, err := s.statementRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	if statement.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	if existing, err := s.reconRepo.FindReconciliationByStatementID(ctx, statementID); err == nil && existing != nil {
		return nil, apperrors.NewDomainError("statement_already_reconciled", "statement %s already has reconciliation %s", statementID, existing.ReconciliationID)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing reconciliation: %w", err)
	}

	now := time.Now().UTC()
	recon := domain.BankReconciliation{
		ReconciliationID: uuid.NewString(),
		CompanyID:        companyID,
		StatementID:      statementID,
		Status:           domain.ReconciliationDraft,
		Variance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.reconRepo.SaveReconciliation(ctx, recon); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDomainError("statement_already_reconciled", "statement %s already has a reconciliation", statementID)
		}
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()), slog.String("statement_id", statementID))
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}

	updated, err := s.reconRepo.TransitionStatus(ctx, recon.ReconciliationID, portsrepo.StatusTransition{
		From:    domain.ReconciliationDraft,
		To:      domain.ReconciliationInProgress,
		ActorID: userID,
		At:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start reconciliation: %w", err)
	}

	if err := s.statementRepo.UpdateStatementStatus(ctx, statementID, domain.StatementReconciled, userID); err != nil {
		logger.Warn("Failed to flag statement as reconciled", slog.String("error", err.Error()), slog.String("statement_id", statementID))
	}

	if err := s.auditSvc.Record(ctx, companyID, userID, domain.ActionReconciliationStarted, "reconciliation", updated.ReconciliationID, nil, updated); err != nil {
		logger.Warn("Audit append failed for StartReconciliation", slog.String("error", err.Error()))
	}

	logger.Info("Reconciliation started", slog.String("reconciliation_id", updated.ReconciliationID), slog.String("statement_id", statementID))
	return s.snapshot(ctx, updated)
}

// GetReconciliation returns a snapshot with freshly computed variance.
func (s *reconciliationService) GetReconciliation(ctx context.Context, companyID string, reconciliationID string, userID string) (*dto.ReconciliationSnapshot, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	recon, err := s.findOwnedReconciliation(ctx, companyID, reconciliationID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, recon)
}

// ListReconciliations retrieves a page of snapshots for a company.
func (s *reconciliationService) ListReconciliations(ctx context.Context, companyID string, userID string, params dto.ListParams) (*dto.ListReconciliationsResponse, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	recons, nextToken, err := s.reconRepo.ListReconciliationsByCompany(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}

	snapshots := make([]dto.ReconciliationSnapshot, len(recons))
	for i := range recons {
		variance, err := reconciliationVariance(ctx, s.statementRepo, s.reconRepo, &recons[i])
		if err != nil {
			return nil, err
		}
		snapshots[i] = dto.ToReconciliationSnapshot(&recons[i], variance, IsBalanced(variance))
	}
	return &dto.ListReconciliationsResponse{Reconciliations: snapshots, NextToken: nextToken}, nil
}

// Complete transitions in-progress -> completed, guarded by the balance
// predicate over current matches and adjustments.
func (s *reconciliationService) Complete(ctx context.Context, companyID string, reconciliationID string, userID string) (*dto.ReconciliationSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant); err != nil {
		return nil, err
	}
	recon, err := s.findOwnedReconciliation(ctx, companyID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if recon.Status != domain.ReconciliationInProgress {
		return nil, apperrors.NewDomainError("reconciliation_not_in_progress", "cannot complete reconciliation in status %s", recon.Status)
	}

	variance, err := reconciliationVariance(ctx, s.statementRepo, s.reconRepo, recon)
	if err != nil {
		return nil, err
	}
	if !IsBalanced(variance) {
		return nil, apperrors.NewDomainError("reconciliation_unbalanced", "variance %s is not zero", variance.String())
	}

	updated, err := s.reconRepo.TransitionStatus(ctx, reconciliationID, portsrepo.StatusTransition{
		From:    domain.ReconciliationInProgress,
		To:      domain.ReconciliationCompleted,
		ActorID: userID,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete reconciliation: %w", err)
	}

	if err := s.auditSvc.Record(ctx, companyID, userID, domain.ActionReconciliationCompleted, "reconciliation", reconciliationID, recon, updated); err != nil {
		logger.Warn("Audit append failed for Complete", slog.String("error", err.Error()))
	}

	logger.Info("Reconciliation completed", slog.String("reconciliation_id", reconciliationID))
	return s.snapshot(ctx, updated)
}

// Lock transitions completed -> locked. Locking an already-locked
// reconciliation is a no-op that writes no audit entry.
func (s *reconciliationService) Lock(ctx context.Context, companyID string, reconciliationID string, userID string) (*dto.ReconciliationSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleController); err != nil {
		return nil, err
	}
	recon, err := s.findOwnedReconciliation(ctx, companyID, reconciliationID)
	if err != nil {
		return nil, err
	}

	if recon.Status == domain.ReconciliationLocked {
		return s.snapshot(ctx, recon)
	}
	if recon.Status != domain.ReconciliationCompleted {
		return nil, apperrors.NewDomainError("reconciliation_not_completed", "cannot lock reconciliation in status %s", recon.Status)
	}

	updated, err := s.reconRepo.TransitionStatus(ctx, reconciliationID, portsrepo.StatusTransition{
		From:    domain.ReconciliationCompleted,
		To:      domain.ReconciliationLocked,
		ActorID: userID,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to lock reconciliation: %w", err)
	}

	if err := s.auditSvc.Record(ctx, companyID, userID, domain.ActionReconciliationLocked, "reconciliation", reconciliationID, recon, updated); err != nil {
		logger.Warn("Audit append failed for Lock", slog.String("error", err.Error()))
	}

	logger.Info("Reconciliation locked", slog.String("reconciliation_id", reconciliationID))
	return s.snapshot(ctx, updated)
}

// maxReopenDays returns the role-bounded reopen window in days.
func (s *reconciliationService) maxReopenDays(role domain.CompanyRole) int {
	switch role {
	case domain.RoleAccountant:
		return s.reopen.AccountantDays
	case domain.RoleController:
		return s.reopen.ControllerDays
	case domain.RoleCFO, domain.RoleAdmin:
		return s.reopen.CFODays
	default:
		return 0
	}
}

// Reopen transitions completed|locked back to in-progress with the reopened
// flag, appending an immutable event to the reopen history.
func (s *reconciliationService) Reopen(ctx context.Context, companyID string, reconciliationID string, req dto.ReopenRequest, userID string) (*dto.ReconciliationSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant); err != nil {
		return nil, err
	}

	role, err := s.companySvc.MemberRole(ctx, companyID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve member role: %w", err)
	}

	now := time.Now().UTC()
	if !req.ReopenUntil.After(now) {
		return nil, apperrors.NewDomainError("reopen_until_in_past", "reopen window end %s is not in the future", req.ReopenUntil.Format(time.RFC3339))
	}
	maxDays := s.maxReopenDays(role)
	if maxDays <= 0 {
		return nil, fmt.Errorf("%w: role %s may not reopen reconciliations", apperrors.ErrForbidden, role)
	}
	if req.ReopenUntil.After(now.AddDate(0, 0, maxDays)) {
		return nil, apperrors.NewDomainError("reopen_window_exceeded", "role %s may reopen for at most %d days", role, maxDays)
	}

	recon, err := s.findOwnedReconciliation(ctx, companyID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if recon.Status != domain.ReconciliationCompleted && recon.Status != domain.ReconciliationLocked {
		return nil, apperrors.NewDomainError("reconciliation_not_reopenable", "cannot reopen reconciliation in status %s", recon.Status)
	}

	event := domain.ReopenEvent{
		Reason:     req.Reason,
		ReopenedBy: userID,
		ReopenedAt: now,
		Until:      req.ReopenUntil,
		FromStatus: string(recon.Status),
	}

	updated, err := s.reconRepo.TransitionStatus(ctx, reconciliationID, portsrepo.StatusTransition{
		From:        recon.Status,
		To:          domain.ReconciliationInProgress,
		Reopened:    true,
		ActorID:     userID,
		At:          now,
		ReopenEvent: &event,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reopen reconciliation: %w", err)
	}

	if err := s.auditSvc.Record(ctx, companyID, userID, domain.ActionReconciliationReopened, "reconciliation", reconciliationID, recon, updated); err != nil {
		logger.Warn("Audit append failed for Reopen", slog.String("error", err.Error()))
	}

	logger.Info("Reconciliation reopened", slog.String("reconciliation_id", reconciliationID), slog.String("reason", req.Reason), slog.Int("reopen_count", updated.ReopenCount))
	return s.snapshot(ctx, updated)
}
