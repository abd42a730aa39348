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

// Clearing and expense accounts used when an adjustment is mirrored into the
// ledger.
const (
	accountBankClearing   = "BANK_CLEARING"
	accountBankFees       = "BANK_FEES"
	accountWriteOffs      = "WRITE_OFFS"
	accountInterestIncome = "INTEREST_INCOME"
)

// adjustmentService manages signed adjustments on an editable reconciliation.
type adjustmentService struct {
	reconRepo     portsrepo.ReconciliationRepositoryFacade
	statementRepo portsrepo.StatementRepositoryFacade
	companySvc    portssvc.CompanyAuthorizerSvc
	auditSvc      portssvc.AuditSvcFacade
	ledger        portssvc.LedgerPosterFacade
	cfg           config.MatchingConfig
}

// NewAdjustmentService creates a new AdjustmentService.
func NewAdjustmentService(
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	statementRepo portsrepo.StatementRepositoryFacade,
	companySvc portssvc.CompanyAuthorizerSvc,
	auditSvc portssvc.AuditSvcFacade,
	ledger portssvc.LedgerPosterFacade,
	cfg config.MatchingConfig,
) portssvc.AdjustmentSvcFacade {
	return &adjustmentService{
		reconRepo:     reconRepo,
		statementRepo: statementRepo,
		companySvc:    companySvc,
		auditSvc:      auditSvc,
		ledger:        ledger,
		cfg:           cfg,
	}
}

var _ portssvc.AdjustmentSvcFacade = (*adjustmentService)(nil)

// checkAdjustmentBound rejects raw amounts whose magnitude exceeds the
// configured ceiling.
func (s *adjustmentService) checkAdjustmentBound(raw decimal.Decimal) error {
	if raw.Abs().GreaterThan(s.cfg.MaxAdjustmentAmount) {
		return fmt.Errorf("%w: adjustment amount %s exceeds the permitted maximum %s", apperrors.ErrValidation, raw.String(), s.cfg.MaxAdjustmentAmount.String())
	}
	return nil
}

// journalLinesFor builds the balanced legs for an adjustment posting. Timing
// differences have no ledger impact and return an error upstream.
func journalLinesFor(adjType domain.AdjustmentType, signed decimal.Decimal, description string) []domain.JournalLine {
	magnitude := signed.Abs()
	switch adjType {
	case domain.AdjustmentBankFee:
		return []domain.JournalLine{
			{AccountCode: accountBankFees, Side: domain.Debit, Amount: magnitude, Memo: description},
			{AccountCode: accountBankClearing, Side: domain.Credit, Amount: magnitude, Memo: description},
		}
	case domain.AdjustmentWriteOff:
		return []domain.JournalLine{
			{AccountCode: accountWriteOffs, Side: domain.Debit, Amount: magnitude, Memo: description},
			{AccountCode: accountBankClearing, Side: domain.Credit, Amount: magnitude, Memo: description},
		}
	case domain.AdjustmentInterest:
		return []domain.JournalLine{
			{AccountCode: accountBankClearing, Side: domain.Debit, Amount: magnitude, Memo: description},
			{AccountCode: accountInterestIncome, Side: domain.Credit, Amount: magnitude, Memo: description},
		}
	default:
		return nil
	}
}

// CreateAdjustment records a variance explanation, optionally mirroring it into
// the ledger, then recomputes variance and audits.
func (s *adjustmentService) CreateAdjustment(ctx context.Context, companyID string, reconciliationID string, req dto.CreateAdjustmentRequest, userID string) (*domain.BankReconciliationAdjustment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant); err != nil {
		logger.Warn("Authorization failed for CreateAdjustment", slog.String("user_id", userID), slog.String("company_id", companyID))
		return nil, err
	}

	recon, err := loadEditableContext(ctx, s.reconRepo, companyID, reconciliationID)
	if err != nil {
		return nil, err
	}

	adjType := domain.AdjustmentType(req.AdjustmentType)
	if !adjType.IsValid() {
		return nil, fmt.Errorf("%w: unknown adjustment type %q", apperrors.ErrValidation, req.AdjustmentType)
	}
	if err := s.checkAdjustmentBound(req.Amount); err != nil {
		return nil, err
	}
	if req.PostJournalEntry && adjType == domain.AdjustmentTiming {
		return nil, fmt.Errorf("%w: timing differences have no ledger impact and cannot post a journal entry", apperrors.ErrValidation)
	}

	// An optional line link must reference a line of the reconciled statement.
	if req.StatementLineID != nil {
		line, err := s.statementRepo.FindLineByID(ctx, *req.StatementLineID)
		if err != nil {
			return nil, fmt.Errorf("failed to find statement line %s: %w", *req.StatementLineID, err)
		}
		if line.StatementID != recon.StatementID {
			return nil, fmt.Errorf("%w: line %s does not belong to the reconciled statement", apperrors.ErrNotFound, *req.StatementLineID)
		}
	}

	signed := adjType.ApplySign(req.Amount)
	now := time.Now().UTC()

	adjustment := domain.BankReconciliationAdjustment{
		AdjustmentID:     uuid.NewString(),
		ReconciliationID: reconciliationID,
		AdjustmentType:   adjType,
		Amount:           signed,
		Description:      req.Description,
		StatementLineID:  req.StatementLineID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Post the ledger entry first: if it fails, no adjustment is written and
	// nothing needs compensating.
	if req.PostJournalEntry {
		statement, err := s.statementRepo.FindStatementByID(ctx, recon.StatementID)
		if err != nil {
			return nil, fmt.Errorf("failed to find statement %s: %w", recon.StatementID, err)
		}
		entry, err := s.ledger.PostBalancedEntry(ctx, companyID, portssvc.BalancedEntryInput{
			EntryDate:    now,
			Description:  fmt.Sprintf("Reconciliation adjustment: %s", req.Description),
			CurrencyCode: statement.CurrencyCode,
			Lines:        journalLinesFor(adjType, signed, req.Description),
		}, userID)
		if err != nil {
			logger.Error("Failed to post adjustment journal entry", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
			return nil, fmt.Errorf("failed to post journal entry for adjustment: %w", err)
		}
		adjustment.JournalEntryID = &entry.JournalEntryID
	}

	if err := s.reconRepo.SaveAdjustment(ctx, adjustment); err != nil {
		logger.Error("Failed to save adjustment", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}

	variance, err := reconciliationVariance(ctx, s.statementRepo, s.reconRepo, recon)
	if err != nil {
		return nil, err
	}

	if err := s.auditSvc.Record(ctx, companyID, userID, domain.ActionAdjustmentCreated, "adjustment", adjustment.AdjustmentID, nil, adjustment); err != nil {
		logger.Warn("Audit append failed for CreateAdjustment", slog.String("error", err.Error()))
	}

	logger.Info("Adjustment created", slog.String("adjustment_id", adjustment.AdjustmentID), slog.String("type", string(adjType)), slog.String("variance", variance.String()))
	return &adjustment, nil
}

// UpdateAdjustment changes the raw amount and/or description, re-applying the
// type's sign convention to a new amount.
func (s *adjustmentService) UpdateAdjustment(ctx context.Context, companyID string, reconciliationID string, adjustmentID string, req dto.UpdateAdjustmentRequest, userID string) (*domain.BankReconciliationAdjustment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant); err != nil {
		return nil, err
	}

	recon, err := loadEditableContext(ctx, s.reconRepo, companyID, reconciliationID)
	if err != nil {
		return nil, err
	}

	adjustment, err := s.reconRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find adjustment %s: %w", adjustmentID, err)
	}
	if adjustment.ReconciliationID != reconciliationID {
		return nil, fmt.Errorf("%w: adjustment %s does not belong to reconciliation %s", apperrors.ErrNotFound, adjustmentID, reconciliationID)
	}

	before := *adjustment

	if req.Amount != nil {
		if err := s.checkAdjustmentBound(*req.Amount); err != nil {
			return nil, err
		}
		adjustment.Amount = adjustment.AdjustmentType.ApplySign(*req.Amount)
	}
	if req.Description != nil {
		adjustment.Description = *req.Description
	}
	adjustment.LastUpdatedAt = time.Now().UTC()
	adjustment.LastUpdatedBy = userID

	if err := s.reconRepo.UpdateAdjustment(ctx, *adjustment); err != nil {
		logger.Error("Failed to update adjustment", slog.String("error", err.Error()), slog.String("adjustment_id", adjustmentID))
		return nil, fmt.Errorf("failed to update adjustment: %w", err)
	}

	variance, err := reconciliationVariance(ctx, s.statementRepo, s.reconRepo, recon)
	if err != nil {
		return nil, err
	}

	if err := s.auditSvc.Record(ctx, companyID, userID, domain.ActionAdjustmentUpdated, "adjustment", adjustmentID, before, adjustment); err != nil {
		logger.Warn("Audit append failed for UpdateAdjustment", slog.String("error", err.Error()))
	}

	logger.Info("Adjustment updated", slog.String("adjustment_id", adjustmentID), slog.String("variance", variance.String()))
	return adjustment, nil
}

// DeleteAdjustment removes an adjustment and recomputes variance. Deleting an
// adjustment that no longer exists is a no-op.
func (s *adjustmentService) DeleteAdjustment(ctx context.Context, companyID string, reconciliationID string, adjustmentID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant); err != nil {
		return err
	}

	recon, err := loadEditableContext(ctx, s.reconRepo, companyID, reconciliationID)
	if err != nil {
		return err
	}

	adjustment, err := s.reconRepo.FindAdjustmentByID(ctx, adjustmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Adjustment already removed", slog.String("adjustment_id", adjustmentID))
			return nil
		}
		return fmt.Errorf("failed to find adjustment %s: %w", adjustmentID, err)
	}
	if adjustment.ReconciliationID != reconciliationID {
		return fmt.Errorf("%w: adjustment %s does not belong to reconciliation %s", apperrors.ErrNotFound, adjustmentID, reconciliationID)
	}

	if err := s.reconRepo.DeleteAdjustment(ctx, adjustmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		logger.Error("Failed to delete adjustment", slog.String("error", err.Error()), slog.String("adjustment_id", adjustmentID))
		return fmt.Errorf("failed to delete adjustment: %w", err)
	}

	variance, err := reconciliationVariance(ctx, s.statementRepo, s.reconRepo, recon)
	if err != nil {
		return err
	}

	if err := s.auditSvc.Record(ctx, companyID, userID, domain.ActionAdjustmentDeleted, "adjustment", adjustmentID, adjustment, nil); err != nil {
		logger.Warn("Audit append failed for DeleteAdjustment", slog.String("error", err.Error()))
	}

	logger.Info("Adjustment deleted", slog.String("adjustment_id", adjustmentID), slog.String("variance", variance.String()))
	return nil
}

// ListAdjustments retrieves all adjustments of a reconciliation.
func (s *adjustmentService) ListAdjustments(ctx context.Context, companyID string, reconciliationID string, userID string) ([]domain.BankReconciliationAdjustment, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if recon.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	adjustments, err := s.reconRepo.ListAdjustmentsByReconciliation(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	return adjustments, nil
}
