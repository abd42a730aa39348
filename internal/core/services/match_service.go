package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/finbooks/bank_reconciliation_app/internal/platform/config"
)

// matchService covers candidate discovery and manual matching.
type matchService struct {
	reconRepo     portsrepo.ReconciliationRepositoryFacade
	statementRepo portsrepo.StatementRepositoryFacade
	sourceRepo    portsrepo.SourceRepositoryFacade
	companySvc    portssvc.CompanyAuthorizerSvc
	auditSvc      portssvc.AuditSvcFacade
	finder        *candidateFinder
	cfg           config.MatchingConfig
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	statementRepo portsrepo.StatementRepositoryFacade,
	sourceRepo portsrepo.SourceRepositoryFacade,
	companySvc portssvc.CompanyAuthorizerSvc,
	auditSvc portssvc.AuditSvcFacade,
	cfg config.MatchingConfig,
) portssvc.MatchSvcFacade {
	return &matchService{
		reconRepo:     reconRepo,
		statementRepo: statementRepo,
		sourceRepo:    sourceRepo,
		companySvc:    companySvc,
		auditSvc:      auditSvc,
		finder:        newCandidateFinder(sourceRepo, cfg),
		cfg:           cfg,
	}
}

var _ portssvc.MatchSvcFacade = (*matchService)(nil)

// errNotEditable builds the guard violation for a non-editable reconciliation.
func errNotEditable(status domain.ReconciliationStatus) error {
	return apperrors.NewDomainError("reconciliation_not_editable", "reconciliation in status %s cannot be modified", status)
}

// loadEditableContext loads the reconciliation, verifies company ownership, and
// verifies the editability guard that gates every match/adjustment mutation.
func loadEditableContext(ctx context.Context, reconRepo portsrepo.ReconciliationReader, companyID string, reconciliationID string) (*domain.BankReconciliation, error) {
	recon, err := reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if recon.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	if !recon.CanBeEdited() {
		return nil, errNotEditable(recon.Status)
	}
	return recon, nil
}

// consumedSources builds the (source_type, source_id) exclusion set and the
// matched-line set from the active matches of a reconciliation.
func consumedSources(matches []domain.BankReconciliationMatch) (map[sourceKey]struct{}, map[string]struct{}) {
	consumed := make(map[sourceKey]struct{}, len(matches))
	matchedLines := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		consumed[sourceKey{Type: m.SourceType, ID: m.SourceID}] = struct{}{}
		matchedLines[m.StatementLineID] = struct{}{}
	}
	return consumed, matchedLines
}

// statementLineOf loads a line and verifies it belongs to the reconciliation's
// statement.
func (s *matchService) statementLineOf(ctx context.Context, recon *domain.BankReconciliation, lineID string) (*domain.BankStatementLine, error) {
	line, err := s.statementRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement line %s: %w", lineID, err)
	}
	if line.StatementID != recon.StatementID {
		return nil, fmt.Errorf("%w: line %s does not belong to the reconciled statement", apperrors.ErrNotFound, lineID)
	}
	return line, nil
}

// FindCandidates scores plausible sources for one statement line.
func (s *matchService) FindCandidates(ctx context.Context, companyID string, reconciliationID string, lineID string, sourceType *domain.MatchSourceType, userID string) ([]dto.MatchCandidate, error) {
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

	line, err := s.statementLineOf(ctx, recon, lineID)
	if err != nil {
		return nil, err
	}

	statement, err := s.statementRepo.FindStatementByID(ctx, recon.StatementID)
	if err != nil {
		return nil, fmt.Errorf("failed to find statement %s: %w", recon.StatementID, err)
	}

	matches, err := s.reconRepo.ListMatchesByReconciliation(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	consumed, _ := consumedSources(matches)

	candidates, err := s.finder.findCandidates(ctx, line, companyID, statement.CurrencyCode, sourceType, consumed)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MatchCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = dto.MatchCandidate{
			SourceType:       string(c.Source.SourceType()),
			SourceID:         c.Source.SourceID(),
			Amount:           c.Source.Amount(),
			Date:             c.Source.Date(),
			DisplayReference: c.Source.DisplayReference(),
			DisplayParty:     c.Source.DisplayParty(),
			Confidence:       c.Confidence,
		}
	}
	return out, nil
}

// CreateManualMatch claims a user-specified correspondence between a line and
// a source record, then recomputes variance and audits.
func (s *matchService) CreateManualMatch(ctx context.Context, companyID string, reconciliationID string, req dto.CreateManualMatchRequest, userID string) (*domain.BankReconciliationMatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant); err != nil {
		logger.Warn("Authorization failed for CreateManualMatch", slog.String("user_id", userID), slog.String("company_id", companyID))
		return nil, err
	}

	recon, err := loadEditableContext(ctx, s.reconRepo, companyID, reconciliationID)
	if err != nil {
		return nil, err
	}

	line, err := s.statementLineOf(ctx, recon, req.StatementLineID)
	if err != nil {
		return nil, err
	}

	sourceType := domain.MatchSourceType(req.SourceType)
	if !sourceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown source type %q", apperrors.ErrValidation, req.SourceType)
	}

	// Amount must agree with the line's signed amount within tolerance.
	if req.Amount.Sub(line.Amount).Abs().GreaterThan(s.cfg.AmountEpsilon) {
		return nil, fmt.Errorf("%w: match amount %s disagrees with line amount %s", apperrors.ErrValidation, req.Amount.String(), line.Amount.String())
	}

	matches, err := s.reconRepo.ListMatchesByReconciliation(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	consumed, matchedLines := consumedSources(matches)
	if _, taken := matchedLines[line.LineID]; taken {
		return nil, apperrors.NewDomainError("line_already_matched", "statement line %s is already matched", line.LineID)
	}
	if _, taken := consumed[sourceKey{Type: sourceType, ID: req.SourceID}]; taken {
		return nil, apperrors.NewDomainError("source_already_matched", "%s %s is already consumed by another match", sourceType, req.SourceID)
	}

	// The source must exist in this company.
	if _, err := s.sourceRepo.FindSource(ctx, companyID, sourceType, req.SourceID); err != nil {
		return nil, fmt.Errorf("failed to find %s %s: %w", sourceType, req.SourceID, err)
	}

	match := domain.BankReconciliationMatch{
		MatchID:          uuid.NewString(),
		ReconciliationID: reconciliationID,
		StatementLineID:  line.LineID,
		SourceType:       sourceType,
		SourceID:         req.SourceID,
		Amount:           req.Amount,
		AutoMatched:      false,
		MatchedAt:        time.Now().UTC(),
		MatchedBy:        userID,
	}

	if err := s.reconRepo.SaveMatch(ctx, match); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race against a concurrent match on the same line or source.
			return nil, apperrors.NewDomainError("match_conflict", "line or source was matched concurrently")
		}
		logger.Error("Failed to save match", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	variance, err := reconciliationVariance(ctx, s.statementRepo, s.reconRepo, recon)
	if err != nil {
		return nil, err
	}

	if err := s.auditSvc.Record(ctx, companyID, userID, domain.ActionMatchCreated, "match", match.MatchID, nil, match); err != nil {
		logger.Warn("Audit append failed for CreateManualMatch", slog.String("error", err.Error()))
	}

	logger.Info("Manual match created", slog.String("match_id", match.MatchID), slog.String("line_id", line.LineID), slog.String("variance", variance.String()))
	return &match, nil
}

// RemoveMatch deletes a match and recomputes variance. Removing a match that
// no longer exists is a no-op, not an error.
func (s *matchService) RemoveMatch(ctx context.Context, companyID string, reconciliationID string, matchID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant); err != nil {
		return err
	}

	recon, err := loadEditableContext(ctx, s.reconRepo, companyID, reconciliationID)
	if err != nil {
		return err
	}

	match, err := s.reconRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Match already removed", slog.String("match_id", matchID))
			return nil
		}
		return fmt.Errorf("failed to find match %s: %w", matchID, err)
	}
	if match.ReconciliationID != reconciliationID {
		return fmt.Errorf("%w: match %s does not belong to reconciliation %s", apperrors.ErrNotFound, matchID, reconciliationID)
	}

	if err := s.reconRepo.DeleteMatch(ctx, matchID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		logger.Error("Failed to delete match", slog.String("error", err.Error()), slog.String("match_id", matchID))
		return fmt.Errorf("failed to delete match: %w", err)
	}

	variance, err := reconciliationVariance(ctx, s.statementRepo, s.reconRepo, recon)
	if err != nil {
		return err
	}

	if err := s.auditSvc.Record(ctx, companyID, userID, domain.ActionMatchRemoved, "match", matchID, match, nil); err != nil {
		logger.Warn("Audit append failed for RemoveMatch", slog.String("error", err.Error()))
	}

	logger.Info("Match removed", slog.String("match_id", matchID), slog.String("variance", variance.String()))
	return nil
}

// ListMatches retrieves all active matches of a reconciliation.
func (s *matchService) ListMatches(ctx context.Context, companyID string, reconciliationID string, userID string) ([]domain.BankReconciliationMatch, error) {
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
	matches, err := s.reconRepo.ListMatchesByReconciliation(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}
