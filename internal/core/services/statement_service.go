package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
)

// statementService ingests already-parsed bank statements. Parsing the bank's
// file formats happens upstream; this service only receives structured lines.
type statementService struct {
	statementRepo portsrepo.StatementRepositoryFacade
	companySvc    portssvc.CompanyAuthorizerSvc
}

// NewStatementService creates a new StatementService.
func NewStatementService(statementRepo portsrepo.StatementRepositoryFacade, companySvc portssvc.CompanyAuthorizerSvc) portssvc.StatementSvcFacade {
	return &statementService{statementRepo: statementRepo, companySvc: companySvc}
}

var _ portssvc.StatementSvcFacade = (*statementService)(nil)

// CreateStatement persists a statement with its deduplicated lines.
func (s *statementService) CreateStatement(ctx context.Context, companyID string, req dto.CreateStatementRequest, creatorUserID string) (*dto.CreateStatementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, creatorUserID, companyID, domain.RoleAccountant); err != nil {
		logger.Warn("Authorization failed for CreateStatement", slog.String("user_id", creatorUserID), slog.String("company_id", companyID))
		return nil, err
	}

	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, fmt.Errorf("%w: statement period end precedes period start", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	statementID := uuid.NewString()
	statement := domain.BankStatement{
		StatementID:      statementID,
		CompanyID:        companyID,
		AccountReference: req.AccountReference,
		PeriodStart:      req.PeriodStart,
		PeriodEnd:        req.PeriodEnd,
		OpeningBalance:   req.OpeningBalance,
		ClosingBalance:   req.ClosingBalance,
		CurrencyCode:     req.CurrencyCode,
		Status:           domain.StatementImported,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// Dedupe by external id within the import; the bank-side id is the unit of
	// idempotency for re-uploaded files.
	seen := make(map[string]struct{}, len(req.Lines))
	lines := make([]domain.BankStatementLine, 0, len(req.Lines))
	duplicates := 0
	for i, lineReq := range req.Lines {
		if _, dup := seen[lineReq.ExternalID]; dup {
			duplicates++
			continue
		}
		seen[lineReq.ExternalID] = struct{}{}

		lineNumber := lineReq.LineNumber
		if lineNumber == 0 {
			lineNumber = i + 1
		}
		lines = append(lines, domain.BankStatementLine{
			LineID:          uuid.NewString(),
			StatementID:     statementID,
			TransactionDate: lineReq.TransactionDate,
			Description:     lineReq.Description,
			ReferenceNumber: lineReq.ReferenceNumber,
			Amount:          lineReq.Amount,
			BalanceAfter:    lineReq.BalanceAfter,
			ExternalID:      lineReq.ExternalID,
			LineNumber:      lineNumber,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].TransactionDate.Equal(lines[j].TransactionDate) {
			return lines[i].TransactionDate.Before(lines[j].TransactionDate)
		}
		return lines[i].LineNumber < lines[j].LineNumber
	})

	if err := s.statementRepo.SaveStatement(ctx, statement, lines); err != nil {
		logger.Error("Failed to save statement", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}

	logger.Info("Statement imported", slog.String("statement_id", statementID), slog.Int("lines", len(lines)), slog.Int("duplicates_skipped", duplicates))
	return &dto.CreateStatementResponse{
		StatementID:       statementID,
		LinesImported:     len(lines),
		DuplicatesSkipped: duplicates,
	}, nil
}

// GetStatement retrieves a statement scoped to the company.
func (s *statementService) GetStatement(ctx context.Context, companyID string, statementID string, requestingUserID string) (*domain.BankStatement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	statement, err := s.statementRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find statement", slog.String("error", err.Error()), slog.String("statement_id", statementID))
		}
		return nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	if statement.CompanyID != companyID {
		// Obscure existence across tenants.
		return nil, apperrors.ErrNotFound
	}
	return statement, nil
}

// ListStatements retrieves a page of statements for the company.
func (s *statementService) ListStatements(ctx context.Context, companyID string, userID string, params dto.ListParams) (*dto.ListStatementsResponse, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	statements, nextToken, err := s.statementRepo.ListStatementsByCompany(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}

	responses := make([]dto.StatementResponse, len(statements))
	for i := range statements {
		responses[i] = dto.ToStatementResponse(&statements[i])
	}
	return &dto.ListStatementsResponse{Statements: responses, NextToken: nextToken}, nil
}

// ListStatementLines retrieves a page of lines ordered by (date, line number).
func (s *statementService) ListStatementLines(ctx context.Context, companyID string, statementID string, userID string, params dto.ListParams) (*dto.ListStatementLinesResponse, error) {
	// GetStatement performs the authorization and tenant check.
	if _, err := s.GetStatement(ctx, companyID, statementID, userID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	lines, nextToken, err := s.statementRepo.ListLinesByStatement(ctx, statementID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list statement lines: %w", err)
	}

	return &dto.ListStatementLinesResponse{
		Lines:     dto.ToStatementLineResponses(lines),
		NextToken: nextToken,
	}, nil
}
