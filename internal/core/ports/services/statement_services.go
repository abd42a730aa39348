package services

import (
	"context"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
)

// StatementSvcFacade ingests already-parsed bank statements and serves them
// back. Statement-format parsing (OFX/CSV) happens upstream of this service.
type StatementSvcFacade interface {
	// CreateStatement persists a statement with its lines. Lines sharing an
	// external id within the request are deduplicated; the response reports how
	// many were skipped.
	CreateStatement(ctx context.Context, companyID string, req dto.CreateStatementRequest, creatorUserID string) (*dto.CreateStatementResponse, error)

	GetStatement(ctx context.Context, companyID string, statementID string, requestingUserID string) (*domain.BankStatement, error)

	ListStatements(ctx context.Context, companyID string, userID string, params dto.ListParams) (*dto.ListStatementsResponse, error)

	ListStatementLines(ctx context.Context, companyID string, statementID string, userID string, params dto.ListParams) (*dto.ListStatementLinesResponse, error)
}
