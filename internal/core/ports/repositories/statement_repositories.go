package repositories

import (
	"context"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// StatementReader defines read operations for bank statement data
type StatementReader interface {
	// FindStatementByID retrieves a statement by its unique identifier.
	FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error)

	// ListStatementsByCompany retrieves a paginated list of statements for a company
	// using token-based pagination. Returns the statements, a token for the next
	// page, and an error.
	ListStatementsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.BankStatement, *string, error)

	// FindLineByID retrieves a single statement line.
	FindLineByID(ctx context.Context, lineID string) (*domain.BankStatementLine, error)

	// ListLinesByStatement retrieves a paginated list of lines ordered by
	// (transaction_date, line_number).
	ListLinesByStatement(ctx context.Context, statementID string, limit int, nextToken *string) ([]domain.BankStatementLine, *string, error)

	// FindAllLinesByStatement retrieves every line of a statement ordered by
	// (transaction_date, line_number). Used by variance and auto-match runs.
	FindAllLinesByStatement(ctx context.Context, statementID string) ([]domain.BankStatementLine, error)
}

// StatementWriter defines write operations for bank statement data
type StatementWriter interface {
	// SaveStatement persists a statement and its lines atomically.
	SaveStatement(ctx context.Context, statement domain.BankStatement, lines []domain.BankStatementLine) error

	// UpdateStatementStatus updates the status of a statement.
	UpdateStatementStatus(ctx context.Context, statementID string, status domain.BankStatementStatus, updatedBy string) error
}

// StatementRepositoryFacade combines all statement-related repository interfaces
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}
