package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/mapping"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStatementRepository struct {
	BaseRepository
}

// newPgxStatementRepository creates a new repository for bank statement data.
func newPgxStatementRepository(pool *pgxpool.Pool) portsrepo.StatementRepositoryFacade {
	return &PgxStatementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.StatementRepositoryFacade = (*PgxStatementRepository)(nil)

const statementColumns = `statement_id, company_id, account_reference, period_start, period_end, opening_balance, closing_balance, currency_code, status, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, statement_id, transaction_date, description, reference_number, amount, balance_after, external_id, line_number, created_at, created_by, last_updated_at, last_updated_by`

// SaveStatement persists a statement and all its lines within one DB transaction.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, statement domain.BankStatement, lines []domain.BankStatementLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op after a successful commit

	modelStatement := mapping.ToModelStatement(statement)
	statementQuery := `
		INSERT INTO bank_statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, statementQuery,
		modelStatement.StatementID,
		modelStatement.CompanyID,
		modelStatement.AccountReference,
		modelStatement.PeriodStart,
		modelStatement.PeriodEnd,
		modelStatement.OpeningBalance,
		modelStatement.ClosingBalance,
		modelStatement.CurrencyCode,
		modelStatement.Status,
		modelStatement.CreatedAt,
		modelStatement.CreatedBy,
		modelStatement.LastUpdatedAt,
		modelStatement.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: statement with ID %s already exists", apperrors.ErrDuplicate, modelStatement.StatementID)
		}
		return apperrors.NewAppError(500, "failed to insert statement "+modelStatement.StatementID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO bank_statement_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelStatementLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.StatementID,
			modelLine.TransactionDate,
			modelLine.Description,
			modelLine.ReferenceNumber,
			modelLine.Amount,
			modelLine.BalanceAfter,
			modelLine.ExternalID,
			modelLine.LineNumber,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for statement "+modelStatement.StatementID, err)
	}

	return r.Commit(ctx, tx)
}

// FindStatementByID retrieves a statement by its ID.
func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error) {
	query := `SELECT ` + statementColumns + ` FROM bank_statements WHERE statement_id = $1;`

	m, err := r.scanStatementRow(r.Pool.QueryRow(ctx, query, statementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find statement by ID "+statementID, err)
	}

	domainStatement := mapping.ToDomainStatement(*m)
	return &domainStatement, nil
}

// UpdateStatementStatus updates the lifecycle status of a statement.
func (r *PgxStatementRepository) UpdateStatementStatus(ctx context.Context, statementID string, status domain.BankStatementStatus, updatedBy string) error {
	query := `
		UPDATE bank_statements
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE statement_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, statementID, string(status), time.Now().UTC(), updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of statement "+statementID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListStatementsByCompany retrieves a paginated list of statements for a company
// using token-based pagination, newest first.
func (r *PgxStatementRepository) ListStatementsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.BankStatement, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + statementColumns + ` FROM bank_statements WHERE company_id = $1`
	orderByClause := `ORDER BY created_at DESC, statement_id DESC`

	args := []interface{}{companyID}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause = `AND (created_at, statement_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query statements for company "+companyID, err)
	}
	defer rows.Close()

	statements := []models.BankStatement{}
	for rows.Next() {
		m, err := r.scanStatementRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan statement row for company "+companyID, err)
		}
		statements = append(statements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating statement rows for company "+companyID, err)
	}

	var newNextToken *string
	if len(statements) > limit {
		statements = statements[:limit]
		last := statements[len(statements)-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.StatementID)
		newNextToken = &token
	}

	return mapping.ToDomainStatementSlice(statements), newNextToken, nil
}

// FindLineByID retrieves a single statement line.
func (r *PgxStatementRepository) FindLineByID(ctx context.Context, lineID string) (*domain.BankStatementLine, error) {
	query := `SELECT ` + lineColumns + ` FROM bank_statement_lines WHERE line_id = $1;`

	var m models.BankStatementLine
	err := r.Pool.QueryRow(ctx, query, lineID).Scan(
		&m.LineID,
		&m.StatementID,
		&m.TransactionDate,
		&m.Description,
		&m.ReferenceNumber,
		&m.Amount,
		&m.BalanceAfter,
		&m.ExternalID,
		&m.LineNumber,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find statement line by ID "+lineID, err)
	}

	domainLine := mapping.ToDomainStatementLine(m)
	return &domainLine, nil
}

// ListLinesByStatement retrieves a paginated list of lines ordered by
// (transaction_date, line_number).
func (r *PgxStatementRepository) ListLinesByStatement(ctx context.Context, statementID string, limit int, nextToken *string) ([]domain.BankStatementLine, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + lineColumns + ` FROM bank_statement_lines WHERE statement_id = $1`
	orderByClause := `ORDER BY transaction_date, line_number`

	args := []interface{}{statementID}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastDate, lastLineNumber, decodeErr := pagination.DecodeLineToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause = `AND (transaction_date, line_number) > ($2, $3)`
		args = append(args, lastDate, lastLineNumber)
	}

	query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for statement "+statementID, err)
	}
	defer rows.Close()

	lines, err := r.collectLineRows(rows, statementID)
	if err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		token := pagination.EncodeLineToken(last.TransactionDate, last.LineNumber)
		newNextToken = &token
	}

	return mapping.ToDomainStatementLineSlice(lines), newNextToken, nil
}

// FindAllLinesByStatement retrieves every line of a statement in canonical order.
func (r *PgxStatementRepository) FindAllLinesByStatement(ctx context.Context, statementID string) ([]domain.BankStatementLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM bank_statement_lines
		WHERE statement_id = $1
		ORDER BY transaction_date, line_number;
	`
	rows, err := r.Pool.Query(ctx, query, statementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for statement "+statementID, err)
	}
	defer rows.Close()

	lines, err := r.collectLineRows(rows, statementID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainStatementLineSlice(lines), nil
}

func (r *PgxStatementRepository) collectLineRows(rows pgx.Rows, statementID string) ([]models.BankStatementLine, error) {
	lines := []models.BankStatementLine{}
	for rows.Next() {
		var m models.BankStatementLine
		err := rows.Scan(
			&m.LineID,
			&m.StatementID,
			&m.TransactionDate,
			&m.Description,
			&m.ReferenceNumber,
			&m.Amount,
			&m.BalanceAfter,
			&m.ExternalID,
			&m.LineNumber,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for statement "+statementID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for statement "+statementID, err)
	}
	return lines, nil
}

func (r *PgxStatementRepository) scanStatementRow(row pgx.Row) (*models.BankStatement, error) {
	var m models.BankStatement
	err := row.Scan(
		&m.StatementID,
		&m.CompanyID,
		&m.AccountReference,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.CurrencyCode,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
