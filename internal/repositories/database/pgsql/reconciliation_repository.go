package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/mapping"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation,
// match, and adjustment data.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `reconciliation_id, company_id, statement_id, status, reopened, reopen_count, started_at, started_by, completed_at, completed_by, locked_at, locked_by, created_at, created_by, last_updated_at, last_updated_by`

const matchColumns = `match_id, reconciliation_id, statement_line_id, source_type, source_id, amount, auto_matched, confidence_score, matched_at, matched_by`

const adjustmentColumns = `adjustment_id, reconciliation_id, adjustment_type, amount, description, statement_line_id, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// SaveReconciliation persists a new reconciliation. The unique index on
// statement_id enforces the one-reconciliation-per-statement rule.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, reconciliation domain.BankReconciliation) error {
	m := mapping.ToModelReconciliation(reconciliation)
	query := `
		INSERT INTO bank_reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReconciliationID,
		m.CompanyID,
		m.StatementID,
		m.Status,
		m.Reopened,
		m.ReopenCount,
		m.StartedAt,
		m.StartedBy,
		m.CompletedAt,
		m.CompletedBy,
		m.LockedAt,
		m.LockedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: statement %s already has a reconciliation", apperrors.ErrDuplicate, m.StatementID)
		}
		return apperrors.NewAppError(500, "failed to insert reconciliation "+m.ReconciliationID, err)
	}
	return nil
}

// TransitionStatus applies a compare-and-set lifecycle transition. The UPDATE
// only fires while the stored status still equals transition.From, so the loser
// of a race gets ErrConflict instead of silently overwriting the winner.
func (r *PgxReconciliationRepository) TransitionStatus(ctx context.Context, reconciliationID string, transition portsrepo.StatusTransition) (*domain.BankReconciliation, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // No-op after a successful commit

	query := `
		UPDATE bank_reconciliations
		SET status = $3,
		    reopened = $4,
		    reopen_count = reopen_count + $5,
		    started_at = CASE WHEN $6 THEN $8 ELSE started_at END,
		    started_by = CASE WHEN $6 THEN $9 ELSE started_by END,
		    completed_at = CASE WHEN $7 THEN $8 WHEN $4 THEN NULL ELSE completed_at END,
		    completed_by = CASE WHEN $7 THEN $9 WHEN $4 THEN NULL ELSE completed_by END,
		    locked_at = CASE WHEN $10 THEN $8 WHEN $4 THEN NULL ELSE locked_at END,
		    locked_by = CASE WHEN $10 THEN $9 WHEN $4 THEN NULL ELSE locked_by END,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE reconciliation_id = $1 AND status = $2;
	`
	starting := transition.To == domain.ReconciliationInProgress && !transition.Reopened
	completing := transition.To == domain.ReconciliationCompleted
	locking := transition.To == domain.ReconciliationLocked
	reopenIncrement := 0
	if transition.Reopened {
		reopenIncrement = 1
	}

	tag, err := tx.Exec(ctx, query,
		reconciliationID,
		string(transition.From),
		string(transition.To),
		transition.Reopened,
		reopenIncrement,
		starting,
		completing,
		transition.At,
		transition.ActorID,
		locking,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to transition reconciliation "+reconciliationID, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a lost race from a missing row.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bank_reconciliations WHERE reconciliation_id = $1);`, reconciliationID).Scan(&exists); err != nil {
			return nil, apperrors.NewAppError(500, "failed to check existence of reconciliation "+reconciliationID, err)
		}
		if !exists {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: reconciliation %s is no longer in status %s", apperrors.ErrConflict, reconciliationID, transition.From)
	}

	if transition.ReopenEvent != nil {
		ev := transition.ReopenEvent
		eventQuery := `
			INSERT INTO reconciliation_reopen_events (event_id, reconciliation_id, reason, reopened_by, reopened_at, until, from_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`
		_, err := tx.Exec(ctx, eventQuery,
			uuid.NewString(),
			reconciliationID,
			ev.Reason,
			ev.ReopenedBy,
			ev.ReopenedAt,
			ev.Until,
			ev.FromStatus,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to insert reopen event for reconciliation "+reconciliationID, err)
		}
	}

	updated, err := r.findReconciliation(ctx, tx, `reconciliation_id = $1`, reconciliationID)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return updated, nil
}

// FindReconciliationByID retrieves a reconciliation with its reopen history.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	return r.findReconciliation(ctx, r.Pool, `reconciliation_id = $1`, reconciliationID)
}

// FindReconciliationByStatementID retrieves the reconciliation attached to a statement.
func (r *PgxReconciliationRepository) FindReconciliationByStatementID(ctx context.Context, statementID string) (*domain.BankReconciliation, error) {
	return r.findReconciliation(ctx, r.Pool, `statement_id = $1`, statementID)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PgxReconciliationRepository) findReconciliation(ctx context.Context, q querier, where string, arg any) (*domain.BankReconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations WHERE ` + where + `;`

	m, err := scanReconciliationRow(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reconciliation", err)
	}

	domainRec := mapping.ToDomainReconciliation(*m)

	history, err := r.loadReopenEvents(ctx, q, m.ReconciliationID)
	if err != nil {
		return nil, err
	}
	domainRec.ReopenHistory = history

	return &domainRec, nil
}

func (r *PgxReconciliationRepository) loadReopenEvents(ctx context.Context, q querier, reconciliationID string) ([]domain.ReopenEvent, error) {
	query := `
		SELECT event_id, reconciliation_id, reason, reopened_by, reopened_at, until, from_status
		FROM reconciliation_reopen_events
		WHERE reconciliation_id = $1
		ORDER BY reopened_at, event_id;
	`
	rows, err := q.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reopen events for reconciliation "+reconciliationID, err)
	}
	defer rows.Close()

	var events []domain.ReopenEvent
	for rows.Next() {
		var m models.ReconciliationReopenEvent
		err := rows.Scan(
			&m.EventID,
			&m.ReconciliationID,
			&m.Reason,
			&m.ReopenedBy,
			&m.ReopenedAt,
			&m.Until,
			&m.FromStatus,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reopen event row for reconciliation "+reconciliationID, err)
		}
		events = append(events, mapping.ToDomainReopenEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reopen event rows for reconciliation "+reconciliationID, err)
	}
	return events, nil
}

// ListReconciliationsByCompany retrieves a paginated list for a company, newest
// first. The reopen history is not loaded for list rows.
func (r *PgxReconciliationRepository) ListReconciliationsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.BankReconciliation, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations WHERE company_id = $1`
	orderByClause := `ORDER BY created_at DESC, reconciliation_id DESC`

	args := []interface{}{companyID}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause = `AND (created_at, reconciliation_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query reconciliations for company "+companyID, err)
	}
	defer rows.Close()

	reconciliations := []models.BankReconciliation{}
	for rows.Next() {
		m, err := scanReconciliationRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan reconciliation row for company "+companyID, err)
		}
		reconciliations = append(reconciliations, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating reconciliation rows for company "+companyID, err)
	}

	var newNextToken *string
	if len(reconciliations) > limit {
		reconciliations = reconciliations[:limit]
		last := reconciliations[len(reconciliations)-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.ReconciliationID)
		newNextToken = &token
	}

	out := make([]domain.BankReconciliation, 0, len(reconciliations))
	for _, m := range reconciliations {
		out = append(out, mapping.ToDomainReconciliation(m))
	}
	return out, newNextToken, nil
}

func scanReconciliationRow(row pgx.Row) (*models.BankReconciliation, error) {
	var m models.BankReconciliation
	err := row.Scan(
		&m.ReconciliationID,
		&m.CompanyID,
		&m.StatementID,
		&m.Status,
		&m.Reopened,
		&m.ReopenCount,
		&m.StartedAt,
		&m.StartedBy,
		&m.CompletedAt,
		&m.CompletedBy,
		&m.LockedAt,
		&m.LockedBy,
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

// SaveMatch persists a match. The partial unique indexes on
// (reconciliation_id, statement_line_id) and (reconciliation_id, source_type,
// source_id) surface here as ErrDuplicate.
func (r *PgxReconciliationRepository) SaveMatch(ctx context.Context, match domain.BankReconciliationMatch) error {
	m := mapping.ToModelMatch(match)
	query := `
		INSERT INTO bank_reconciliation_matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.MatchID,
		m.ReconciliationID,
		m.StatementLineID,
		m.SourceType,
		m.SourceID,
		m.Amount,
		m.AutoMatched,
		m.ConfidenceScore,
		m.MatchedAt,
		m.MatchedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: line or source already matched in reconciliation %s", apperrors.ErrDuplicate, m.ReconciliationID)
		}
		return apperrors.NewAppError(500, "failed to insert match "+m.MatchID, err)
	}
	return nil
}

// DeleteMatch removes a match row.
func (r *PgxReconciliationRepository) DeleteMatch(ctx context.Context, matchID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM bank_reconciliation_matches WHERE match_id = $1;`, matchID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete match "+matchID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindMatchByID retrieves a single match.
func (r *PgxReconciliationRepository) FindMatchByID(ctx context.Context, matchID string) (*domain.BankReconciliationMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM bank_reconciliation_matches WHERE match_id = $1;`

	m, err := scanMatchRow(r.Pool.QueryRow(ctx, query, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find match by ID "+matchID, err)
	}

	domainMatch := mapping.ToDomainMatch(*m)
	return &domainMatch, nil
}

// ListMatchesByReconciliation retrieves all matches of a reconciliation in a
// deterministic order.
func (r *PgxReconciliationRepository) ListMatchesByReconciliation(ctx context.Context, reconciliationID string) ([]domain.BankReconciliationMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM bank_reconciliation_matches
		WHERE reconciliation_id = $1
		ORDER BY matched_at, match_id;
	`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query matches for reconciliation "+reconciliationID, err)
	}
	defer rows.Close()

	matches := []models.BankReconciliationMatch{}
	for rows.Next() {
		m, err := scanMatchRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan match row for reconciliation "+reconciliationID, err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating match rows for reconciliation "+reconciliationID, err)
	}

	return mapping.ToDomainMatchSlice(matches), nil
}

func scanMatchRow(row pgx.Row) (*models.BankReconciliationMatch, error) {
	var m models.BankReconciliationMatch
	err := row.Scan(
		&m.MatchID,
		&m.ReconciliationID,
		&m.StatementLineID,
		&m.SourceType,
		&m.SourceID,
		&m.Amount,
		&m.AutoMatched,
		&m.ConfidenceScore,
		&m.MatchedAt,
		&m.MatchedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveAdjustment persists a new adjustment.
func (r *PgxReconciliationRepository) SaveAdjustment(ctx context.Context, adjustment domain.BankReconciliationAdjustment) error {
	m := mapping.ToModelAdjustment(adjustment)
	query := `
		INSERT INTO bank_reconciliation_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AdjustmentID,
		m.ReconciliationID,
		m.AdjustmentType,
		m.Amount,
		m.Description,
		m.StatementLineID,
		m.JournalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert adjustment "+m.AdjustmentID, err)
	}
	return nil
}

// UpdateAdjustment updates the mutable fields of an adjustment.
func (r *PgxReconciliationRepository) UpdateAdjustment(ctx context.Context, adjustment domain.BankReconciliationAdjustment) error {
	m := mapping.ToModelAdjustment(adjustment)
	query := `
		UPDATE bank_reconciliation_adjustments
		SET amount = $2, description = $3, journal_entry_id = $4, last_updated_at = $5, last_updated_by = $6
		WHERE adjustment_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.AdjustmentID,
		m.Amount,
		m.Description,
		m.JournalEntryID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update adjustment "+m.AdjustmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAdjustment removes an adjustment row.
func (r *PgxReconciliationRepository) DeleteAdjustment(ctx context.Context, adjustmentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM bank_reconciliation_adjustments WHERE adjustment_id = $1;`, adjustmentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete adjustment "+adjustmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAdjustmentByID retrieves a single adjustment.
func (r *PgxReconciliationRepository) FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.BankReconciliationAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM bank_reconciliation_adjustments WHERE adjustment_id = $1;`

	m, err := scanAdjustmentRow(r.Pool.QueryRow(ctx, query, adjustmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find adjustment by ID "+adjustmentID, err)
	}

	domainAdjustment := mapping.ToDomainAdjustment(*m)
	return &domainAdjustment, nil
}

// ListAdjustmentsByReconciliation retrieves all adjustments of a reconciliation.
func (r *PgxReconciliationRepository) ListAdjustmentsByReconciliation(ctx context.Context, reconciliationID string) ([]domain.BankReconciliationAdjustment, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM bank_reconciliation_adjustments
		WHERE reconciliation_id = $1
		ORDER BY created_at, adjustment_id;
	`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query adjustments for reconciliation "+reconciliationID, err)
	}
	defer rows.Close()

	adjustments := []models.BankReconciliationAdjustment{}
	for rows.Next() {
		m, err := scanAdjustmentRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan adjustment row for reconciliation "+reconciliationID, err)
		}
		adjustments = append(adjustments, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating adjustment rows for reconciliation "+reconciliationID, err)
	}

	return mapping.ToDomainAdjustmentSlice(adjustments), nil
}

func scanAdjustmentRow(row pgx.Row) (*models.BankReconciliationAdjustment, error) {
	var m models.BankReconciliationAdjustment
	err := row.Scan(
		&m.AdjustmentID,
		&m.ReconciliationID,
		&m.AdjustmentType,
		&m.Amount,
		&m.Description,
		&m.StatementLineID,
		&m.JournalEntryID,
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
