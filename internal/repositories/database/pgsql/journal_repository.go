package pgsql

import (
	"context"
	"errors"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveJournalEntry persists an entry and its lines within a single DB
// transaction. Either the whole posting lands or none of it does.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op after a successful commit

	modelEntry := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (journal_entry_id, company_id, entry_date, description, currency_code, amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.JournalEntryID,
		modelEntry.CompanyID,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.CurrencyCode,
		modelEntry.Amount,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+modelEntry.JournalEntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, journal_entry_id, account_code, side, amount, memo)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.JournalEntryID,
			modelLine.AccountCode,
			modelLine.Side,
			modelLine.Amount,
			modelLine.Memo,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for journal entry "+modelEntry.JournalEntryID, err)
	}

	return r.Commit(ctx, tx)
}

// FindJournalEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	entryQuery := `
		SELECT journal_entry_id, company_id, entry_date, description, currency_code, amount, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE journal_entry_id = $1;
	`
	var m models.JournalEntry
	err := r.Pool.QueryRow(ctx, entryQuery, journalEntryID).Scan(
		&m.JournalEntryID,
		&m.CompanyID,
		&m.EntryDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+journalEntryID, err)
	}

	lineQuery := `
		SELECT line_id, journal_entry_id, account_code, side, amount, memo
		FROM journal_lines
		WHERE journal_entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, lineQuery, journalEntryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal entry "+journalEntryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.JournalEntryID,
			&l.AccountCode,
			&l.Side,
			&l.Amount,
			&l.Memo,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for journal entry "+journalEntryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for journal entry "+journalEntryID, err)
	}

	domainEntry := mapping.ToDomainJournalEntry(m)
	domainEntry.Lines = mapping.ToDomainJournalLineSlice(lines)
	return &domainEntry, nil
}
