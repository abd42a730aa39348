package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSourceRepository struct {
	BaseRepository
}

// newPgxSourceRepository creates a new repository over the internal financial
// records a statement line can be matched against.
func newPgxSourceRepository(pool *pgxpool.Pool) portsrepo.SourceRepositoryFacade {
	return &PgxSourceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SourceRepositoryFacade = (*PgxSourceRepository)(nil)

const auditColumns = `created_at, created_by, last_updated_at, last_updated_by`

// FindCandidateSources retrieves records of one source type within the date
// window and amount band. Rows come back ordered by date then id so scoring
// ties resolve the same way on every run.
func (r *PgxSourceRepository) FindCandidateSources(ctx context.Context, query portsrepo.SourceCandidateQuery) ([]domain.MatchSource, error) {
	switch query.SourceType {
	case domain.SourcePayment:
		return r.findCandidatePayments(ctx, query)
	case domain.SourceInvoice:
		return r.findCandidateInvoices(ctx, query)
	case domain.SourceCreditNote:
		return r.findCandidateCreditNotes(ctx, query)
	case domain.SourceJournalEntry:
		return r.findCandidateJournalEntries(ctx, query)
	default:
		return nil, fmt.Errorf("%w: unknown source type %q", apperrors.ErrValidation, query.SourceType)
	}
}

func (r *PgxSourceRepository) findCandidatePayments(ctx context.Context, q portsrepo.SourceCandidateQuery) ([]domain.MatchSource, error) {
	query := `
		SELECT payment_id, company_id, customer_name, reference, payment_date, total, currency_code, ` + auditColumns + `
		FROM payments
		WHERE company_id = $1 AND currency_code = $2
		  AND payment_date >= $3 AND payment_date <= $4
		  AND total >= $5 AND total <= $6
		ORDER BY payment_date, payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, q.CompanyID, q.CurrencyCode, q.DateFrom, q.DateTo, q.AmountMin, q.AmountMax)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query candidate payments for company "+q.CompanyID, err)
	}
	defer rows.Close()

	var sources []domain.MatchSource
	for rows.Next() {
		m, err := scanPaymentRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan candidate payment row", err)
		}
		sources = append(sources, mapping.ToDomainPayment(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating candidate payment rows", err)
	}
	return sources, nil
}

func (r *PgxSourceRepository) findCandidateInvoices(ctx context.Context, q portsrepo.SourceCandidateQuery) ([]domain.MatchSource, error) {
	query := `
		SELECT invoice_id, company_id, customer_name, invoice_number, issue_date, total, currency_code, ` + auditColumns + `
		FROM invoices
		WHERE company_id = $1 AND currency_code = $2
		  AND issue_date >= $3 AND issue_date <= $4
		  AND total >= $5 AND total <= $6
		ORDER BY issue_date, invoice_id;
	`
	rows, err := r.Pool.Query(ctx, query, q.CompanyID, q.CurrencyCode, q.DateFrom, q.DateTo, q.AmountMin, q.AmountMax)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query candidate invoices for company "+q.CompanyID, err)
	}
	defer rows.Close()

	var sources []domain.MatchSource
	for rows.Next() {
		m, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan candidate invoice row", err)
		}
		sources = append(sources, mapping.ToDomainInvoice(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating candidate invoice rows", err)
	}
	return sources, nil
}

func (r *PgxSourceRepository) findCandidateCreditNotes(ctx context.Context, q portsrepo.SourceCandidateQuery) ([]domain.MatchSource, error) {
	query := `
		SELECT credit_note_id, company_id, customer_name, note_number, issue_date, total, currency_code, ` + auditColumns + `
		FROM credit_notes
		WHERE company_id = $1 AND currency_code = $2
		  AND issue_date >= $3 AND issue_date <= $4
		  AND total >= $5 AND total <= $6
		ORDER BY issue_date, credit_note_id;
	`
	rows, err := r.Pool.Query(ctx, query, q.CompanyID, q.CurrencyCode, q.DateFrom, q.DateTo, q.AmountMin, q.AmountMax)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query candidate credit notes for company "+q.CompanyID, err)
	}
	defer rows.Close()

	var sources []domain.MatchSource
	for rows.Next() {
		m, err := scanCreditNoteRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan candidate credit note row", err)
		}
		sources = append(sources, mapping.ToDomainCreditNote(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating candidate credit note rows", err)
	}
	return sources, nil
}

func (r *PgxSourceRepository) findCandidateJournalEntries(ctx context.Context, q portsrepo.SourceCandidateQuery) ([]domain.MatchSource, error) {
	query := `
		SELECT journal_entry_id, company_id, description, entry_date, amount, currency_code, ` + auditColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND currency_code = $2
		  AND entry_date >= $3 AND entry_date <= $4
		  AND amount >= $5 AND amount <= $6
		ORDER BY entry_date, journal_entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, q.CompanyID, q.CurrencyCode, q.DateFrom, q.DateTo, q.AmountMin, q.AmountMax)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query candidate journal entries for company "+q.CompanyID, err)
	}
	defer rows.Close()

	var sources []domain.MatchSource
	for rows.Next() {
		var s domain.JournalEntrySource
		err := rows.Scan(
			&s.JournalEntryID,
			&s.CompanyID,
			&s.Description,
			&s.EntryDate,
			&s.Total,
			&s.CurrencyCode,
			&s.CreatedAt,
			&s.CreatedBy,
			&s.LastUpdatedAt,
			&s.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan candidate journal entry row", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating candidate journal entry rows", err)
	}
	return sources, nil
}

// FindSource retrieves one record by its type discriminant and id.
func (r *PgxSourceRepository) FindSource(ctx context.Context, companyID string, sourceType domain.MatchSourceType, sourceID string) (domain.MatchSource, error) {
	switch sourceType {
	case domain.SourcePayment:
		query := `
			SELECT payment_id, company_id, customer_name, reference, payment_date, total, currency_code, ` + auditColumns + `
			FROM payments WHERE company_id = $1 AND payment_id = $2;
		`
		m, err := scanPaymentRow(r.Pool.QueryRow(ctx, query, companyID, sourceID))
		if err != nil {
			return nil, mapSourceLookupErr(err, sourceID)
		}
		return mapping.ToDomainPayment(*m), nil

	case domain.SourceInvoice:
		query := `
			SELECT invoice_id, company_id, customer_name, invoice_number, issue_date, total, currency_code, ` + auditColumns + `
			FROM invoices WHERE company_id = $1 AND invoice_id = $2;
		`
		m, err := scanInvoiceRow(r.Pool.QueryRow(ctx, query, companyID, sourceID))
		if err != nil {
			return nil, mapSourceLookupErr(err, sourceID)
		}
		return mapping.ToDomainInvoice(*m), nil

	case domain.SourceCreditNote:
		query := `
			SELECT credit_note_id, company_id, customer_name, note_number, issue_date, total, currency_code, ` + auditColumns + `
			FROM credit_notes WHERE company_id = $1 AND credit_note_id = $2;
		`
		m, err := scanCreditNoteRow(r.Pool.QueryRow(ctx, query, companyID, sourceID))
		if err != nil {
			return nil, mapSourceLookupErr(err, sourceID)
		}
		return mapping.ToDomainCreditNote(*m), nil

	case domain.SourceJournalEntry:
		query := `
			SELECT journal_entry_id, company_id, description, entry_date, amount, currency_code, ` + auditColumns + `
			FROM journal_entries WHERE company_id = $1 AND journal_entry_id = $2;
		`
		var s domain.JournalEntrySource
		err := r.Pool.QueryRow(ctx, query, companyID, sourceID).Scan(
			&s.JournalEntryID,
			&s.CompanyID,
			&s.Description,
			&s.EntryDate,
			&s.Total,
			&s.CurrencyCode,
			&s.CreatedAt,
			&s.CreatedBy,
			&s.LastUpdatedAt,
			&s.LastUpdatedBy,
		)
		if err != nil {
			return nil, mapSourceLookupErr(err, sourceID)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: unknown source type %q", apperrors.ErrValidation, sourceType)
	}
}

func mapSourceLookupErr(err error, sourceID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return apperrors.NewAppError(500, "failed to find source "+sourceID, err)
}

// SavePayment persists a new payment.
func (r *PgxSourceRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (payment_id, company_id, customer_name, reference, payment_date, total, currency_code, ` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PaymentID, m.CompanyID, m.CustomerName, m.Reference, m.PaymentDate, m.Total, m.CurrencyCode,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapSourceInsertErr(err, "payment", m.PaymentID)
}

// SaveInvoice persists a new invoice.
func (r *PgxSourceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (invoice_id, company_id, customer_name, invoice_number, issue_date, total, currency_code, ` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.InvoiceID, m.CompanyID, m.CustomerName, m.InvoiceNumber, m.IssueDate, m.Total, m.CurrencyCode,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapSourceInsertErr(err, "invoice", m.InvoiceID)
}

// SaveCreditNote persists a new credit note.
func (r *PgxSourceRepository) SaveCreditNote(ctx context.Context, note domain.CreditNote) error {
	m := mapping.ToModelCreditNote(note)
	query := `
		INSERT INTO credit_notes (credit_note_id, company_id, customer_name, note_number, issue_date, total, currency_code, ` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CreditNoteID, m.CompanyID, m.CustomerName, m.NoteNumber, m.IssueDate, m.Total, m.CurrencyCode,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapSourceInsertErr(err, "credit note", m.CreditNoteID)
}

func mapSourceInsertErr(err error, kind string, id string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return fmt.Errorf("%w: %s with ID %s already exists", apperrors.ErrDuplicate, kind, id)
	}
	return apperrors.NewAppError(500, "failed to insert "+kind+" "+id, err)
}

func scanPaymentRow(row pgx.Row) (*models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.CompanyID,
		&m.CustomerName,
		&m.Reference,
		&m.PaymentDate,
		&m.Total,
		&m.CurrencyCode,
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

func scanInvoiceRow(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.CompanyID,
		&m.CustomerName,
		&m.InvoiceNumber,
		&m.IssueDate,
		&m.Total,
		&m.CurrencyCode,
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

func scanCreditNoteRow(row pgx.Row) (*models.CreditNote, error) {
	var m models.CreditNote
	err := row.Scan(
		&m.CreditNoteID,
		&m.CompanyID,
		&m.CustomerName,
		&m.NoteNumber,
		&m.IssueDate,
		&m.Total,
		&m.CurrencyCode,
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
