package pgsql

import (
	"context"
	"strconv"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/mapping"
	"github.com/finbooks/bank_reconciliation_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditRepository writes the insert-only audit trail. There is no update or
// delete path on purpose.
type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for audit trail data.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// SaveAuditEntry appends one immutable entry.
func (r *PgxAuditRepository) SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error {
	m := mapping.ToModelAuditEntry(entry)
	query := `
		INSERT INTO audit_entries (audit_id, company_id, actor, action, subject_type, subject_id, before, after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AuditID,
		m.CompanyID,
		m.Actor,
		m.Action,
		m.SubjectType,
		m.SubjectID,
		m.Before,
		m.After,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit entry "+m.AuditID, err)
	}
	return nil
}

// ListAuditEntriesBySubject retrieves entries for one subject, newest first,
// with token pagination.
func (r *PgxAuditRepository) ListAuditEntriesBySubject(ctx context.Context, companyID string, subjectID string, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT audit_id, company_id, actor, action, subject_type, subject_id, before, after, created_at
		FROM audit_entries
		WHERE company_id = $1 AND subject_id = $2
	`
	orderByClause := `ORDER BY created_at DESC, audit_id DESC`

	args := []interface{}{companyID, subjectID}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeTimeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause = `AND (created_at, audit_id) < ($3, $4)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query audit entries for subject "+subjectID, err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var m models.AuditEntry
		err := rows.Scan(
			&m.AuditID,
			&m.CompanyID,
			&m.Actor,
			&m.Action,
			&m.SubjectType,
			&m.SubjectID,
			&m.Before,
			&m.After,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan audit entry row for subject "+subjectID, err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating audit entry rows for subject "+subjectID, err)
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.AuditID)
		newNextToken = &token
	}

	return mapping.ToDomainAuditEntrySlice(entries), newNextToken, nil
}
