package repositories

import (
	"context"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// AuditRepositoryFacade defines the append-only audit trail store. There is
// deliberately no update or delete operation.
type AuditRepositoryFacade interface {
	// SaveAuditEntry appends one immutable entry.
	SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error

	// ListAuditEntriesBySubject retrieves entries for one subject, newest first,
	// with token pagination.
	ListAuditEntriesBySubject(ctx context.Context, companyID string, subjectID string, limit int, nextToken *string) ([]domain.AuditEntry, *string, error)
}
