package mapping

import (
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
)

// ToModelAuditEntry converts a domain AuditEntry to a model AuditEntry
func ToModelAuditEntry(d domain.AuditEntry) models.AuditEntry {
	return models.AuditEntry{
		AuditID:     d.AuditID,
		CompanyID:   d.CompanyID,
		Actor:       d.Actor,
		Action:      string(d.Action),
		SubjectType: d.SubjectType,
		SubjectID:   d.SubjectID,
		Before:      d.Before,
		After:       d.After,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainAuditEntry converts a model AuditEntry to a domain AuditEntry
func ToDomainAuditEntry(m models.AuditEntry) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:     m.AuditID,
		CompanyID:   m.CompanyID,
		Actor:       m.Actor,
		Action:      domain.AuditAction(m.Action),
		SubjectType: m.SubjectType,
		SubjectID:   m.SubjectID,
		Before:      m.Before,
		After:       m.After,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainAuditEntrySlice converts a slice of model audit entries to domain entries
func ToDomainAuditEntrySlice(ms []models.AuditEntry) []domain.AuditEntry {
	ds := make([]domain.AuditEntry, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, ToDomainAuditEntry(m))
	}
	return ds
}
