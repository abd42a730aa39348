package mapping

import (
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
)

// ToModelReconciliation converts a domain BankReconciliation to a model
// BankReconciliation. The derived variance field has no column and is dropped.
func ToModelReconciliation(d domain.BankReconciliation) models.BankReconciliation {
	return models.BankReconciliation{
		ReconciliationID: d.ReconciliationID,
		CompanyID:        d.CompanyID,
		StatementID:      d.StatementID,
		Status:           models.ReconciliationStatus(d.Status),
		Reopened:         d.Reopened,
		ReopenCount:      d.ReopenCount,
		StartedAt:        d.StartedAt,
		StartedBy:        d.StartedBy,
		CompletedAt:      d.CompletedAt,
		CompletedBy:      d.CompletedBy,
		LockedAt:         d.LockedAt,
		LockedBy:         d.LockedBy,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliation converts a model BankReconciliation to a domain
// BankReconciliation. ReopenHistory is loaded separately by the repository.
func ToDomainReconciliation(m models.BankReconciliation) domain.BankReconciliation {
	return domain.BankReconciliation{
		ReconciliationID: m.ReconciliationID,
		CompanyID:        m.CompanyID,
		StatementID:      m.StatementID,
		Status:           domain.ReconciliationStatus(m.Status),
		Reopened:         m.Reopened,
		ReopenCount:      m.ReopenCount,
		StartedAt:        m.StartedAt,
		StartedBy:        m.StartedBy,
		CompletedAt:      m.CompletedAt,
		CompletedBy:      m.CompletedBy,
		LockedAt:         m.LockedAt,
		LockedBy:         m.LockedBy,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReopenEvent converts a model reopen event row to a domain ReopenEvent
func ToDomainReopenEvent(m models.ReconciliationReopenEvent) domain.ReopenEvent {
	return domain.ReopenEvent{
		Reason:     m.Reason,
		ReopenedBy: m.ReopenedBy,
		ReopenedAt: m.ReopenedAt,
		Until:      m.Until,
		FromStatus: m.FromStatus,
	}
}

// ToModelMatch converts a domain match to a model match
func ToModelMatch(d domain.BankReconciliationMatch) models.BankReconciliationMatch {
	return models.BankReconciliationMatch{
		MatchID:          d.MatchID,
		ReconciliationID: d.ReconciliationID,
		StatementLineID:  d.StatementLineID,
		SourceType:       string(d.SourceType),
		SourceID:         d.SourceID,
		Amount:           d.Amount,
		AutoMatched:      d.AutoMatched,
		ConfidenceScore:  d.ConfidenceScore,
		MatchedAt:        d.MatchedAt,
		MatchedBy:        d.MatchedBy,
	}
}

// ToDomainMatch converts a model match to a domain match
func ToDomainMatch(m models.BankReconciliationMatch) domain.BankReconciliationMatch {
	return domain.BankReconciliationMatch{
		MatchID:          m.MatchID,
		ReconciliationID: m.ReconciliationID,
		StatementLineID:  m.StatementLineID,
		SourceType:       domain.MatchSourceType(m.SourceType),
		SourceID:         m.SourceID,
		Amount:           m.Amount,
		AutoMatched:      m.AutoMatched,
		ConfidenceScore:  m.ConfidenceScore,
		MatchedAt:        m.MatchedAt,
		MatchedBy:        m.MatchedBy,
	}
}

// ToModelAdjustment converts a domain adjustment to a model adjustment
func ToModelAdjustment(d domain.BankReconciliationAdjustment) models.BankReconciliationAdjustment {
	return models.BankReconciliationAdjustment{
		AdjustmentID:     d.AdjustmentID,
		ReconciliationID: d.ReconciliationID,
		AdjustmentType:   string(d.AdjustmentType),
		Amount:           d.Amount,
		Description:      d.Description,
		StatementLineID:  d.StatementLineID,
		JournalEntryID:   d.JournalEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAdjustment converts a model adjustment to a domain adjustment
func ToDomainAdjustment(m models.BankReconciliationAdjustment) domain.BankReconciliationAdjustment {
	return domain.BankReconciliationAdjustment{
		AdjustmentID:     m.AdjustmentID,
		ReconciliationID: m.ReconciliationID,
		AdjustmentType:   domain.AdjustmentType(m.AdjustmentType),
		Amount:           m.Amount,
		Description:      m.Description,
		StatementLineID:  m.StatementLineID,
		JournalEntryID:   m.JournalEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMatchSlice converts a slice of model matches to domain matches
func ToDomainMatchSlice(ms []models.BankReconciliationMatch) []domain.BankReconciliationMatch {
	ds := make([]domain.BankReconciliationMatch, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, ToDomainMatch(m))
	}
	return ds
}

// ToDomainAdjustmentSlice converts a slice of model adjustments to domain adjustments
func ToDomainAdjustmentSlice(ms []models.BankReconciliationAdjustment) []domain.BankReconciliationAdjustment {
	ds := make([]domain.BankReconciliationAdjustment, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, ToDomainAdjustment(m))
	}
	return ds
}
