package mapping

import (
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalEntryID: d.JournalEntryID,
		CompanyID:      d.CompanyID,
		EntryDate:      d.EntryDate,
		Description:    d.Description,
		CurrencyCode:   d.CurrencyCode,
		Amount:         d.Amount,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry.
// Lines are loaded separately by the repository.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalEntryID: m.JournalEntryID,
		CompanyID:      m.CompanyID,
		EntryDate:      m.EntryDate,
		Description:    m.Description,
		CurrencyCode:   m.CurrencyCode,
		Amount:         m.Amount,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:         d.LineID,
		JournalEntryID: d.JournalEntryID,
		AccountCode:    d.AccountCode,
		Side:           string(d.Side),
		Amount:         d.Amount,
		Memo:           d.Memo,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:         m.LineID,
		JournalEntryID: m.JournalEntryID,
		AccountCode:    m.AccountCode,
		Side:           domain.EntrySide(m.Side),
		Amount:         m.Amount,
		Memo:           m.Memo,
	}
}

// ToDomainJournalLineSlice converts a slice of model lines to domain lines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, ToDomainJournalLine(m))
	}
	return ds
}
