package repositories

import (
	"context"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// JournalWriter defines write operations for ledger postings.
type JournalWriter interface {
	// SaveJournalEntry persists a journal entry and its lines within a single
	// database transaction: the whole posting lands or none of it does.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error
}

// JournalReader defines read operations for ledger postings.
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry with its lines.
	FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines the journal repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
