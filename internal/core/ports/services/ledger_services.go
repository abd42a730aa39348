package services

import (
	"context"
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// BalancedEntryInput describes a ledger posting to be written atomically.
type BalancedEntryInput struct {
	EntryDate    time.Time
	Description  string
	CurrencyCode string
	Lines        []domain.JournalLine
}

// LedgerPosterFacade is the ledger-posting collaborator contract: given
// balanced lines it posts atomically or fails entirely, leaving no partial
// entry behind.
type LedgerPosterFacade interface {
	PostBalancedEntry(ctx context.Context, companyID string, input BalancedEntryInput, actorUserID string) (*domain.JournalEntry, error)
}
