package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
)

var (
	ErrEntryUnbalanced = errors.New("journal lines do not balance to zero")
	ErrEntryMinLines   = errors.New("journal entry must have at least two lines")
)

// ledgerService implements the ledger-posting contract: a balanced entry is
// written atomically or the call fails entirely, leaving no partial posting.
type ledgerService struct {
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade) portssvc.LedgerPosterFacade {
	return &ledgerService{journalRepo: journalRepo}
}

var _ portssvc.LedgerPosterFacade = (*ledgerService)(nil)

// PostBalancedEntry validates and posts one journal entry.
func (s *ledgerService) PostBalancedEntry(ctx context.Context, companyID string, input portssvc.BalancedEntryInput, actorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(input.Lines) < 2 {
		return nil, ErrEntryMinLines
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range input.Lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("journal line amount must be positive for account %s", line.AccountCode)
		}
		if line.Side == domain.Debit {
			debits = debits.Add(line.Amount)
		} else {
			credits = credits.Add(line.Amount)
		}
	}
	if !debits.Equal(credits) {
		return nil, fmt.Errorf("%w: debits sum is %s and credits sum is %s", ErrEntryUnbalanced, debits.String(), credits.String())
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		JournalEntryID: uuid.NewString(),
		CompanyID:      companyID,
		EntryDate:      input.EntryDate,
		Description:    input.Description,
		CurrencyCode:   input.CurrencyCode,
		Amount:         debits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	lines := make([]domain.JournalLine, len(input.Lines))
	for i, line := range input.Lines {
		lines[i] = line
		lines[i].LineID = uuid.NewString()
		lines[i].JournalEntryID = entry.JournalEntryID
	}

	if err := s.journalRepo.SaveJournalEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	logger.Info("Journal entry posted", slog.String("journal_entry_id", entry.JournalEntryID), slog.String("amount", entry.Amount.String()))
	entry.Lines = lines
	return &entry, nil
}
