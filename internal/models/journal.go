package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents one balanced ledger posting row.
type JournalEntry struct {
	JournalEntryID string          `json:"journalEntryID"` // Primary Key (UUID)
	CompanyID      string          `json:"companyID"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	CurrencyCode   string          `json:"currencyCode"`
	Amount         decimal.Decimal `json:"amount"` // total of the debit side
	AuditFields
}

// JournalLine represents one debit or credit leg of a journal entry.
type JournalLine struct {
	LineID         string          `json:"lineID"` // Primary Key (UUID)
	JournalEntryID string          `json:"journalEntryID"`
	AccountCode    string          `json:"accountCode"`
	Side           string          `json:"side"`   // DEBIT | CREDIT
	Amount         decimal.Decimal `json:"amount"` // always positive
	Memo           string          `json:"memo"`
}
