package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide distinguishes the two sides of a journal line.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// JournalEntry is a balanced ledger posting. The reconciliation core only uses
// the posting contract: a balanced entry is written atomically or not at all.
type JournalEntry struct {
	JournalEntryID string          `json:"journalEntryID"` // Primary Key (e.g., UUID)
	CompanyID      string          `json:"companyID"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	CurrencyCode   string          `json:"currencyCode"`
	Amount         decimal.Decimal `json:"amount"` // total of the debit side
	Lines          []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is one debit or credit leg of a journal entry.
type JournalLine struct {
	LineID         string          `json:"lineID"`
	JournalEntryID string          `json:"journalEntryID"`
	AccountCode    string          `json:"accountCode"` // e.g. "BANK_CLEARING", "BANK_FEES"
	Side           EntrySide       `json:"side"`
	Amount         decimal.Decimal `json:"amount"` // always positive
	Memo           string          `json:"memo"`
}
