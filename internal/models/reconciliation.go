package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the persisted state of a reconciliation.
type ReconciliationStatus string

const (
	ReconciliationDraft      ReconciliationStatus = "DRAFT"
	ReconciliationInProgress ReconciliationStatus = "IN_PROGRESS"
	ReconciliationCompleted  ReconciliationStatus = "COMPLETED"
	ReconciliationLocked     ReconciliationStatus = "LOCKED"
)

// BankReconciliation represents one reconciliation row. Variance is never
// stored; the column set reflects that.
type BankReconciliation struct {
	ReconciliationID string               `json:"reconciliationID"` // Primary Key (UUID)
	CompanyID        string               `json:"companyID"`
	StatementID      string               `json:"statementID"` // unique, 1:1 with statement
	Status           ReconciliationStatus `json:"status"`
	Reopened         bool                 `json:"reopened"`
	ReopenCount      int                  `json:"reopenCount"`
	StartedAt        *time.Time           `json:"startedAt"`
	StartedBy        *string              `json:"startedBy"`
	CompletedAt      *time.Time           `json:"completedAt"`
	CompletedBy      *string              `json:"completedBy"`
	LockedAt         *time.Time           `json:"lockedAt"`
	LockedBy         *string              `json:"lockedBy"`
	AuditFields
}

// ReconciliationReopenEvent is one append-only row of the reopen history.
type ReconciliationReopenEvent struct {
	EventID          string    `json:"eventID"` // Primary Key (UUID)
	ReconciliationID string    `json:"reconciliationID"`
	Reason           string    `json:"reason"`
	ReopenedBy       string    `json:"reopenedBy"`
	ReopenedAt       time.Time `json:"reopenedAt"`
	Until            time.Time `json:"until"`
	FromStatus       string    `json:"fromStatus"`
}

// BankReconciliationMatch represents one match row.
type BankReconciliationMatch struct {
	MatchID          string          `json:"matchID"` // Primary Key (UUID)
	ReconciliationID string          `json:"reconciliationID"`
	StatementLineID  string          `json:"statementLineID"`
	SourceType       string          `json:"sourceType"`
	SourceID         string          `json:"sourceID"`
	Amount           decimal.Decimal `json:"amount"`
	AutoMatched      bool            `json:"autoMatched"`
	ConfidenceScore  *float64        `json:"confidenceScore"` // NULL for manual matches
	MatchedAt        time.Time       `json:"matchedAt"`
	MatchedBy        string          `json:"matchedBy"`
}

// BankReconciliationAdjustment represents one adjustment row.
type BankReconciliationAdjustment struct {
	AdjustmentID     string          `json:"adjustmentID"` // Primary Key (UUID)
	ReconciliationID string          `json:"reconciliationID"`
	AdjustmentType   string          `json:"adjustmentType"`
	Amount           decimal.Decimal `json:"amount"` // signed per type convention
	Description      string          `json:"description"`
	StatementLineID  *string         `json:"statementLineID"` // Nullable
	JournalEntryID   *string         `json:"journalEntryID"`  // Nullable
	AuditFields
}
