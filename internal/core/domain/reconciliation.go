package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the state of a bank reconciliation.
type ReconciliationStatus string

const (
	ReconciliationDraft      ReconciliationStatus = "DRAFT"
	ReconciliationInProgress ReconciliationStatus = "IN_PROGRESS"
	ReconciliationCompleted  ReconciliationStatus = "COMPLETED"
	ReconciliationLocked     ReconciliationStatus = "LOCKED"
)

// BankReconciliation tracks the matching of one bank statement against internal
// financial records. It owns its matches and adjustments.
//
// Variance is derived from current matches and adjustments and is never stored
// as an authoritative value; it lives here only as a computed snapshot field.
type BankReconciliation struct {
	ReconciliationID string               `json:"reconciliationID"` // Primary Key (e.g., UUID)
	CompanyID        string               `json:"companyID"`        // FK -> companies.company_id
	StatementID      string               `json:"statementID"`      // FK -> bank_statements.statement_id, 1:1
	Status           ReconciliationStatus `json:"status"`
	Reopened         bool                 `json:"reopened"` // set when the current in-progress run came from a reopen
	ReopenCount      int                  `json:"reopenCount"`
	StartedAt        *time.Time           `json:"startedAt,omitempty"`
	StartedBy        *string              `json:"startedBy,omitempty"`
	CompletedAt      *time.Time           `json:"completedAt,omitempty"`
	CompletedBy      *string              `json:"completedBy,omitempty"`
	LockedAt         *time.Time           `json:"lockedAt,omitempty"`
	LockedBy         *string              `json:"lockedBy,omitempty"`
	ReopenHistory    []ReopenEvent        `json:"reopenHistory,omitempty"`
	Variance         decimal.Decimal      `json:"variance"` // computed, see VarianceCalculator
	AuditFields
}

// ReopenEvent records one reopening of a completed or locked reconciliation.
// The history is append-only; events are never edited or removed.
type ReopenEvent struct {
	Reason     string    `json:"reason"`
	ReopenedBy string    `json:"reopenedBy"`
	ReopenedAt time.Time `json:"reopenedAt"`
	Until      time.Time `json:"until"` // end of the granted reopen window
	FromStatus string    `json:"fromStatus"`
}

// CanBeEdited reports whether match and adjustment mutations are currently legal.
func (r *BankReconciliation) CanBeEdited() bool {
	switch r.Status {
	case ReconciliationDraft, ReconciliationInProgress:
		return true
	default:
		return false
	}
}

// BankReconciliationMatch is a claimed correspondence between one statement line
// and one internal financial record.
type BankReconciliationMatch struct {
	MatchID          string          `json:"matchID"`          // Primary Key (e.g., UUID)
	ReconciliationID string          `json:"reconciliationID"` // FK -> bank_reconciliations
	StatementLineID  string          `json:"statementLineID"`  // FK -> bank_statement_lines
	SourceType       MatchSourceType `json:"sourceType"`
	SourceID         string          `json:"sourceID"`
	Amount           decimal.Decimal `json:"amount"` // signed, mirrors the statement line
	AutoMatched      bool            `json:"autoMatched"`
	ConfidenceScore  *float64        `json:"confidenceScore,omitempty"` // nil for manual matches
	MatchedAt        time.Time       `json:"matchedAt"`
	MatchedBy        string          `json:"matchedBy"`
}
