package domain

import "github.com/shopspring/decimal"

// AdjustmentType classifies a reconciliation adjustment. The type dictates the
// sign convention applied to the stored amount.
type AdjustmentType string

const (
	AdjustmentBankFee  AdjustmentType = "BANK_FEE"
	AdjustmentInterest AdjustmentType = "INTEREST"
	AdjustmentWriteOff AdjustmentType = "WRITE_OFF"
	AdjustmentTiming   AdjustmentType = "TIMING"
)

// IsValid reports whether the value is one of the known adjustment types.
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentBankFee, AdjustmentInterest, AdjustmentWriteOff, AdjustmentTiming:
		return true
	default:
		return false
	}
}

// ApplySign normalizes a raw user-entered amount to the signed amount stored for
// this adjustment type: fees and write-offs reduce the book side (negative),
// interest increases it (positive), timing differences keep the sign as entered.
func (t AdjustmentType) ApplySign(raw decimal.Decimal) decimal.Decimal {
	switch t {
	case AdjustmentBankFee, AdjustmentWriteOff:
		return raw.Abs().Neg()
	case AdjustmentInterest:
		return raw.Abs()
	default:
		return raw
	}
}

// BankReconciliationAdjustment explains part of a reconciliation's residual
// variance that no match accounts for.
type BankReconciliationAdjustment struct {
	AdjustmentID     string          `json:"adjustmentID"`     // Primary Key (e.g., UUID)
	ReconciliationID string          `json:"reconciliationID"` // FK -> bank_reconciliations
	AdjustmentType   AdjustmentType  `json:"adjustmentType"`
	Amount           decimal.Decimal `json:"amount"` // signed per ApplySign
	Description      string          `json:"description"`
	StatementLineID  *string         `json:"statementLineID,omitempty"` // optional FK -> bank_statement_lines
	JournalEntryID   *string         `json:"journalEntryID,omitempty"`  // optional FK -> journal_entries
	AuditFields
}
