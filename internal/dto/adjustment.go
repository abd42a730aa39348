package dto

import (
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest records a variance explanation on a reconciliation.
// Amount is raw; the service applies the sign convention for the type.
type CreateAdjustmentRequest struct {
	AdjustmentType   string          `json:"adjustmentType" binding:"required,adjustmenttype"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Description      string          `json:"description" binding:"required,max=500"`
	StatementLineID  *string         `json:"statementLineID" binding:"omitempty"`
	PostJournalEntry bool            `json:"postJournalEntry"`
}

// UpdateAdjustmentRequest updates the raw amount and/or description.
type UpdateAdjustmentRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
}

// AdjustmentResponse is the API representation of an adjustment.
type AdjustmentResponse struct {
	AdjustmentID     string          `json:"adjustmentID"`
	ReconciliationID string          `json:"reconciliationID"`
	AdjustmentType   string          `json:"adjustmentType"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	StatementLineID  *string         `json:"statementLineID,omitempty"`
	JournalEntryID   *string         `json:"journalEntryID,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ToAdjustmentResponse maps a domain adjustment to its API representation.
func ToAdjustmentResponse(a *domain.BankReconciliationAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		AdjustmentID:     a.AdjustmentID,
		ReconciliationID: a.ReconciliationID,
		AdjustmentType:   string(a.AdjustmentType),
		Amount:           a.Amount,
		Description:      a.Description,
		StatementLineID:  a.StatementLineID,
		JournalEntryID:   a.JournalEntryID,
		CreatedAt:        a.CreatedAt,
		CreatedBy:        a.CreatedBy,
	}
}

// ToAdjustmentResponses maps a slice of domain adjustments.
func ToAdjustmentResponses(adjustments []domain.BankReconciliationAdjustment) []AdjustmentResponse {
	out := make([]AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		out[i] = ToAdjustmentResponse(&adjustments[i])
	}
	return out
}
