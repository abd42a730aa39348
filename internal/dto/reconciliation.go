package dto

import (
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StartReconciliationRequest begins reconciling a statement.
type StartReconciliationRequest struct {
	StatementID string `json:"statementID" binding:"required"`
}

// ReopenRequest reopens a completed or locked reconciliation for correction.
type ReopenRequest struct {
	Reason      string    `json:"reason" binding:"required,max=500"`
	ReopenUntil time.Time `json:"reopenUntil" binding:"required"`
}

// ReopenEventResponse is one entry of the reopen history.
type ReopenEventResponse struct {
	Reason     string    `json:"reason"`
	ReopenedBy string    `json:"reopenedBy"`
	ReopenedAt time.Time `json:"reopenedAt"`
	Until      time.Time `json:"until"`
	FromStatus string    `json:"fromStatus"`
}

// ReconciliationSnapshot is the canonical mutation response: current status,
// freshly computed variance, and the lifecycle timestamps.
type ReconciliationSnapshot struct {
	ReconciliationID string                `json:"reconciliationID"`
	CompanyID        string                `json:"companyID"`
	StatementID      string                `json:"statementID"`
	Status           string                `json:"status"`
	Variance         decimal.Decimal       `json:"variance"`
	IsBalanced       bool                  `json:"isBalanced"`
	Reopened         bool                  `json:"reopened"`
	ReopenCount      int                   `json:"reopenCount"`
	StartedAt        *time.Time            `json:"startedAt,omitempty"`
	StartedBy        *string               `json:"startedBy,omitempty"`
	CompletedAt      *time.Time            `json:"completedAt,omitempty"`
	CompletedBy      *string               `json:"completedBy,omitempty"`
	LockedAt         *time.Time            `json:"lockedAt,omitempty"`
	LockedBy         *string               `json:"lockedBy,omitempty"`
	ReopenHistory    []ReopenEventResponse `json:"reopenHistory,omitempty"`
}

// ListReconciliationsResponse is a page of reconciliation snapshots.
type ListReconciliationsResponse struct {
	Reconciliations []ReconciliationSnapshot `json:"reconciliations"`
	NextToken       *string                  `json:"nextToken,omitempty"`
}

// ToReconciliationSnapshot maps a reconciliation and its computed variance to
// the snapshot representation.
func ToReconciliationSnapshot(r *domain.BankReconciliation, variance decimal.Decimal, isBalanced bool) ReconciliationSnapshot {
	history := make([]ReopenEventResponse, len(r.ReopenHistory))
	for i, ev := range r.ReopenHistory {
		history[i] = ReopenEventResponse{
			Reason:     ev.Reason,
			ReopenedBy: ev.ReopenedBy,
			ReopenedAt: ev.ReopenedAt,
			Until:      ev.Until,
			FromStatus: ev.FromStatus,
		}
	}
	return ReconciliationSnapshot{
		ReconciliationID: r.ReconciliationID,
		CompanyID:        r.CompanyID,
		StatementID:      r.StatementID,
		Status:           string(r.Status),
		Variance:         variance,
		IsBalanced:       isBalanced,
		Reopened:         r.Reopened,
		ReopenCount:      r.ReopenCount,
		StartedAt:        r.StartedAt,
		StartedBy:        r.StartedBy,
		CompletedAt:      r.CompletedAt,
		CompletedBy:      r.CompletedBy,
		LockedAt:         r.LockedAt,
		LockedBy:         r.LockedBy,
		ReopenHistory:    history,
	}
}
