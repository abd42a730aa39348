package dto

import (
	"encoding/json"
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// AuditEntryResponse is the API representation of one audit trail entry.
type AuditEntryResponse struct {
	AuditID     string          `json:"auditID"`
	Actor       string          `json:"actor"`
	Action      string          `json:"action"`
	SubjectType string          `json:"subjectType"`
	SubjectID   string          `json:"subjectID"`
	Before      json.RawMessage `json:"before,omitempty"`
	After       json.RawMessage `json:"after,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ListAuditEntriesResponse is a page of audit entries, newest first.
type ListAuditEntriesResponse struct {
	Entries   []AuditEntryResponse `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ToAuditEntryResponse maps a domain audit entry to its API representation.
func ToAuditEntryResponse(e *domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		AuditID:     e.AuditID,
		Actor:       e.Actor,
		Action:      string(e.Action),
		SubjectType: e.SubjectType,
		SubjectID:   e.SubjectID,
		Before:      json.RawMessage(e.Before),
		After:       json.RawMessage(e.After),
		CreatedAt:   e.CreatedAt,
	}
}

// ToAuditEntryResponses maps a slice of domain audit entries.
func ToAuditEntryResponses(entries []domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToAuditEntryResponse(&entries[i])
	}
	return out
}
