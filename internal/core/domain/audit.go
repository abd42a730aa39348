package domain

import "time"

// AuditAction names a mutating operation recorded in the audit trail.
type AuditAction string

const (
	ActionReconciliationStarted   AuditAction = "RECONCILIATION_STARTED"
	ActionReconciliationCompleted AuditAction = "RECONCILIATION_COMPLETED"
	ActionReconciliationLocked    AuditAction = "RECONCILIATION_LOCKED"
	ActionReconciliationReopened  AuditAction = "RECONCILIATION_REOPENED"
	ActionMatchCreated            AuditAction = "MATCH_CREATED"
	ActionMatchRemoved            AuditAction = "MATCH_REMOVED"
	ActionAdjustmentCreated       AuditAction = "ADJUSTMENT_CREATED"
	ActionAdjustmentUpdated       AuditAction = "ADJUSTMENT_UPDATED"
	ActionAdjustmentDeleted       AuditAction = "ADJUSTMENT_DELETED"
	ActionAutoMatchCompleted      AuditAction = "AUTO_MATCH_COMPLETED"
)

// AuditEntry is one immutable record of a mutation. Entries are only ever
// appended; there is no update or delete path anywhere in the system.
type AuditEntry struct {
	AuditID     string      `json:"auditID"` // Primary Key (e.g., UUID)
	CompanyID   string      `json:"companyID"`
	Actor       string      `json:"actor"` // UserID reference
	Action      AuditAction `json:"action"`
	SubjectType string      `json:"subjectType"` // e.g. "reconciliation", "match", "adjustment"
	SubjectID   string      `json:"subjectID"`
	Before      []byte      `json:"before,omitempty"` // JSON snapshot prior to the mutation
	After       []byte      `json:"after,omitempty"`  // JSON snapshot after the mutation
	CreatedAt   time.Time   `json:"createdAt"`
}
