package models

import "time"

// AuditEntry represents one immutable audit trail row. The table is
// insert-only.
type AuditEntry struct {
	AuditID     string    `json:"auditID"` // Primary Key (UUID)
	CompanyID   string    `json:"companyID"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	SubjectType string    `json:"subjectType"`
	SubjectID   string    `json:"subjectID"`
	Before      []byte    `json:"before"` // JSONB snapshot, nullable
	After       []byte    `json:"after"`  // JSONB snapshot, nullable
	CreatedAt   time.Time `json:"createdAt"`
}
