package models

import "time"

// Company represents a tenant row.
type Company struct {
	CompanyID           string  `json:"companyID"` // Primary Key (UUID)
	Name                string  `json:"name"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"` // Nullable
	IsActive            bool    `json:"isActive"`
	AuditFields
}

// CompanyMember represents one row of the company membership table.
type CompanyMember struct {
	UserID    string    `json:"userID"`
	CompanyID string    `json:"companyID"`
	Role      string    `json:"role"` // READONLY | ACCOUNTANT | CONTROLLER | CFO | ADMIN
	JoinedAt  time.Time `json:"joinedAt"`
}
