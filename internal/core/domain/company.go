package domain

import "time"

// Company represents an isolated tenant containing statements, reconciliations, etc.
type Company struct {
	CompanyID           string  `json:"companyID"` // Primary Key (e.g., UUID)
	Name                string  `json:"name"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode"` // e.g. "USD"
	IsActive            bool    `json:"isActive"`
	AuditFields
}

// CompanyRole defines the possible roles a user can have within a company.
// Roles are ordered; a higher role implies every capability of the lower ones.
type CompanyRole string

const (
	RoleReadOnly   CompanyRole = "READONLY"
	RoleAccountant CompanyRole = "ACCOUNTANT"
	RoleController CompanyRole = "CONTROLLER"
	RoleCFO        CompanyRole = "CFO"
	RoleAdmin      CompanyRole = "ADMIN"
)

// roleRank orders roles for minimum-role authorization checks.
var roleRank = map[CompanyRole]int{
	RoleReadOnly:   0,
	RoleAccountant: 1,
	RoleController: 2,
	RoleCFO:        3,
	RoleAdmin:      4,
}

// AtLeast reports whether the role grants everything min does.
func (r CompanyRole) AtLeast(min CompanyRole) bool {
	rank, ok := roleRank[r]
	minRank, minOK := roleRank[min]
	return ok && minOK && rank >= minRank
}

// IsValid reports whether the role is one of the known company roles.
func (r CompanyRole) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// CompanyMember represents the membership of a user in a company.
type CompanyMember struct {
	UserID    string      `json:"userID"`
	CompanyID string      `json:"companyID"`
	Role      CompanyRole `json:"role"`
	JoinedAt  time.Time   `json:"joinedAt"`
}
