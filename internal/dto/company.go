package dto

import (
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// CreateCompanyRequest is the payload for creating a company.
type CreateCompanyRequest struct {
	Name                string  `json:"name" binding:"required,max=100"`
	DefaultCurrencyCode *string `json:"defaultCurrencyCode" binding:"omitempty,len=3"`
}

// AddMemberRequest adds or updates a user's membership in a company.
type AddMemberRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,companyrole"`
}

// CompanyResponse is the API representation of a company.
type CompanyResponse struct {
	CompanyID           string    `json:"companyID"`
	Name                string    `json:"name"`
	DefaultCurrencyCode *string   `json:"defaultCurrencyCode,omitempty"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
}

// ToCompanyResponse maps a domain company to its API representation.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:           c.CompanyID,
		Name:                c.Name,
		DefaultCurrencyCode: c.DefaultCurrencyCode,
		IsActive:            c.IsActive,
		CreatedAt:           c.CreatedAt,
	}
}

// ToCompanyResponses maps a slice of domain companies.
func ToCompanyResponses(companies []domain.Company) []CompanyResponse {
	out := make([]CompanyResponse, len(companies))
	for i := range companies {
		out[i] = ToCompanyResponse(&companies[i])
	}
	return out
}
