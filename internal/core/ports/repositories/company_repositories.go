package repositories

import (
	"context"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// CompanyReader defines read operations for company and membership data
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// FindMembership retrieves the membership of a user in a company.
	// Returns apperrors.ErrNotFound when the user is not a member.
	FindMembership(ctx context.Context, companyID string, userID string) (*domain.CompanyMember, error)

	// ListCompaniesByUser retrieves all companies the user is a member of.
	ListCompaniesByUser(ctx context.Context, userID string) ([]domain.Company, error)
}

// CompanyWriter defines write operations for company and membership data
type CompanyWriter interface {
	// SaveCompany persists a new company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// SaveMembership persists or updates a membership row.
	SaveMembership(ctx context.Context, member domain.CompanyMember) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
