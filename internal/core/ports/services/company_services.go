package services

import (
	"context"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
)

// CompanyAuthorizerSvc is the narrow authorization capability other services
// depend on. Every operation of the reconciliation core goes through it.
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction verifies the user is a member of the company with at
	// least minRole. Returns apperrors.ErrNotFound for unknown company or
	// non-member (existence obscured) and apperrors.ErrForbidden for an
	// insufficient role.
	AuthorizeUserAction(ctx context.Context, userID string, companyID string, minRole domain.CompanyRole) error

	// MemberRole returns the role the user holds in the company.
	MemberRole(ctx context.Context, companyID string, userID string) (domain.CompanyRole, error)
}

// CompanySvcFacade combines company management with authorization.
type CompanySvcFacade interface {
	CompanyAuthorizerSvc

	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, companyID string, requestingUserID string) (*domain.Company, error)
	ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error)
	AddMember(ctx context.Context, companyID string, req dto.AddMemberRequest, actingUserID string) error
}
