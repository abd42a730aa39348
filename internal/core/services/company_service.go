package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
)

// companyService implements tenancy and role authorization. It is the
// permission collaborator every reconciliation operation is gated by.
type companyService struct {
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{companyRepo: companyRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// CreateCompany creates a company and makes the creator its admin.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:           uuid.NewString(),
		Name:                req.Name,
		DefaultCurrencyCode: req.DefaultCurrencyCode,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		logger.Error("Failed to save company", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save company: %w", err)
	}

	member := domain.CompanyMember{
		UserID:    creatorUserID,
		CompanyID: company.CompanyID,
		Role:      domain.RoleAdmin,
		JoinedAt:  now,
	}
	if err := s.companyRepo.SaveMembership(ctx, member); err != nil {
		logger.Error("Failed to save creator membership", slog.String("error", err.Error()), slog.String("company_id", company.CompanyID))
		return nil, fmt.Errorf("failed to save creator membership: %w", err)
	}

	logger.Info("Company created successfully", slog.String("company_id", company.CompanyID))
	return &company, nil
}

// GetCompanyByID retrieves a company the requesting user is a member of.
func (s *companyService) GetCompanyByID(ctx context.Context, companyID string, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	return company, nil
}

// ListUserCompanies retrieves every company the user belongs to.
func (s *companyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompaniesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// AddMember adds or updates a membership. Requires admin role.
func (s *companyService) AddMember(ctx context.Context, companyID string, req dto.AddMemberRequest, actingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, actingUserID, companyID, domain.RoleAdmin); err != nil {
		logger.Warn("Authorization failed for AddMember", slog.String("user_id", actingUserID), slog.String("company_id", companyID))
		return err
	}

	role := domain.CompanyRole(req.Role)
	if !role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	member := domain.CompanyMember{
		UserID:    req.UserID,
		CompanyID: companyID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.companyRepo.SaveMembership(ctx, member); err != nil {
		logger.Error("Failed to save membership", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return fmt.Errorf("failed to save membership: %w", err)
	}

	logger.Info("Membership saved", slog.String("company_id", companyID), slog.String("member_user_id", req.UserID), slog.String("role", req.Role))
	return nil
}

// AuthorizeUserAction verifies membership with at least minRole. Unknown
// company and non-membership both surface as ErrNotFound to obscure existence.
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID string, companyID string, minRole domain.CompanyRole) error {
	member, err := s.companyRepo.FindMembership(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member.Role.AtLeast(minRole) {
		return fmt.Errorf("%w: role %s is below required %s", apperrors.ErrForbidden, member.Role, minRole)
	}
	return nil
}

// MemberRole returns the role the user holds in the company.
func (s *companyService) MemberRole(ctx context.Context, companyID string, userID string) (domain.CompanyRole, error) {
	member, err := s.companyRepo.FindMembership(ctx, companyID, userID)
	if err != nil {
		return "", err
	}
	return member.Role, nil
}
