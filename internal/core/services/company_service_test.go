package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/core/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
)

type CompanyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCompanyRepository
	service  portssvc.CompanySvcFacade
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCompanyRepository)
	suite.service = services.NewCompanyService(suite.mockRepo)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_CreatorBecomesAdmin() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateCompanyRequest{Name: "Acme Ltd"}

	suite.mockRepo.On("SaveCompany", mock.Anything, mock.MatchedBy(func(c domain.Company) bool {
		return c.Name == "Acme Ltd" && c.IsActive && c.CreatedBy == creatorUserID
	})).Return(nil).Once()
	suite.mockRepo.On("SaveMembership", mock.Anything, mock.MatchedBy(func(m domain.CompanyMember) bool {
		return m.UserID == creatorUserID && m.Role == domain.RoleAdmin
	})).Return(nil).Once()

	company, err := suite.service.CreateCompany(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(company)
	suite.Equal("Acme Ltd", company.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_RoleHierarchy() {
	ctx := context.Background()
	companyID := uuid.NewString()
	userID := uuid.NewString()

	member := &domain.CompanyMember{
		UserID:    userID,
		CompanyID: companyID,
		Role:      domain.RoleController,
		JoinedAt:  time.Now().UTC(),
	}
	suite.mockRepo.On("FindMembership", mock.Anything, companyID, userID).Return(member, nil)

	// A controller clears readonly, accountant, and controller checks.
	suite.NoError(suite.service.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly))
	suite.NoError(suite.service.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant))
	suite.NoError(suite.service.AuthorizeUserAction(ctx, userID, companyID, domain.RoleController))

	// But not CFO or admin checks.
	err := suite.service.AuthorizeUserAction(ctx, userID, companyID, domain.RoleCFO)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	err = suite.service.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAdmin)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_NonMemberObscured() {
	ctx := context.Background()
	companyID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockRepo.On("FindMembership", mock.Anything, companyID, userID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly)

	// Non-membership reads the same as a company that does not exist.
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestAddMember_RequiresAdmin() {
	ctx := context.Background()
	companyID := uuid.NewString()
	actingUserID := uuid.NewString()

	member := &domain.CompanyMember{UserID: actingUserID, CompanyID: companyID, Role: domain.RoleCFO}
	suite.mockRepo.On("FindMembership", mock.Anything, companyID, actingUserID).Return(member, nil).Once()

	err := suite.service.AddMember(ctx, companyID, dto.AddMemberRequest{UserID: uuid.NewString(), Role: "ACCOUNTANT"}, actingUserID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMembership", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestAddMember_RejectsUnknownRole() {
	ctx := context.Background()
	companyID := uuid.NewString()
	actingUserID := uuid.NewString()

	member := &domain.CompanyMember{UserID: actingUserID, CompanyID: companyID, Role: domain.RoleAdmin}
	suite.mockRepo.On("FindMembership", mock.Anything, companyID, actingUserID).Return(member, nil).Once()

	err := suite.service.AddMember(ctx, companyID, dto.AddMemberRequest{UserID: uuid.NewString(), Role: "SUPERUSER"}, actingUserID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
