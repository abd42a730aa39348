package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/core/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
)

type StatementServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockStatementRepository
	mockAuthorizer *MockCompanyAuthorizer
	service        portssvc.StatementSvcFacade

	companyID string
	userID    string
}

func (suite *StatementServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockStatementRepository)
	suite.mockAuthorizer = new(MockCompanyAuthorizer)
	suite.service = services.NewStatementService(suite.mockRepo, suite.mockAuthorizer)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *StatementServiceTestSuite) authorizeOK(role domain.CompanyRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, role).Return(nil).Once()
}

func importRequest(lines ...dto.StatementLineRequest) dto.CreateStatementRequest {
	return dto.CreateStatementRequest{
		AccountReference: "CHK-001",
		PeriodStart:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		OpeningBalance:   decimal.RequireFromString("1000.00"),
		ClosingBalance:   decimal.RequireFromString("1250.00"),
		CurrencyCode:     "USD",
		Lines:            lines,
	}
}

func lineRequest(externalID string, amount string, date time.Time) dto.StatementLineRequest {
	return dto.StatementLineRequest{
		TransactionDate: date,
		Description:     "imported line",
		Amount:          decimal.RequireFromString(amount),
		ExternalID:      externalID,
	}
}

func (suite *StatementServiceTestSuite) TestCreateStatement_DeduplicatesByExternalID() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)

	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	req := importRequest(
		lineRequest("tx-1", "100.00", day),
		lineRequest("tx-2", "50.00", day),
		lineRequest("tx-1", "100.00", day), // re-uploaded duplicate
	)

	suite.mockRepo.On("SaveStatement", mock.Anything, mock.MatchedBy(func(s domain.BankStatement) bool {
		return s.CompanyID == suite.companyID && s.Status == domain.StatementImported
	}), mock.MatchedBy(func(lines []domain.BankStatementLine) bool {
		return len(lines) == 2 && lines[0].ExternalID == "tx-1" && lines[1].ExternalID == "tx-2"
	})).Return(nil).Once()

	resp, err := suite.service.CreateStatement(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, resp.LinesImported)
	suite.Equal(1, resp.DuplicatesSkipped)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestCreateStatement_SortsLinesByDateThenNumber() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)

	early := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	req := importRequest(
		lineRequest("tx-late", "10.00", late),
		lineRequest("tx-early", "20.00", early),
	)

	suite.mockRepo.On("SaveStatement", mock.Anything, mock.Anything, mock.MatchedBy(func(lines []domain.BankStatementLine) bool {
		return len(lines) == 2 &&
			lines[0].ExternalID == "tx-early" &&
			lines[1].ExternalID == "tx-late" &&
			lines[0].LineNumber == 2 && lines[1].LineNumber == 1
	})).Return(nil).Once()

	_, err := suite.service.CreateStatement(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestCreateStatement_RejectsInvertedPeriod() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)

	req := importRequest(lineRequest("tx-1", "10.00", time.Now().UTC()))
	req.PeriodStart, req.PeriodEnd = req.PeriodEnd, req.PeriodStart

	resp, err := suite.service.CreateStatement(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveStatement", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatementServiceTestSuite) TestCreateStatement_RequiresAccountant() {
	ctx := context.Background()
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, domain.RoleAccountant).
		Return(apperrors.ErrForbidden).Once()

	resp, err := suite.service.CreateStatement(ctx, suite.companyID, importRequest(), suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *StatementServiceTestSuite) TestGetStatement_OtherCompanyObscured() {
	ctx := context.Background()
	statementID := uuid.NewString()
	suite.authorizeOK(domain.RoleReadOnly)
	suite.mockRepo.On("FindStatementByID", mock.Anything, statementID).
		Return(&domain.BankStatement{StatementID: statementID, CompanyID: uuid.NewString()}, nil).Once()

	statement, err := suite.service.GetStatement(ctx, suite.companyID, statementID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(statement)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestStatementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
