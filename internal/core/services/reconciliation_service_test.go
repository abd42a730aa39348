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
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/core/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/platform/config"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo     *MockReconciliationRepository
	mockStatementRepo *MockStatementRepository
	mockAuthorizer    *MockCompanyAuthorizer
	mockAudit         *MockAuditSvc
	service           portssvc.ReconciliationSvcFacade

	companyID string
	userID    string
	statement *domain.BankStatement
	recon     *domain.BankReconciliation
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockStatementRepo = new(MockStatementRepository)
	suite.mockAuthorizer = new(MockCompanyAuthorizer)
	suite.mockAudit = new(MockAuditSvc)
	suite.service = services.NewReconciliationService(
		suite.mockReconRepo,
		suite.mockStatementRepo,
		suite.mockAuthorizer,
		suite.mockAudit,
		config.DefaultReopenWindows(),
	)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.statement = &domain.BankStatement{
		StatementID: uuid.NewString(),
		CompanyID:   suite.companyID,
		Status:      domain.StatementImported,
	}
	suite.recon = &domain.BankReconciliation{
		ReconciliationID: uuid.NewString(),
		CompanyID:        suite.companyID,
		StatementID:      suite.statement.StatementID,
		Status:           domain.ReconciliationInProgress,
	}
}

func (suite *ReconciliationServiceTestSuite) authorizeOK(role domain.CompanyRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, role).Return(nil).Once()
}

func (suite *ReconciliationServiceTestSuite) expectVarianceReload(lines []domain.BankStatementLine, matches []domain.BankReconciliationMatch, adjustments []domain.BankReconciliationAdjustment) {
	suite.mockStatementRepo.On("FindAllLinesByStatement", mock.Anything, suite.statement.StatementID).Return(lines, nil).Once()
	suite.mockReconRepo.On("ListMatchesByReconciliation", mock.Anything, suite.recon.ReconciliationID).Return(matches, nil).Once()
	suite.mockReconRepo.On("ListAdjustmentsByReconciliation", mock.Anything, suite.recon.ReconciliationID).Return(adjustments, nil).Once()
}

// --- StartReconciliation ---

func (suite *ReconciliationServiceTestSuite) TestStartReconciliation_Success() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockStatementRepo.On("FindStatementByID", mock.Anything, suite.statement.StatementID).Return(suite.statement, nil).Once()
	suite.mockReconRepo.On("FindReconciliationByStatementID", mock.Anything, suite.statement.StatementID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.MatchedBy(func(r domain.BankReconciliation) bool {
		return r.Status == domain.ReconciliationDraft && r.StatementID == suite.statement.StatementID
	})).Return(nil).Once()

	started := *suite.recon
	started.Status = domain.ReconciliationInProgress
	suite.mockReconRepo.On("TransitionStatus", mock.Anything, mock.Anything, mock.MatchedBy(func(t portsrepo.StatusTransition) bool {
		return t.From == domain.ReconciliationDraft && t.To == domain.ReconciliationInProgress
	})).Return(&started, nil).Once()
	suite.mockStatementRepo.On("UpdateStatementStatus", mock.Anything, suite.statement.StatementID, domain.StatementReconciled, suite.userID).Return(nil).Once()
	suite.mockAudit.On("Record", mock.Anything, suite.companyID, suite.userID, domain.ActionReconciliationStarted, "reconciliation", started.ReconciliationID, nil, mock.Anything).Return(nil).Once()
	suite.expectVarianceReload(nil, []domain.BankReconciliationMatch{}, []domain.BankReconciliationAdjustment{})

	snap, err := suite.service.StartReconciliation(ctx, suite.companyID, suite.statement.StatementID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(snap)
	suite.Equal(string(domain.ReconciliationInProgress), snap.Status)
	suite.True(snap.IsBalanced)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestStartReconciliation_StatementAlreadyReconciled() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockStatementRepo.On("FindStatementByID", mock.Anything, suite.statement.StatementID).Return(suite.statement, nil).Once()
	suite.mockReconRepo.On("FindReconciliationByStatementID", mock.Anything, suite.statement.StatementID).Return(suite.recon, nil).Once()

	snap, err := suite.service.StartReconciliation(ctx, suite.companyID, suite.statement.StatementID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(snap)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("statement_already_reconciled", domainErr.Code)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveReconciliation", mock.Anything, mock.Anything)
}

// --- Complete ---

func (suite *ReconciliationServiceTestSuite) TestComplete_RejectsUnbalanced() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	unmatched := domain.BankStatementLine{LineID: uuid.NewString(), Amount: decimal.RequireFromString("99.00")}
	suite.expectVarianceReload([]domain.BankStatementLine{unmatched}, []domain.BankReconciliationMatch{}, []domain.BankReconciliationAdjustment{})

	snap, err := suite.service.Complete(ctx, suite.companyID, suite.recon.ReconciliationID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(snap)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("reconciliation_unbalanced", domainErr.Code)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestComplete_Success() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	// balance check reload, then snapshot reload
	suite.expectVarianceReload(nil, []domain.BankReconciliationMatch{}, []domain.BankReconciliationAdjustment{})

	completed := *suite.recon
	completed.Status = domain.ReconciliationCompleted
	suite.mockReconRepo.On("TransitionStatus", mock.Anything, suite.recon.ReconciliationID, mock.MatchedBy(func(t portsrepo.StatusTransition) bool {
		return t.From == domain.ReconciliationInProgress && t.To == domain.ReconciliationCompleted && t.ActorID == suite.userID
	})).Return(&completed, nil).Once()
	suite.mockAudit.On("Record", mock.Anything, suite.companyID, suite.userID, domain.ActionReconciliationCompleted, "reconciliation", suite.recon.ReconciliationID, mock.Anything, mock.Anything).Return(nil).Once()
	suite.expectVarianceReload(nil, []domain.BankReconciliationMatch{}, []domain.BankReconciliationAdjustment{})

	snap, err := suite.service.Complete(ctx, suite.companyID, suite.recon.ReconciliationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(string(domain.ReconciliationCompleted), snap.Status)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestComplete_NotInProgress() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	draft := *suite.recon
	draft.Status = domain.ReconciliationDraft
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(&draft, nil).Once()

	snap, err := suite.service.Complete(ctx, suite.companyID, suite.recon.ReconciliationID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(snap)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("reconciliation_not_in_progress", domainErr.Code)
}

// --- Lock ---

func (suite *ReconciliationServiceTestSuite) TestLock_Success() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleController)
	completed := *suite.recon
	completed.Status = domain.ReconciliationCompleted
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(&completed, nil).Once()

	locked := completed
	locked.Status = domain.ReconciliationLocked
	suite.mockReconRepo.On("TransitionStatus", mock.Anything, suite.recon.ReconciliationID, mock.MatchedBy(func(t portsrepo.StatusTransition) bool {
		return t.From == domain.ReconciliationCompleted && t.To == domain.ReconciliationLocked
	})).Return(&locked, nil).Once()
	suite.mockAudit.On("Record", mock.Anything, suite.companyID, suite.userID, domain.ActionReconciliationLocked, "reconciliation", suite.recon.ReconciliationID, mock.Anything, mock.Anything).Return(nil).Once()
	suite.expectVarianceReload(nil, []domain.BankReconciliationMatch{}, []domain.BankReconciliationAdjustment{})

	snap, err := suite.service.Lock(ctx, suite.companyID, suite.recon.ReconciliationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(string(domain.ReconciliationLocked), snap.Status)
}

func (suite *ReconciliationServiceTestSuite) TestLock_AlreadyLockedIsIdempotent() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleController)
	locked := *suite.recon
	locked.Status = domain.ReconciliationLocked
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(&locked, nil).Once()
	suite.expectVarianceReload(nil, []domain.BankReconciliationMatch{}, []domain.BankReconciliationAdjustment{})

	snap, err := suite.service.Lock(ctx, suite.companyID, suite.recon.ReconciliationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(string(domain.ReconciliationLocked), snap.Status)
	// No second transition and no duplicate audit entry.
	suite.mockReconRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAudit.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestLock_RequiresCompleted() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleController)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()

	snap, err := suite.service.Lock(ctx, suite.companyID, suite.recon.ReconciliationID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(snap)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("reconciliation_not_completed", domainErr.Code)
}

// --- Reopen ---

func (suite *ReconciliationServiceTestSuite) TestReopen_AccountantWindowExceeded() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockAuthorizer.On("MemberRole", mock.Anything, suite.companyID, suite.userID).Return(domain.RoleAccountant, nil).Once()

	// 10 days is beyond the accountant's 7 day window.
	req := dto.ReopenRequest{Reason: "late bank fee", ReopenUntil: time.Now().UTC().AddDate(0, 0, 10)}
	snap, err := suite.service.Reopen(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(snap)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("reopen_window_exceeded", domainErr.Code)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReopen_CFOWithinWindow() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockAuthorizer.On("MemberRole", mock.Anything, suite.companyID, suite.userID).Return(domain.RoleCFO, nil).Once()

	locked := *suite.recon
	locked.Status = domain.ReconciliationLocked
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(&locked, nil).Once()

	reopened := *suite.recon
	reopened.Status = domain.ReconciliationInProgress
	reopened.Reopened = true
	reopened.ReopenCount = 1
	suite.mockReconRepo.On("TransitionStatus", mock.Anything, suite.recon.ReconciliationID, mock.MatchedBy(func(t portsrepo.StatusTransition) bool {
		return t.From == domain.ReconciliationLocked &&
			t.To == domain.ReconciliationInProgress &&
			t.Reopened &&
			t.ReopenEvent != nil &&
			t.ReopenEvent.Reason == "missed adjustment" &&
			t.ReopenEvent.FromStatus == string(domain.ReconciliationLocked)
	})).Return(&reopened, nil).Once()
	suite.mockAudit.On("Record", mock.Anything, suite.companyID, suite.userID, domain.ActionReconciliationReopened, "reconciliation", suite.recon.ReconciliationID, mock.Anything, mock.Anything).Return(nil).Once()
	suite.expectVarianceReload(nil, []domain.BankReconciliationMatch{}, []domain.BankReconciliationAdjustment{})

	req := dto.ReopenRequest{Reason: "missed adjustment", ReopenUntil: time.Now().UTC().AddDate(0, 0, 60)}
	snap, err := suite.service.Reopen(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(snap.Reopened)
	suite.Equal(1, snap.ReopenCount)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestReopen_UntilInPast() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockAuthorizer.On("MemberRole", mock.Anything, suite.companyID, suite.userID).Return(domain.RoleCFO, nil).Once()

	req := dto.ReopenRequest{Reason: "too late", ReopenUntil: time.Now().UTC().AddDate(0, 0, -1)}
	snap, err := suite.service.Reopen(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(snap)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("reopen_until_in_past", domainErr.Code)
}

func (suite *ReconciliationServiceTestSuite) TestReopen_InProgressNotReopenable() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockAuthorizer.On("MemberRole", mock.Anything, suite.companyID, suite.userID).Return(domain.RoleController, nil).Once()
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()

	req := dto.ReopenRequest{Reason: "still open", ReopenUntil: time.Now().UTC().AddDate(0, 0, 5)}
	snap, err := suite.service.Reopen(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(snap)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("reconciliation_not_reopenable", domainErr.Code)
}

// --- Cross-tenant access ---

func (suite *ReconciliationServiceTestSuite) TestGetReconciliation_OtherCompanyObscured() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleReadOnly)
	foreign := *suite.recon
	foreign.CompanyID = uuid.NewString()
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(&foreign, nil).Once()

	snap, err := suite.service.GetReconciliation(ctx, suite.companyID, suite.recon.ReconciliationID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(snap)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
