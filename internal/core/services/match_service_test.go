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

type MatchServiceTestSuite struct {
	suite.Suite
	mockReconRepo     *MockReconciliationRepository
	mockStatementRepo *MockStatementRepository
	mockSourceRepo    *MockSourceRepository
	mockAuthorizer    *MockCompanyAuthorizer
	mockAudit         *MockAuditSvc
	service           portssvc.MatchSvcFacade

	companyID string
	userID    string
	statement *domain.BankStatement
	recon     *domain.BankReconciliation
	line      *domain.BankStatementLine
}

func (suite *MatchServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockStatementRepo = new(MockStatementRepository)
	suite.mockSourceRepo = new(MockSourceRepository)
	suite.mockAuthorizer = new(MockCompanyAuthorizer)
	suite.mockAudit = new(MockAuditSvc)
	suite.service = services.NewMatchService(
		suite.mockReconRepo,
		suite.mockStatementRepo,
		suite.mockSourceRepo,
		suite.mockAuthorizer,
		suite.mockAudit,
		config.DefaultMatchingConfig(),
	)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.statement = &domain.BankStatement{
		StatementID:  uuid.NewString(),
		CompanyID:    suite.companyID,
		CurrencyCode: "USD",
		Status:       domain.StatementReconciled,
	}
	suite.recon = &domain.BankReconciliation{
		ReconciliationID: uuid.NewString(),
		CompanyID:        suite.companyID,
		StatementID:      suite.statement.StatementID,
		Status:           domain.ReconciliationInProgress,
	}
	suite.line = &domain.BankStatementLine{
		LineID:          uuid.NewString(),
		StatementID:     suite.statement.StatementID,
		TransactionDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:     "ACH TRANSFER INV-4711 ACME",
		ReferenceNumber: "TRN-100",
		Amount:          decimal.RequireFromString("250.00"),
		LineNumber:      1,
	}
}

func (suite *MatchServiceTestSuite) authorizeOK(role domain.CompanyRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.companyID, role).Return(nil).Once()
}

func (suite *MatchServiceTestSuite) expectVarianceReload(matches []domain.BankReconciliationMatch) {
	suite.mockStatementRepo.On("FindAllLinesByStatement", mock.Anything, suite.statement.StatementID).
		Return([]domain.BankStatementLine{*suite.line}, nil).Once()
	suite.mockReconRepo.On("ListMatchesByReconciliation", mock.Anything, suite.recon.ReconciliationID).
		Return(matches, nil).Once()
	suite.mockReconRepo.On("ListAdjustmentsByReconciliation", mock.Anything, suite.recon.ReconciliationID).
		Return([]domain.BankReconciliationAdjustment{}, nil).Once()
}

func payment(id string, amount string, date time.Time, reference string) domain.Payment {
	return domain.Payment{
		PaymentID:   id,
		Reference:   reference,
		PaymentDate: date,
		Total:       decimal.RequireFromString(amount),
	}
}

// --- FindCandidates ---

func (suite *MatchServiceTestSuite) TestFindCandidates_ScoringFormula() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleReadOnly)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockStatementRepo.On("FindLineByID", mock.Anything, suite.line.LineID).Return(suite.line, nil).Once()
	suite.mockStatementRepo.On("FindStatementByID", mock.Anything, suite.statement.StatementID).Return(suite.statement, nil).Once()
	suite.mockReconRepo.On("ListMatchesByReconciliation", mock.Anything, suite.recon.ReconciliationID).
		Return([]domain.BankReconciliationMatch{}, nil).Once()

	exactBoth := payment("p-exact", "250.00", suite.line.TransactionDate, "OTHER")
	threeDaysOff := payment("p-days", "250.00", suite.line.TransactionDate.AddDate(0, 0, -3), "OTHER")
	inexactAmount := payment("p-inexact", "250.01", suite.line.TransactionDate, "OTHER")
	tokenBonus := payment("p-token", "250.01", suite.line.TransactionDate, "INV-4711")

	suite.mockSourceRepo.On("FindCandidateSources", mock.Anything, mock.MatchedBy(func(q portsrepo.SourceCandidateQuery) bool {
		return q.SourceType == domain.SourcePayment && q.CurrencyCode == "USD"
	})).Return([]domain.MatchSource{exactBoth, threeDaysOff, inexactAmount, tokenBonus}, nil).Once()

	sourceType := domain.SourcePayment
	candidates, err := suite.service.FindCandidates(ctx, suite.companyID, suite.recon.ReconciliationID, suite.line.LineID, &sourceType, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(candidates, 4)

	byID := make(map[string]dto.MatchCandidate, len(candidates))
	for _, c := range candidates {
		byID[c.SourceID] = c
	}
	suite.InDelta(1.0, byID["p-exact"].Confidence, 1e-9)
	suite.InDelta(0.92, byID["p-days"].Confidence, 1e-9)
	suite.InDelta(0.9, byID["p-inexact"].Confidence, 1e-9)
	suite.InDelta(0.95, byID["p-token"].Confidence, 1e-9)

	// Descending confidence.
	suite.Equal("p-exact", candidates[0].SourceID)
	suite.Equal("p-token", candidates[1].SourceID)

	suite.mockSourceRepo.AssertExpectations(suite.T())
}

func (suite *MatchServiceTestSuite) TestFindCandidates_DeterministicTieBreaks() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleReadOnly)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockStatementRepo.On("FindLineByID", mock.Anything, suite.line.LineID).Return(suite.line, nil).Once()
	suite.mockStatementRepo.On("FindStatementByID", mock.Anything, suite.statement.StatementID).Return(suite.statement, nil).Once()
	suite.mockReconRepo.On("ListMatchesByReconciliation", mock.Anything, suite.recon.ReconciliationID).
		Return([]domain.BankReconciliationMatch{}, nil).Once()

	sameDate := suite.line.TransactionDate
	paymentB := payment("b-payment", "250.00", sameDate, "")
	paymentA := payment("a-payment", "250.00", sameDate, "")
	invoice := domain.Invoice{InvoiceID: "z-invoice", IssueDate: sameDate, Total: decimal.RequireFromString("250.00")}

	suite.mockSourceRepo.On("FindCandidateSources", mock.Anything, mock.MatchedBy(func(q portsrepo.SourceCandidateQuery) bool {
		return q.SourceType == domain.SourcePayment
	})).Return([]domain.MatchSource{paymentB, paymentA}, nil).Once()
	suite.mockSourceRepo.On("FindCandidateSources", mock.Anything, mock.MatchedBy(func(q portsrepo.SourceCandidateQuery) bool {
		return q.SourceType == domain.SourceInvoice
	})).Return([]domain.MatchSource{invoice}, nil).Once()
	suite.mockSourceRepo.On("FindCandidateSources", mock.Anything, mock.MatchedBy(func(q portsrepo.SourceCandidateQuery) bool {
		return q.SourceType == domain.SourceCreditNote || q.SourceType == domain.SourceJournalEntry
	})).Return([]domain.MatchSource{}, nil).Twice()

	candidates, err := suite.service.FindCandidates(ctx, suite.companyID, suite.recon.ReconciliationID, suite.line.LineID, nil, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(candidates, 3)
	// Equal confidence and date distance: payments outrank invoices, then id ascending.
	suite.Equal("a-payment", candidates[0].SourceID)
	suite.Equal("b-payment", candidates[1].SourceID)
	suite.Equal("z-invoice", candidates[2].SourceID)
}

func (suite *MatchServiceTestSuite) TestFindCandidates_ExcludesConsumedSources() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleReadOnly)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockStatementRepo.On("FindLineByID", mock.Anything, suite.line.LineID).Return(suite.line, nil).Once()
	suite.mockStatementRepo.On("FindStatementByID", mock.Anything, suite.statement.StatementID).Return(suite.statement, nil).Once()

	consumed := payment("p-consumed", "250.00", suite.line.TransactionDate, "")
	free := payment("p-free", "250.00", suite.line.TransactionDate, "")

	suite.mockReconRepo.On("ListMatchesByReconciliation", mock.Anything, suite.recon.ReconciliationID).
		Return([]domain.BankReconciliationMatch{{
			MatchID:         uuid.NewString(),
			StatementLineID: uuid.NewString(),
			SourceType:      domain.SourcePayment,
			SourceID:        "p-consumed",
		}}, nil).Once()
	suite.mockSourceRepo.On("FindCandidateSources", mock.Anything, mock.Anything).
		Return([]domain.MatchSource{consumed, free}, nil).Once()

	sourceType := domain.SourcePayment
	candidates, err := suite.service.FindCandidates(ctx, suite.companyID, suite.recon.ReconciliationID, suite.line.LineID, &sourceType, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1)
	suite.Equal("p-free", candidates[0].SourceID)
}

// --- CreateManualMatch ---

func (suite *MatchServiceTestSuite) TestCreateManualMatch_Success() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockStatementRepo.On("FindLineByID", mock.Anything, suite.line.LineID).Return(suite.line, nil).Once()
	suite.mockReconRepo.On("ListMatchesByReconciliation", mock.Anything, suite.recon.ReconciliationID).
		Return([]domain.BankReconciliationMatch{}, nil).Once()
	suite.mockSourceRepo.On("FindSource", mock.Anything, suite.companyID, domain.SourcePayment, "p-1").
		Return(payment("p-1", "250.00", suite.line.TransactionDate, ""), nil).Once()

	suite.mockReconRepo.On("SaveMatch", mock.Anything, mock.MatchedBy(func(m domain.BankReconciliationMatch) bool {
		return m.StatementLineID == suite.line.LineID &&
			m.SourceType == domain.SourcePayment &&
			m.SourceID == "p-1" &&
			!m.AutoMatched &&
			m.ConfidenceScore == nil &&
			m.MatchedBy == suite.userID
	})).Return(nil).Once()

	suite.expectVarianceReload([]domain.BankReconciliationMatch{{StatementLineID: suite.line.LineID}})
	suite.mockAudit.On("Record", mock.Anything, suite.companyID, suite.userID, domain.ActionMatchCreated, "match", mock.Anything, nil, mock.Anything).Return(nil).Once()

	req := dto.CreateManualMatchRequest{
		StatementLineID: suite.line.LineID,
		SourceType:      string(domain.SourcePayment),
		SourceID:        "p-1",
		Amount:          decimal.RequireFromString("250.00"),
	}
	match, err := suite.service.CreateManualMatch(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(match)
	suite.False(match.AutoMatched)
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *MatchServiceTestSuite) TestCreateManualMatch_NotEditable() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	locked := *suite.recon
	locked.Status = domain.ReconciliationLocked
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(&locked, nil).Once()

	req := dto.CreateManualMatchRequest{
		StatementLineID: suite.line.LineID,
		SourceType:      string(domain.SourcePayment),
		SourceID:        "p-1",
		Amount:          decimal.RequireFromString("250.00"),
	}
	match, err := suite.service.CreateManualMatch(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(match)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("reconciliation_not_editable", domainErr.Code)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveMatch", mock.Anything, mock.Anything)
}

func (suite *MatchServiceTestSuite) TestCreateManualMatch_AmountOutsideEpsilon() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockStatementRepo.On("FindLineByID", mock.Anything, suite.line.LineID).Return(suite.line, nil).Once()

	req := dto.CreateManualMatchRequest{
		StatementLineID: suite.line.LineID,
		SourceType:      string(domain.SourcePayment),
		SourceID:        "p-1",
		Amount:          decimal.RequireFromString("250.05"),
	}
	match, err := suite.service.CreateManualMatch(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(match)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MatchServiceTestSuite) TestCreateManualMatch_LineAlreadyMatched() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockStatementRepo.On("FindLineByID", mock.Anything, suite.line.LineID).Return(suite.line, nil).Once()
	suite.mockReconRepo.On("ListMatchesByReconciliation", mock.Anything, suite.recon.ReconciliationID).
		Return([]domain.BankReconciliationMatch{{StatementLineID: suite.line.LineID, SourceType: domain.SourceInvoice, SourceID: "i-1"}}, nil).Once()

	req := dto.CreateManualMatchRequest{
		StatementLineID: suite.line.LineID,
		SourceType:      string(domain.SourcePayment),
		SourceID:        "p-1",
		Amount:          decimal.RequireFromString("250.00"),
	}
	match, err := suite.service.CreateManualMatch(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(match)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("line_already_matched", domainErr.Code)
}

func (suite *MatchServiceTestSuite) TestCreateManualMatch_SourceAlreadyConsumed() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockStatementRepo.On("FindLineByID", mock.Anything, suite.line.LineID).Return(suite.line, nil).Once()
	suite.mockReconRepo.On("ListMatchesByReconciliation", mock.Anything, suite.recon.ReconciliationID).
		Return([]domain.BankReconciliationMatch{{StatementLineID: uuid.NewString(), SourceType: domain.SourcePayment, SourceID: "p-1"}}, nil).Once()

	req := dto.CreateManualMatchRequest{
		StatementLineID: suite.line.LineID,
		SourceType:      string(domain.SourcePayment),
		SourceID:        "p-1",
		Amount:          decimal.RequireFromString("250.00"),
	}
	match, err := suite.service.CreateManualMatch(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(match)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("source_already_matched", domainErr.Code)
}

func (suite *MatchServiceTestSuite) TestCreateManualMatch_LineFromOtherStatement() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	foreign := *suite.line
	foreign.StatementID = uuid.NewString()
	suite.mockStatementRepo.On("FindLineByID", mock.Anything, suite.line.LineID).Return(&foreign, nil).Once()

	req := dto.CreateManualMatchRequest{
		StatementLineID: suite.line.LineID,
		SourceType:      string(domain.SourcePayment),
		SourceID:        "p-1",
		Amount:          decimal.RequireFromString("250.00"),
	}
	match, err := suite.service.CreateManualMatch(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(match)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *MatchServiceTestSuite) TestCreateManualMatch_DuplicateRace() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockStatementRepo.On("FindLineByID", mock.Anything, suite.line.LineID).Return(suite.line, nil).Once()
	suite.mockReconRepo.On("ListMatchesByReconciliation", mock.Anything, suite.recon.ReconciliationID).
		Return([]domain.BankReconciliationMatch{}, nil).Once()
	suite.mockSourceRepo.On("FindSource", mock.Anything, suite.companyID, domain.SourcePayment, "p-1").
		Return(payment("p-1", "250.00", suite.line.TransactionDate, ""), nil).Once()
	suite.mockReconRepo.On("SaveMatch", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	req := dto.CreateManualMatchRequest{
		StatementLineID: suite.line.LineID,
		SourceType:      string(domain.SourcePayment),
		SourceID:        "p-1",
		Amount:          decimal.RequireFromString("250.00"),
	}
	match, err := suite.service.CreateManualMatch(ctx, suite.companyID, suite.recon.ReconciliationID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(match)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("match_conflict", domainErr.Code)
}

// --- RemoveMatch ---

func (suite *MatchServiceTestSuite) TestRemoveMatch_Success() {
	ctx := context.Background()
	matchID := uuid.NewString()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockReconRepo.On("FindMatchByID", mock.Anything, matchID).
		Return(&domain.BankReconciliationMatch{MatchID: matchID, ReconciliationID: suite.recon.ReconciliationID}, nil).Once()
	suite.mockReconRepo.On("DeleteMatch", mock.Anything, matchID).Return(nil).Once()
	suite.expectVarianceReload([]domain.BankReconciliationMatch{})
	suite.mockAudit.On("Record", mock.Anything, suite.companyID, suite.userID, domain.ActionMatchRemoved, "match", matchID, mock.Anything, nil).Return(nil).Once()

	err := suite.service.RemoveMatch(ctx, suite.companyID, suite.recon.ReconciliationID, matchID, suite.userID)

	suite.Require().NoError(err)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *MatchServiceTestSuite) TestRemoveMatch_AlreadyRemovedIsNoOp() {
	ctx := context.Background()
	matchID := uuid.NewString()
	suite.authorizeOK(domain.RoleAccountant)
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(suite.recon, nil).Once()
	suite.mockReconRepo.On("FindMatchByID", mock.Anything, matchID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.RemoveMatch(ctx, suite.companyID, suite.recon.ReconciliationID, matchID, suite.userID)

	suite.Require().NoError(err)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "DeleteMatch", mock.Anything, mock.Anything)
	suite.mockAudit.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MatchServiceTestSuite) TestRemoveMatch_LockedReconciliation() {
	ctx := context.Background()
	suite.authorizeOK(domain.RoleAccountant)
	locked := *suite.recon
	locked.Status = domain.ReconciliationLocked
	suite.mockReconRepo.On("FindReconciliationByID", mock.Anything, suite.recon.ReconciliationID).Return(&locked, nil).Once()

	err := suite.service.RemoveMatch(ctx, suite.companyID, suite.recon.ReconciliationID, uuid.NewString(), suite.userID)

	suite.Require().Error(err)
	domainErr, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal("reconciliation_not_editable", domainErr.Code)
}

func TestMatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MatchServiceTestSuite))
}
