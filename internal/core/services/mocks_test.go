package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
)

// Shared repository and service mocks for the services test suites. The
// reconciliation, match, adjustment, and auto-match services depend on the same
// facades, so the mocks live here instead of being redeclared per file.

// --- Mock CompanyRepository ---
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindMembership(ctx context.Context, companyID string, userID string) (*domain.CompanyMember, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyMember), args.Error(1)
}

func (m *MockCompanyRepository) ListCompaniesByUser(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) SaveMembership(ctx context.Context, member domain.CompanyMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// --- Mock StatementRepository ---
type MockStatementRepository struct {
	mock.Mock
}

func (m *MockStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankStatement), args.Error(1)
}

func (m *MockStatementRepository) ListStatementsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.BankStatement, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	var statements []domain.BankStatement
	if args.Get(0) != nil {
		statements = args.Get(0).([]domain.BankStatement)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return statements, token, args.Error(2)
}

func (m *MockStatementRepository) FindLineByID(ctx context.Context, lineID string) (*domain.BankStatementLine, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankStatementLine), args.Error(1)
}

func (m *MockStatementRepository) ListLinesByStatement(ctx context.Context, statementID string, limit int, nextToken *string) ([]domain.BankStatementLine, *string, error) {
	args := m.Called(ctx, statementID, limit, nextToken)
	var lines []domain.BankStatementLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]domain.BankStatementLine)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return lines, token, args.Error(2)
}

func (m *MockStatementRepository) FindAllLinesByStatement(ctx context.Context, statementID string) ([]domain.BankStatementLine, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankStatementLine), args.Error(1)
}

func (m *MockStatementRepository) SaveStatement(ctx context.Context, statement domain.BankStatement, lines []domain.BankStatementLine) error {
	args := m.Called(ctx, statement, lines)
	return args.Error(0)
}

func (m *MockStatementRepository) UpdateStatementStatus(ctx context.Context, statementID string, status domain.BankStatementStatus, updatedBy string) error {
	args := m.Called(ctx, statementID, status, updatedBy)
	return args.Error(0)
}

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) FindReconciliationByStatementID(ctx context.Context, statementID string) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) ListReconciliationsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.BankReconciliation, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	var recons []domain.BankReconciliation
	if args.Get(0) != nil {
		recons = args.Get(0).([]domain.BankReconciliation)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return recons, token, args.Error(2)
}

func (m *MockReconciliationRepository) SaveReconciliation(ctx context.Context, reconciliation domain.BankReconciliation) error {
	args := m.Called(ctx, reconciliation)
	return args.Error(0)
}

func (m *MockReconciliationRepository) TransitionStatus(ctx context.Context, reconciliationID string, transition portsrepo.StatusTransition) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, reconciliationID, transition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) FindMatchByID(ctx context.Context, matchID string) (*domain.BankReconciliationMatch, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliationMatch), args.Error(1)
}

func (m *MockReconciliationRepository) ListMatchesByReconciliation(ctx context.Context, reconciliationID string) ([]domain.BankReconciliationMatch, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankReconciliationMatch), args.Error(1)
}

func (m *MockReconciliationRepository) SaveMatch(ctx context.Context, match domain.BankReconciliationMatch) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockReconciliationRepository) DeleteMatch(ctx context.Context, matchID string) error {
	args := m.Called(ctx, matchID)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.BankReconciliationAdjustment, error) {
	args := m.Called(ctx, adjustmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliationAdjustment), args.Error(1)
}

func (m *MockReconciliationRepository) ListAdjustmentsByReconciliation(ctx context.Context, reconciliationID string) ([]domain.BankReconciliationAdjustment, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankReconciliationAdjustment), args.Error(1)
}

func (m *MockReconciliationRepository) SaveAdjustment(ctx context.Context, adjustment domain.BankReconciliationAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockReconciliationRepository) UpdateAdjustment(ctx context.Context, adjustment domain.BankReconciliationAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockReconciliationRepository) DeleteAdjustment(ctx context.Context, adjustmentID string) error {
	args := m.Called(ctx, adjustmentID)
	return args.Error(0)
}

// --- Mock SourceRepository ---
type MockSourceRepository struct {
	mock.Mock
}

func (m *MockSourceRepository) FindCandidateSources(ctx context.Context, query portsrepo.SourceCandidateQuery) ([]domain.MatchSource, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchSource), args.Error(1)
}

func (m *MockSourceRepository) FindSource(ctx context.Context, companyID string, sourceType domain.MatchSourceType, sourceID string) (domain.MatchSource, error) {
	args := m.Called(ctx, companyID, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.MatchSource), args.Error(1)
}

func (m *MockSourceRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockSourceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockSourceRepository) SaveCreditNote(ctx context.Context, note domain.CreditNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditEntriesBySubject(ctx context.Context, companyID string, subjectID string, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	args := m.Called(ctx, companyID, subjectID, limit, nextToken)
	var entries []domain.AuditEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.AuditEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

// --- Mock AutoMatchJobRepository ---
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) SaveJob(ctx context.Context, job domain.AutoMatchJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateJob(ctx context.Context, job domain.AutoMatchJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.AutoMatchJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutoMatchJob), args.Error(1)
}

// --- Mock CompanyAuthorizer ---
type MockCompanyAuthorizer struct {
	mock.Mock
}

func (m *MockCompanyAuthorizer) AuthorizeUserAction(ctx context.Context, userID string, companyID string, minRole domain.CompanyRole) error {
	args := m.Called(ctx, userID, companyID, minRole)
	return args.Error(0)
}

func (m *MockCompanyAuthorizer) MemberRole(ctx context.Context, companyID string, userID string) (domain.CompanyRole, error) {
	args := m.Called(ctx, companyID, userID)
	return args.Get(0).(domain.CompanyRole), args.Error(1)
}

// --- Mock AuditSvc ---
type MockAuditSvc struct {
	mock.Mock
}

func (m *MockAuditSvc) Record(ctx context.Context, companyID string, actor string, action domain.AuditAction, subjectType string, subjectID string, before any, after any) error {
	args := m.Called(ctx, companyID, actor, action, subjectType, subjectID, before, after)
	return args.Error(0)
}

func (m *MockAuditSvc) ListBySubject(ctx context.Context, companyID string, subjectID string, userID string, params dto.ListParams) (*dto.ListAuditEntriesResponse, error) {
	args := m.Called(ctx, companyID, subjectID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAuditEntriesResponse), args.Error(1)
}

// --- Mock LedgerPoster ---
type MockLedgerPoster struct {
	mock.Mock
}

func (m *MockLedgerPoster) PostBalancedEntry(ctx context.Context, companyID string, input portssvc.BalancedEntryInput, actorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, input, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
