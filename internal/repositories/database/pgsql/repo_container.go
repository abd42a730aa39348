package pgsql

import (
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	companyRepo := newPgxCompanyRepository(dbPool)
	statementRepo := newPgxStatementRepository(dbPool)
	reconciliationRepo := newPgxReconciliationRepository(dbPool)
	sourceRepo := newPgxSourceRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	jobRepo := newPgxAutoMatchJobRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CompanyRepo:        companyRepo,
		StatementRepo:      statementRepo,
		ReconciliationRepo: reconciliationRepo,
		SourceRepo:         sourceRepo,
		JournalRepo:        journalRepo,
		AuditRepo:          auditRepo,
		JobRepo:            jobRepo,
	}
}
