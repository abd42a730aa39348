package services

import (
	"log/slog"

	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. The returned AutoMatchService is the same instance as
// container.AutoMatch; main owns its Start/Stop lifecycle.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) (*portssvc.ServiceContainer, *AutoMatchService) {
	container := &portssvc.ServiceContainer{}

	// Company service first since every other service authorizes through it.
	container.Company = NewCompanyService(repos.CompanyRepo)
	companyAuthorizer := container.Company.(portssvc.CompanyAuthorizerSvc)

	container.Audit = NewAuditService(repos.AuditRepo, companyAuthorizer)
	container.LedgerPoster = NewLedgerService(repos.JournalRepo)

	container.Statement = NewStatementService(repos.StatementRepo, companyAuthorizer)
	container.Reconciliation = NewReconciliationService(
		repos.ReconciliationRepo,
		repos.StatementRepo,
		companyAuthorizer,
		container.Audit,
		cfg.Reopen,
	)
	container.Match = NewMatchService(
		repos.ReconciliationRepo,
		repos.StatementRepo,
		repos.SourceRepo,
		companyAuthorizer,
		container.Audit,
		cfg.Matching,
	)
	container.Adjustment = NewAdjustmentService(
		repos.ReconciliationRepo,
		repos.StatementRepo,
		companyAuthorizer,
		container.Audit,
		container.LedgerPoster,
		cfg.Matching,
	)

	autoMatch := NewAutoMatchService(
		repos.JobRepo,
		repos.ReconciliationRepo,
		repos.StatementRepo,
		repos.SourceRepo,
		companyAuthorizer,
		container.Audit,
		cfg.Matching,
		cfg.AutoMatchQueueSize,
		logger,
	)
	container.AutoMatch = autoMatch

	return container, autoMatch
}
