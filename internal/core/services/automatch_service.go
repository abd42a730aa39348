package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/finbooks/bank_reconciliation_app/internal/platform/config"
)

// AutoMatchService runs queued auto-match jobs on a single background worker.
// One worker keeps runs serialized, which makes the outcome of concurrent
// enqueues deterministic.
type AutoMatchService struct {
	jobRepo       portsrepo.AutoMatchJobRepositoryFacade
	reconRepo     portsrepo.ReconciliationRepositoryFacade
	statementRepo portsrepo.StatementRepositoryFacade
	companySvc    portssvc.CompanyAuthorizerSvc
	auditSvc      portssvc.AuditSvcFacade
	finder        *candidateFinder
	cfg           config.MatchingConfig
	logger        *slog.Logger

	queue chan string
	wg    sync.WaitGroup
	stop  sync.Once
}

// NewAutoMatchService creates a new AutoMatchService with a bounded job queue.
func NewAutoMatchService(
	jobRepo portsrepo.AutoMatchJobRepositoryFacade,
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	statementRepo portsrepo.StatementRepositoryFacade,
	sourceRepo portsrepo.SourceRepositoryFacade,
	companySvc portssvc.CompanyAuthorizerSvc,
	auditSvc portssvc.AuditSvcFacade,
	cfg config.MatchingConfig,
	queueSize int,
	logger *slog.Logger,
) *AutoMatchService {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &AutoMatchService{
		jobRepo:       jobRepo,
		reconRepo:     reconRepo,
		statementRepo: statementRepo,
		companySvc:    companySvc,
		auditSvc:      auditSvc,
		finder:        newCandidateFinder(sourceRepo, cfg),
		cfg:           cfg,
		logger:        logger,
		queue:         make(chan string, queueSize),
	}
}

var _ portssvc.AutoMatchSvcFacade = (*AutoMatchService)(nil)

// Start launches the background worker. The worker drains the queue until Stop
// closes it; ctx cancellation aborts the job currently running.
func (s *AutoMatchService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for jobID := range s.queue {
			s.runJob(ctx, jobID)
		}
	}()
}

// Stop closes the queue and waits for the in-flight job to finish.
func (s *AutoMatchService) Stop() {
	s.stop.Do(func() { close(s.queue) })
	s.wg.Wait()
}

// EnqueueAutoMatch validates the reconciliation is editable, persists a pending
// job, hands it to the worker, and returns the handle immediately.
func (s *AutoMatchService) EnqueueAutoMatch(ctx context.Context, companyID string, reconciliationID string, userID string) (*domain.AutoMatchJob, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleAccountant); err != nil {
		logger.Warn("Authorization failed for EnqueueAutoMatch", slog.String("user_id", userID), slog.String("company_id", companyID))
		return nil, err
	}

	if _, err := loadEditableContext(ctx, s.reconRepo, companyID, reconciliationID); err != nil {
		return nil, err
	}

	job := domain.AutoMatchJob{
		JobID:            uuid.NewString(),
		CompanyID:        companyID,
		ReconciliationID: reconciliationID,
		Status:           domain.JobPending,
		CreatedAt:        time.Now().UTC(),
		CreatedBy:        userID,
	}
	if err := s.jobRepo.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to save auto-match job", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to save auto-match job: %w", err)
	}

	select {
	case s.queue <- job.JobID:
	default:
		now := time.Now().UTC()
		job.Status = domain.JobFailed
		job.FailureDetail = "auto-match queue is full"
		job.FinishedAt = &now
		if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
			logger.Error("Failed to mark overflowed job as failed", slog.String("error", err.Error()), slog.String("job_id", job.JobID))
		}
		return nil, apperrors.NewDomainError("auto_match_queue_full", "auto-match queue is full, retry later")
	}

	logger.Info("Auto-match job enqueued", slog.String("job_id", job.JobID), slog.String("reconciliation_id", reconciliationID))
	return &job, nil
}

// GetJob serves the pollable status of a job.
func (s *AutoMatchService) GetJob(ctx context.Context, companyID string, jobID string, userID string) (*domain.AutoMatchJob, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find auto-match job %s: %w", jobID, err)
	}
	if job.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return job, nil
}

// runJob executes one auto-match pass. Whole-run failures (loading the
// reconciliation or its lines) mark the job failed; per-line failures are
// aggregated in FailureDetail and never abort the remaining lines.
func (s *AutoMatchService) runJob(ctx context.Context, jobID string) {
	logger := s.logger.With(slog.String("job_id", jobID))
	ctx = middleware.WithLogger(ctx, logger)

	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		logger.Error("Failed to load auto-match job", slog.String("error", err.Error()))
		return
	}

	now := time.Now().UTC()
	job.Status = domain.JobRunning
	job.StartedAt = &now
	if err := s.jobRepo.UpdateJob(ctx, *job); err != nil {
		logger.Error("Failed to mark job running", slog.String("error", err.Error()))
		return
	}

	if err := s.processJob(ctx, job); err != nil {
		job.Status = domain.JobFailed
		job.FailureDetail = err.Error()
		logger.Error("Auto-match run failed", slog.String("error", err.Error()))
	} else {
		job.Status = domain.JobCompleted
	}

	finished := time.Now().UTC()
	job.FinishedAt = &finished
	if err := s.jobRepo.UpdateJob(ctx, *job); err != nil {
		logger.Error("Failed to persist job result", slog.String("error", err.Error()))
	}
}

// processJob walks the statement lines in (date, line_number) order and claims
// unambiguous high-confidence matches. The counters on job are updated in
// place.
func (s *AutoMatchService) processJob(ctx context.Context, job *domain.AutoMatchJob) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	recon, err := s.reconRepo.FindReconciliationByID(ctx, job.ReconciliationID)
	if err != nil {
		return fmt.Errorf("failed to load reconciliation: %w", err)
	}
	statement, err := s.statementRepo.FindStatementByID(ctx, recon.StatementID)
	if err != nil {
		return fmt.Errorf("failed to load statement: %w", err)
	}
	lines, err := s.statementRepo.FindAllLinesByStatement(ctx, recon.StatementID)
	if err != nil {
		return fmt.Errorf("failed to load statement lines: %w", err)
	}
	matches, err := s.reconRepo.ListMatchesByReconciliation(ctx, job.ReconciliationID)
	if err != nil {
		return fmt.Errorf("failed to load existing matches: %w", err)
	}
	consumed, matchedLines := consumedSources(matches)

	var failures []string
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run aborted: %w", err)
		}

		// The reconciliation can leave its editable state mid-run (completion
		// from another session). Remaining lines degrade to no-ops.
		current, err := s.reconRepo.FindReconciliationByID(ctx, job.ReconciliationID)
		if err != nil {
			return fmt.Errorf("failed to re-check reconciliation: %w", err)
		}
		if !current.CanBeEdited() {
			logger.Info("Reconciliation no longer editable, stopping run", slog.String("status", string(current.Status)))
			break
		}

		if _, taken := matchedLines[line.LineID]; taken {
			continue
		}
		job.LinesProcessed++

		candidates, err := s.finder.findCandidates(ctx, &line, job.CompanyID, statement.CurrencyCode, nil, consumed)
		if err != nil {
			job.LinesFailed++
			failures = append(failures, fmt.Sprintf("line %s: %v", line.LineID, err))
			continue
		}
		if len(candidates) == 0 || candidates[0].Confidence < s.cfg.AcceptThreshold {
			job.LinesUnmatched++
			continue
		}
		if len(candidates) > 1 && candidates[0].Confidence-candidates[1].Confidence <= s.cfg.AmbiguityMargin {
			job.LinesAmbiguous++
			continue
		}

		top := candidates[0]
		confidence := top.Confidence
		match := domain.BankReconciliationMatch{
			MatchID:          uuid.NewString(),
			ReconciliationID: job.ReconciliationID,
			StatementLineID:  line.LineID,
			SourceType:       top.Source.SourceType(),
			SourceID:         top.Source.SourceID(),
			Amount:           line.Amount,
			AutoMatched:      true,
			ConfidenceScore:  &confidence,
			MatchedAt:        time.Now().UTC(),
			MatchedBy:        job.CreatedBy,
		}
		if err := s.reconRepo.SaveMatch(ctx, match); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// A manual match landed first; the line stays theirs.
				job.LinesUnmatched++
				continue
			}
			job.LinesFailed++
			failures = append(failures, fmt.Sprintf("line %s: %v", line.LineID, err))
			continue
		}

		consumed[sourceKey{Type: match.SourceType, ID: match.SourceID}] = struct{}{}
		matchedLines[line.LineID] = struct{}{}
		job.LinesMatched++
	}

	if len(failures) > 0 {
		job.FailureDetail = strings.Join(failures, "; ")
	}

	variance, err := reconciliationVariance(ctx, s.statementRepo, s.reconRepo, recon)
	if err != nil {
		return err
	}

	if err := s.auditSvc.Record(ctx, job.CompanyID, job.CreatedBy, domain.ActionAutoMatchCompleted, "reconciliation", job.ReconciliationID, nil, job); err != nil {
		logger.Warn("Audit append failed for auto-match run", slog.String("error", err.Error()))
	}

	logger.Info("Auto-match run finished",
		slog.Int("processed", job.LinesProcessed),
		slog.Int("matched", job.LinesMatched),
		slog.Int("ambiguous", job.LinesAmbiguous),
		slog.Int("unmatched", job.LinesUnmatched),
		slog.Int("failed", job.LinesFailed),
		slog.String("variance", variance.String()),
	)
	return nil
}
