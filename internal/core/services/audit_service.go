package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/finbooks/bank_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
)

// auditService appends immutable audit entries for every mutating operation.
// A failed append never fails the business operation it records; it is logged
// and surfaced through monitoring instead.
type auditService struct {
	auditRepo  portsrepo.AuditRepositoryFacade
	companySvc portssvc.CompanyAuthorizerSvc
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade, companySvc portssvc.CompanyAuthorizerSvc) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo, companySvc: companySvc}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Record appends one audit entry with JSON before/after snapshots.
func (s *auditService) Record(ctx context.Context, companyID string, actor string, action domain.AuditAction, subjectType string, subjectID string, before any, after any) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry := domain.AuditEntry{
		AuditID:     uuid.NewString(),
		CompanyID:   companyID,
		Actor:       actor,
		Action:      action,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		CreatedAt:   time.Now().UTC(),
	}

	if before != nil {
		raw, err := json.Marshal(before)
		if err != nil {
			return fmt.Errorf("failed to marshal before snapshot: %w", err)
		}
		entry.Before = raw
	}
	if after != nil {
		raw, err := json.Marshal(after)
		if err != nil {
			return fmt.Errorf("failed to marshal after snapshot: %w", err)
		}
		entry.After = raw
	}

	if err := s.auditRepo.SaveAuditEntry(ctx, entry); err != nil {
		logger.Error("Failed to append audit entry", slog.String("error", err.Error()), slog.String("action", string(action)), slog.String("subject_id", subjectID))
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListBySubject retrieves the audit trail for one subject, newest first.
func (s *auditService) ListBySubject(ctx context.Context, companyID string, subjectID string, userID string, params dto.ListParams) (*dto.ListAuditEntriesResponse, error) {
	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.auditRepo.ListAuditEntriesBySubject(ctx, companyID, subjectID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return &dto.ListAuditEntriesResponse{
		Entries:   dto.ToAuditEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}
