package repositories

import (
	"context"
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// StatusTransition describes one compare-and-set lifecycle transition. The
// repository only applies it when the stored status still equals From, so two
// racing transitions cannot both succeed.
type StatusTransition struct {
	From        domain.ReconciliationStatus
	To          domain.ReconciliationStatus
	Reopened    bool
	ActorID     string
	At          time.Time
	ReopenEvent *domain.ReopenEvent // appended to the history when non-nil
}

// ReconciliationReader defines read operations for reconciliation data
type ReconciliationReader interface {
	// FindReconciliationByID retrieves a reconciliation with its reopen history.
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error)

	// FindReconciliationByStatementID retrieves the reconciliation attached to a
	// statement, if any.
	FindReconciliationByStatementID(ctx context.Context, statementID string) (*domain.BankReconciliation, error)

	// ListReconciliationsByCompany retrieves a paginated list for a company.
	ListReconciliationsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.BankReconciliation, *string, error)
}

// ReconciliationWriter defines write operations for reconciliation data
type ReconciliationWriter interface {
	// SaveReconciliation persists a new reconciliation. Returns
	// apperrors.ErrDuplicate when the statement already has one.
	SaveReconciliation(ctx context.Context, reconciliation domain.BankReconciliation) error

	// TransitionStatus applies a compare-and-set status transition and returns the
	// updated reconciliation. Returns apperrors.ErrConflict when the stored status
	// no longer equals transition.From.
	TransitionStatus(ctx context.Context, reconciliationID string, transition StatusTransition) (*domain.BankReconciliation, error)
}

// MatchReader defines read operations for reconciliation matches
type MatchReader interface {
	// FindMatchByID retrieves a single match.
	FindMatchByID(ctx context.Context, matchID string) (*domain.BankReconciliationMatch, error)

	// ListMatchesByReconciliation retrieves all active matches of a reconciliation.
	ListMatchesByReconciliation(ctx context.Context, reconciliationID string) ([]domain.BankReconciliationMatch, error)
}

// MatchWriter defines write operations for reconciliation matches
type MatchWriter interface {
	// SaveMatch persists a match. The unique indexes on (reconciliation_id,
	// statement_line_id) and (reconciliation_id, source_type, source_id) surface as
	// apperrors.ErrDuplicate, which is the transactional double-match guard.
	SaveMatch(ctx context.Context, match domain.BankReconciliationMatch) error

	// DeleteMatch removes a match. Returns apperrors.ErrNotFound when the match no
	// longer exists.
	DeleteMatch(ctx context.Context, matchID string) error
}

// AdjustmentReader defines read operations for reconciliation adjustments
type AdjustmentReader interface {
	// FindAdjustmentByID retrieves a single adjustment.
	FindAdjustmentByID(ctx context.Context, adjustmentID string) (*domain.BankReconciliationAdjustment, error)

	// ListAdjustmentsByReconciliation retrieves all adjustments of a reconciliation.
	ListAdjustmentsByReconciliation(ctx context.Context, reconciliationID string) ([]domain.BankReconciliationAdjustment, error)
}

// AdjustmentWriter defines write operations for reconciliation adjustments
type AdjustmentWriter interface {
	// SaveAdjustment persists a new adjustment.
	SaveAdjustment(ctx context.Context, adjustment domain.BankReconciliationAdjustment) error

	// UpdateAdjustment updates amount, description, and linked journal entry.
	UpdateAdjustment(ctx context.Context, adjustment domain.BankReconciliationAdjustment) error

	// DeleteAdjustment removes an adjustment. Returns apperrors.ErrNotFound when it
	// no longer exists.
	DeleteAdjustment(ctx context.Context, adjustmentID string) error
}

// ReconciliationRepositoryFacade combines all reconciliation-related repository
// interfaces. A reconciliation owns its matches and adjustments, so they share
// one facade the way the statement facade owns its lines.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
	MatchReader
	MatchWriter
	AdjustmentReader
	AdjustmentWriter
}
