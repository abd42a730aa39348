package repositories

import (
	"context"
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SourceCandidateQuery bounds a candidate search over one source type.
type SourceCandidateQuery struct {
	CompanyID    string
	CurrencyCode string
	SourceType   domain.MatchSourceType
	DateFrom     time.Time
	DateTo       time.Time
	AmountMin    decimal.Decimal // inclusive, positive magnitude
	AmountMax    decimal.Decimal // inclusive, positive magnitude
}

// SourceReader defines read operations over the internal financial records a
// statement line can be matched against.
type SourceReader interface {
	// FindCandidateSources retrieves records of one source type within the date
	// window and amount band, ordered by date then id for determinism. Consumed
	// sources are filtered by the caller against the active match set.
	FindCandidateSources(ctx context.Context, query SourceCandidateQuery) ([]domain.MatchSource, error)

	// FindSource retrieves one record by its type discriminant and id.
	FindSource(ctx context.Context, companyID string, sourceType domain.MatchSourceType, sourceID string) (domain.MatchSource, error)
}

// SourceWriter defines write operations used by ingestion and fixtures.
type SourceWriter interface {
	SavePayment(ctx context.Context, payment domain.Payment) error
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	SaveCreditNote(ctx context.Context, note domain.CreditNote) error
}

// SourceRepositoryFacade combines all match-source repository interfaces
type SourceRepositoryFacade interface {
	SourceReader
	SourceWriter
}
