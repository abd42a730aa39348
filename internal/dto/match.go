package dto

import (
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateManualMatchRequest claims a correspondence between a statement line and
// one internal financial record.
type CreateManualMatchRequest struct {
	StatementLineID string          `json:"statementLineID" binding:"required"`
	SourceType      string          `json:"sourceType" binding:"required,sourcetype"`
	SourceID        string          `json:"sourceID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
}

// MatchCandidate is one scored candidate for a statement line.
type MatchCandidate struct {
	SourceType       string          `json:"sourceType"`
	SourceID         string          `json:"sourceID"`
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
	DisplayReference string          `json:"displayReference,omitempty"`
	DisplayParty     string          `json:"displayParty,omitempty"`
	Confidence       float64         `json:"confidence"`
}

// MatchResponse is the API representation of a reconciliation match.
type MatchResponse struct {
	MatchID          string          `json:"matchID"`
	ReconciliationID string          `json:"reconciliationID"`
	StatementLineID  string          `json:"statementLineID"`
	SourceType       string          `json:"sourceType"`
	SourceID         string          `json:"sourceID"`
	Amount           decimal.Decimal `json:"amount"`
	AutoMatched      bool            `json:"autoMatched"`
	ConfidenceScore  *float64        `json:"confidenceScore,omitempty"`
	MatchedAt        time.Time       `json:"matchedAt"`
	MatchedBy        string          `json:"matchedBy"`
}

// ToMatchResponse maps a domain match to its API representation.
func ToMatchResponse(m *domain.BankReconciliationMatch) MatchResponse {
	return MatchResponse{
		MatchID:          m.MatchID,
		ReconciliationID: m.ReconciliationID,
		StatementLineID:  m.StatementLineID,
		SourceType:       string(m.SourceType),
		SourceID:         m.SourceID,
		Amount:           m.Amount,
		AutoMatched:      m.AutoMatched,
		ConfidenceScore:  m.ConfidenceScore,
		MatchedAt:        m.MatchedAt,
		MatchedBy:        m.MatchedBy,
	}
}

// ToMatchResponses maps a slice of domain matches.
func ToMatchResponses(matches []domain.BankReconciliationMatch) []MatchResponse {
	out := make([]MatchResponse, len(matches))
	for i := range matches {
		out[i] = ToMatchResponse(&matches[i])
	}
	return out
}
