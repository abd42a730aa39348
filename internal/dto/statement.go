package dto

import (
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementLineRequest is one already-parsed statement line in an import.
type StatementLineRequest struct {
	TransactionDate time.Time       `json:"transactionDate" binding:"required"`
	Description     string          `json:"description" binding:"max=500"`
	ReferenceNumber string          `json:"referenceNumber" binding:"max=100"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	ExternalID      string          `json:"externalID" binding:"required,max=100"`
	LineNumber      int             `json:"lineNumber" binding:"min=0"`
}

// CreateStatementRequest is the payload for importing a parsed bank statement.
type CreateStatementRequest struct {
	AccountReference string                 `json:"accountReference" binding:"required,max=100"`
	PeriodStart      time.Time              `json:"periodStart" binding:"required"`
	PeriodEnd        time.Time              `json:"periodEnd" binding:"required"`
	OpeningBalance   decimal.Decimal        `json:"openingBalance"`
	ClosingBalance   decimal.Decimal        `json:"closingBalance"`
	CurrencyCode     string                 `json:"currencyCode" binding:"required,len=3"`
	Lines            []StatementLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreateStatementResponse reports the outcome of a statement import.
type CreateStatementResponse struct {
	StatementID       string `json:"statementID"`
	LinesImported     int    `json:"linesImported"`
	DuplicatesSkipped int    `json:"duplicatesSkipped"`
}

// StatementResponse is the API representation of a bank statement.
type StatementResponse struct {
	StatementID      string          `json:"statementID"`
	CompanyID        string          `json:"companyID"`
	AccountReference string          `json:"accountReference"`
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	OpeningBalance   decimal.Decimal `json:"openingBalance"`
	ClosingBalance   decimal.Decimal `json:"closingBalance"`
	CurrencyCode     string          `json:"currencyCode"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// StatementLineResponse is the API representation of a statement line.
type StatementLineResponse struct {
	LineID          string          `json:"lineID"`
	StatementID     string          `json:"statementID"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	ExternalID      string          `json:"externalID"`
	LineNumber      int             `json:"lineNumber"`
}

// ListStatementsResponse is a page of statements.
type ListStatementsResponse struct {
	Statements []StatementResponse `json:"statements"`
	NextToken  *string             `json:"nextToken,omitempty"`
}

// ListStatementLinesResponse is a page of statement lines.
type ListStatementLinesResponse struct {
	Lines     []StatementLineResponse `json:"lines"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// ToStatementResponse maps a domain statement to its API representation.
func ToStatementResponse(s *domain.BankStatement) StatementResponse {
	return StatementResponse{
		StatementID:      s.StatementID,
		CompanyID:        s.CompanyID,
		AccountReference: s.AccountReference,
		PeriodStart:      s.PeriodStart,
		PeriodEnd:        s.PeriodEnd,
		OpeningBalance:   s.OpeningBalance,
		ClosingBalance:   s.ClosingBalance,
		CurrencyCode:     s.CurrencyCode,
		Status:           string(s.Status),
		CreatedAt:        s.CreatedAt,
	}
}

// ToStatementLineResponse maps a domain line to its API representation.
func ToStatementLineResponse(l *domain.BankStatementLine) StatementLineResponse {
	return StatementLineResponse{
		LineID:          l.LineID,
		StatementID:     l.StatementID,
		TransactionDate: l.TransactionDate,
		Description:     l.Description,
		ReferenceNumber: l.ReferenceNumber,
		Amount:          l.Amount,
		BalanceAfter:    l.BalanceAfter,
		ExternalID:      l.ExternalID,
		LineNumber:      l.LineNumber,
	}
}

// ToStatementLineResponses maps a slice of domain lines.
func ToStatementLineResponses(lines []domain.BankStatementLine) []StatementLineResponse {
	out := make([]StatementLineResponse, len(lines))
	for i := range lines {
		out[i] = ToStatementLineResponse(&lines[i])
	}
	return out
}
