package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankStatementStatus indicates the lifecycle of an imported statement.
type BankStatementStatus string

const (
	StatementImported   BankStatementStatus = "IMPORTED"
	StatementReconciled BankStatementStatus = "RECONCILED"
)

// BankStatement represents one imported statement row.
type BankStatement struct {
	StatementID      string              `json:"statementID"` // Primary Key (UUID)
	CompanyID        string              `json:"companyID"`
	AccountReference string              `json:"accountReference"`
	PeriodStart      time.Time           `json:"periodStart"`
	PeriodEnd        time.Time           `json:"periodEnd"`
	OpeningBalance   decimal.Decimal     `json:"openingBalance"`
	ClosingBalance   decimal.Decimal     `json:"closingBalance"`
	CurrencyCode     string              `json:"currencyCode"`
	Status           BankStatementStatus `json:"status"`
	AuditFields
}

// BankStatementLine represents one transaction row within a statement.
// The canonical ordering is (transaction_date, line_number).
type BankStatementLine struct {
	LineID          string          `json:"lineID"` // Primary Key (UUID)
	StatementID     string          `json:"statementID"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"referenceNumber"`
	Amount          decimal.Decimal `json:"amount"` // signed
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	ExternalID      string          `json:"externalID"` // bank-side id, used for dedupe
	LineNumber      int             `json:"lineNumber"`
	AuditFields
}
