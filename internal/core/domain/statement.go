package domain

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

// BankStatement represents one imported bank statement for a company account.
// A statement becomes immutable once a reconciliation references it.
type BankStatement struct {
	StatementID      string              `json:"statementID"` // Primary Key (e.g., UUID)
	CompanyID        string              `json:"companyID"`   // FK -> companies.company_id
	AccountReference string              `json:"accountReference"`
	PeriodStart      time.Time           `json:"periodStart"`
	PeriodEnd        time.Time           `json:"periodEnd"`
	OpeningBalance   decimal.Decimal     `json:"openingBalance"`
	ClosingBalance   decimal.Decimal     `json:"closingBalance"`
	CurrencyCode     string              `json:"currencyCode"`
	Status           BankStatementStatus `json:"status"`
	AuditFields
}

// BankStatementLine is one transaction row from an imported bank statement.
// Lines are ordered by (TransactionDate, LineNumber) within a statement.
type BankStatementLine struct {
	LineID          string          `json:"lineID"`      // Primary Key (e.g., UUID)
	StatementID     string          `json:"statementID"` // FK -> bank_statements.statement_id
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"referenceNumber"`
	Amount          decimal.Decimal `json:"amount"` // signed: deposits positive, withdrawals negative
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	ExternalID      string          `json:"externalID"` // bank-side identifier used for dedupe
	LineNumber      int             `json:"lineNumber"`
	AuditFields
}
