package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents one payment row.
type Payment struct {
	PaymentID    string          `json:"paymentID"` // Primary Key (UUID)
	CompanyID    string          `json:"companyID"`
	CustomerName string          `json:"customerName"`
	Reference    string          `json:"reference"`
	PaymentDate  time.Time       `json:"paymentDate"`
	Total        decimal.Decimal `json:"total"` // positive magnitude
	CurrencyCode string          `json:"currencyCode"`
	AuditFields
}

// Invoice represents one invoice row.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"` // Primary Key (UUID)
	CompanyID     string          `json:"companyID"`
	CustomerName  string          `json:"customerName"`
	InvoiceNumber string          `json:"invoiceNumber"`
	IssueDate     time.Time       `json:"issueDate"`
	Total         decimal.Decimal `json:"total"`
	CurrencyCode  string          `json:"currencyCode"`
	AuditFields
}

// CreditNote represents one credit note row.
type CreditNote struct {
	CreditNoteID string          `json:"creditNoteID"` // Primary Key (UUID)
	CompanyID    string          `json:"companyID"`
	CustomerName string          `json:"customerName"`
	NoteNumber   string          `json:"noteNumber"`
	IssueDate    time.Time       `json:"issueDate"`
	Total        decimal.Decimal `json:"total"`
	CurrencyCode string          `json:"currencyCode"`
	AuditFields
}
