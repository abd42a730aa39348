package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchSourceType discriminates the closed set of internal records a statement
// line can be matched against.
type MatchSourceType string

const (
	SourcePayment      MatchSourceType = "PAYMENT"
	SourceInvoice      MatchSourceType = "INVOICE"
	SourceCreditNote   MatchSourceType = "CREDIT_NOTE"
	SourceJournalEntry MatchSourceType = "JOURNAL_ENTRY"
)

// AllSourceTypes lists every source type in matching priority order.
var AllSourceTypes = []MatchSourceType{SourcePayment, SourceInvoice, SourceCreditNote, SourceJournalEntry}

// Priority returns the tie-breaking rank of the source type; lower wins.
func (t MatchSourceType) Priority() int {
	switch t {
	case SourcePayment:
		return 0
	case SourceInvoice:
		return 1
	case SourceCreditNote:
		return 2
	case SourceJournalEntry:
		return 3
	default:
		return 4
	}
}

// IsValid reports whether the value is one of the known source types.
func (t MatchSourceType) IsValid() bool {
	return t.Priority() < 4
}

// MatchSource is the capability set the matcher needs from any internal financial
// record. Implementations form a closed union selected by SourceType; matching
// code must never inspect the concrete type.
type MatchSource interface {
	SourceType() MatchSourceType
	SourceID() string
	Amount() decimal.Decimal // always positive magnitude
	Date() time.Time
	DisplayReference() string
	DisplayParty() string
}

// Payment is money received from or paid to a counterparty.
type Payment struct {
	PaymentID    string          `json:"paymentID"`
	CompanyID    string          `json:"companyID"`
	CustomerName string          `json:"customerName"`
	Reference    string          `json:"reference"`
	PaymentDate  time.Time       `json:"paymentDate"`
	Total        decimal.Decimal `json:"total"`
	CurrencyCode string          `json:"currencyCode"`
	AuditFields
}

func (p Payment) SourceType() MatchSourceType { return SourcePayment }
func (p Payment) SourceID() string            { return p.PaymentID }
func (p Payment) Amount() decimal.Decimal     { return p.Total }
func (p Payment) Date() time.Time             { return p.PaymentDate }
func (p Payment) DisplayReference() string    { return p.Reference }
func (p Payment) DisplayParty() string        { return p.CustomerName }

// Invoice is an amount billed to a customer.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	CompanyID     string          `json:"companyID"`
	CustomerName  string          `json:"customerName"`
	InvoiceNumber string          `json:"invoiceNumber"`
	IssueDate     time.Time       `json:"issueDate"`
	Total         decimal.Decimal `json:"total"`
	CurrencyCode  string          `json:"currencyCode"`
	AuditFields
}

func (i Invoice) SourceType() MatchSourceType { return SourceInvoice }
func (i Invoice) SourceID() string            { return i.InvoiceID }
func (i Invoice) Amount() decimal.Decimal     { return i.Total }
func (i Invoice) Date() time.Time             { return i.IssueDate }
func (i Invoice) DisplayReference() string    { return i.InvoiceNumber }
func (i Invoice) DisplayParty() string        { return i.CustomerName }

// CreditNote is a negative invoice issued against a customer.
type CreditNote struct {
	CreditNoteID string          `json:"creditNoteID"`
	CompanyID    string          `json:"companyID"`
	CustomerName string          `json:"customerName"`
	NoteNumber   string          `json:"noteNumber"`
	IssueDate    time.Time       `json:"issueDate"`
	Total        decimal.Decimal `json:"total"`
	CurrencyCode string          `json:"currencyCode"`
	AuditFields
}

func (c CreditNote) SourceType() MatchSourceType { return SourceCreditNote }
func (c CreditNote) SourceID() string            { return c.CreditNoteID }
func (c CreditNote) Amount() decimal.Decimal     { return c.Total }
func (c CreditNote) Date() time.Time             { return c.IssueDate }
func (c CreditNote) DisplayReference() string    { return c.NoteNumber }
func (c CreditNote) DisplayParty() string        { return c.CustomerName }

// JournalEntrySource adapts a posted journal entry into the match source union.
type JournalEntrySource struct {
	JournalEntryID string          `json:"journalEntryID"`
	CompanyID      string          `json:"companyID"`
	Description    string          `json:"description"`
	EntryDate      time.Time       `json:"entryDate"`
	Total          decimal.Decimal `json:"total"`
	CurrencyCode   string          `json:"currencyCode"`
	AuditFields
}

func (j JournalEntrySource) SourceType() MatchSourceType { return SourceJournalEntry }
func (j JournalEntrySource) SourceID() string            { return j.JournalEntryID }
func (j JournalEntrySource) Amount() decimal.Decimal     { return j.Total }
func (j JournalEntrySource) Date() time.Time             { return j.EntryDate }
func (j JournalEntrySource) DisplayReference() string    { return j.Description }
func (j JournalEntrySource) DisplayParty() string        { return "" }
