package mapping

import (
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:    d.PaymentID,
		CompanyID:    d.CompanyID,
		CustomerName: d.CustomerName,
		Reference:    d.Reference,
		PaymentDate:  d.PaymentDate,
		Total:        d.Total,
		CurrencyCode: d.CurrencyCode,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:    m.PaymentID,
		CompanyID:    m.CompanyID,
		CustomerName: m.CustomerName,
		Reference:    m.Reference,
		PaymentDate:  m.PaymentDate,
		Total:        m.Total,
		CurrencyCode: m.CurrencyCode,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		CompanyID:     d.CompanyID,
		CustomerName:  d.CustomerName,
		InvoiceNumber: d.InvoiceNumber,
		IssueDate:     d.IssueDate,
		Total:         d.Total,
		CurrencyCode:  d.CurrencyCode,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		CompanyID:     m.CompanyID,
		CustomerName:  m.CustomerName,
		InvoiceNumber: m.InvoiceNumber,
		IssueDate:     m.IssueDate,
		Total:         m.Total,
		CurrencyCode:  m.CurrencyCode,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCreditNote converts a domain CreditNote to a model CreditNote
func ToModelCreditNote(d domain.CreditNote) models.CreditNote {
	return models.CreditNote{
		CreditNoteID: d.CreditNoteID,
		CompanyID:    d.CompanyID,
		CustomerName: d.CustomerName,
		NoteNumber:   d.NoteNumber,
		IssueDate:    d.IssueDate,
		Total:        d.Total,
		CurrencyCode: d.CurrencyCode,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCreditNote converts a model CreditNote to a domain CreditNote
func ToDomainCreditNote(m models.CreditNote) domain.CreditNote {
	return domain.CreditNote{
		CreditNoteID: m.CreditNoteID,
		CompanyID:    m.CompanyID,
		CustomerName: m.CustomerName,
		NoteNumber:   m.NoteNumber,
		IssueDate:    m.IssueDate,
		Total:        m.Total,
		CurrencyCode: m.CurrencyCode,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
