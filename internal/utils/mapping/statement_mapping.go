package mapping

import (
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
)

// ToModelStatement converts a domain BankStatement to a model BankStatement
func ToModelStatement(d domain.BankStatement) models.BankStatement {
	return models.BankStatement{
		StatementID:      d.StatementID,
		CompanyID:        d.CompanyID,
		AccountReference: d.AccountReference,
		PeriodStart:      d.PeriodStart,
		PeriodEnd:        d.PeriodEnd,
		OpeningBalance:   d.OpeningBalance,
		ClosingBalance:   d.ClosingBalance,
		CurrencyCode:     d.CurrencyCode,
		Status:           models.BankStatementStatus(d.Status),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStatement converts a model BankStatement to a domain BankStatement
func ToDomainStatement(m models.BankStatement) domain.BankStatement {
	return domain.BankStatement{
		StatementID:      m.StatementID,
		CompanyID:        m.CompanyID,
		AccountReference: m.AccountReference,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		OpeningBalance:   m.OpeningBalance,
		ClosingBalance:   m.ClosingBalance,
		CurrencyCode:     m.CurrencyCode,
		Status:           domain.BankStatementStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStatementLine converts a domain BankStatementLine to a model BankStatementLine
func ToModelStatementLine(d domain.BankStatementLine) models.BankStatementLine {
	return models.BankStatementLine{
		LineID:          d.LineID,
		StatementID:     d.StatementID,
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		ReferenceNumber: d.ReferenceNumber,
		Amount:          d.Amount,
		BalanceAfter:    d.BalanceAfter,
		ExternalID:      d.ExternalID,
		LineNumber:      d.LineNumber,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStatementLine converts a model BankStatementLine to a domain BankStatementLine
func ToDomainStatementLine(m models.BankStatementLine) domain.BankStatementLine {
	return domain.BankStatementLine{
		LineID:          m.LineID,
		StatementID:     m.StatementID,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		ReferenceNumber: m.ReferenceNumber,
		Amount:          m.Amount,
		BalanceAfter:    m.BalanceAfter,
		ExternalID:      m.ExternalID,
		LineNumber:      m.LineNumber,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStatementSlice converts a slice of model statements to domain statements
func ToDomainStatementSlice(ms []models.BankStatement) []domain.BankStatement {
	ds := make([]domain.BankStatement, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, ToDomainStatement(m))
	}
	return ds
}

// ToDomainStatementLineSlice converts a slice of model lines to domain lines
func ToDomainStatementLineSlice(ms []models.BankStatementLine) []domain.BankStatementLine {
	ds := make([]domain.BankStatementLine, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, ToDomainStatementLine(m))
	}
	return ds
}
