package mapping

import (
	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	"github.com/finbooks/bank_reconciliation_app/internal/models"
)

// ToModelAutoMatchJob converts a domain AutoMatchJob to a model AutoMatchJob
func ToModelAutoMatchJob(d domain.AutoMatchJob) models.AutoMatchJob {
	return models.AutoMatchJob{
		JobID:            d.JobID,
		CompanyID:        d.CompanyID,
		ReconciliationID: d.ReconciliationID,
		Status:           string(d.Status),
		LinesProcessed:   d.LinesProcessed,
		LinesMatched:     d.LinesMatched,
		LinesAmbiguous:   d.LinesAmbiguous,
		LinesUnmatched:   d.LinesUnmatched,
		LinesFailed:      d.LinesFailed,
		FailureDetail:    d.FailureDetail,
		StartedAt:        d.StartedAt,
		FinishedAt:       d.FinishedAt,
		CreatedAt:        d.CreatedAt,
		CreatedBy:        d.CreatedBy,
	}
}

// ToDomainAutoMatchJob converts a model AutoMatchJob to a domain AutoMatchJob
func ToDomainAutoMatchJob(m models.AutoMatchJob) domain.AutoMatchJob {
	return domain.AutoMatchJob{
		JobID:            m.JobID,
		CompanyID:        m.CompanyID,
		ReconciliationID: m.ReconciliationID,
		Status:           domain.AutoMatchJobStatus(m.Status),
		LinesProcessed:   m.LinesProcessed,
		LinesMatched:     m.LinesMatched,
		LinesAmbiguous:   m.LinesAmbiguous,
		LinesUnmatched:   m.LinesUnmatched,
		LinesFailed:      m.LinesFailed,
		FailureDetail:    m.FailureDetail,
		StartedAt:        m.StartedAt,
		FinishedAt:       m.FinishedAt,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}
