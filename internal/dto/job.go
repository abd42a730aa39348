package dto

import (
	"time"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
)

// AutoMatchJobResponse is the pollable representation of an auto-match run.
type AutoMatchJobResponse struct {
	JobID            string     `json:"jobID"`
	ReconciliationID string     `json:"reconciliationID"`
	Status           string     `json:"status"`
	LinesProcessed   int        `json:"linesProcessed"`
	LinesMatched     int        `json:"linesMatched"`
	LinesAmbiguous   int        `json:"linesAmbiguous"`
	LinesUnmatched   int        `json:"linesUnmatched"`
	LinesFailed      int        `json:"linesFailed"`
	FailureDetail    string     `json:"failureDetail,omitempty"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	FinishedAt       *time.Time `json:"finishedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// ToAutoMatchJobResponse maps a domain job to its API representation.
func ToAutoMatchJobResponse(j *domain.AutoMatchJob) AutoMatchJobResponse {
	return AutoMatchJobResponse{
		JobID:            j.JobID,
		ReconciliationID: j.ReconciliationID,
		Status:           string(j.Status),
		LinesProcessed:   j.LinesProcessed,
		LinesMatched:     j.LinesMatched,
		LinesAmbiguous:   j.LinesAmbiguous,
		LinesUnmatched:   j.LinesUnmatched,
		LinesFailed:      j.LinesFailed,
		FailureDetail:    j.FailureDetail,
		StartedAt:        j.StartedAt,
		FinishedAt:       j.FinishedAt,
		CreatedAt:        j.CreatedAt,
	}
}
