package models

import "time"

// AutoMatchJob represents one queued auto-match run row.
type AutoMatchJob struct {
	JobID            string     `json:"jobID"` // Primary Key (UUID)
	CompanyID        string     `json:"companyID"`
	ReconciliationID string     `json:"reconciliationID"`
	Status           string     `json:"status"` // PENDING | RUNNING | COMPLETED | FAILED
	LinesProcessed   int        `json:"linesProcessed"`
	LinesMatched     int        `json:"linesMatched"`
	LinesAmbiguous   int        `json:"linesAmbiguous"`
	LinesUnmatched   int        `json:"linesUnmatched"`
	LinesFailed      int        `json:"linesFailed"`
	FailureDetail    string     `json:"failureDetail"`
	StartedAt        *time.Time `json:"startedAt"`
	FinishedAt       *time.Time `json:"finishedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	CreatedBy        string     `json:"createdBy"`
}
