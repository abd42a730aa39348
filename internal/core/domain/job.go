package domain

import "time"

// AutoMatchJobStatus is the pollable state of a queued auto-match run.
type AutoMatchJobStatus string

const (
	JobPending   AutoMatchJobStatus = "PENDING"
	JobRunning   AutoMatchJobStatus = "RUNNING"
	JobCompleted AutoMatchJobStatus = "COMPLETED"
	JobFailed    AutoMatchJobStatus = "FAILED"
)

// AutoMatchJob is the handle for one asynchronous auto-match run over a
// reconciliation. There is no cancellation: a reopened or deleted
// reconciliation degrades the remaining per-line steps to no-ops instead.
type AutoMatchJob struct {
	JobID            string             `json:"jobID"` // Primary Key (e.g., UUID)
	CompanyID        string             `json:"companyID"`
	ReconciliationID string             `json:"reconciliationID"`
	Status           AutoMatchJobStatus `json:"status"`
	LinesProcessed   int                `json:"linesProcessed"`
	LinesMatched     int                `json:"linesMatched"`
	LinesAmbiguous   int                `json:"linesAmbiguous"`
	LinesUnmatched   int                `json:"linesUnmatched"`
	LinesFailed      int                `json:"linesFailed"`
	FailureDetail    string             `json:"failureDetail,omitempty"` // aggregated per-line errors
	StartedAt        *time.Time         `json:"startedAt,omitempty"`
	FinishedAt       *time.Time         `json:"finishedAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	CreatedBy        string             `json:"createdBy"`
}
