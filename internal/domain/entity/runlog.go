package entity

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of one orchestrator invocation.
type RunStatus string

const (
	RunStarted   RunStatus = "started"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunLog is the append-only audit record for one pipeline cycle.
type RunLog struct {
	ID         uuid.UUID  `json:"id"`
	Status     RunStatus  `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`

	CriteriaChecked      int `json:"criteria_checked"`
	BatchesFetched       int `json:"batches_fetched"`
	ListingsFound        int `json:"listings_found"`
	NotificationsCreated int `json:"notifications_created"`

	ErrorDetail string `json:"error_detail"`
}
