package model

import (
	"time"

	"github.com/google/uuid"
)

// SyncRun records one import of season data from the upstream api
type SyncRun struct {
	ID         uuid.UUID `json:"id"`
	Season     int       `json:"season"`
	Races      int       `json:"races"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
