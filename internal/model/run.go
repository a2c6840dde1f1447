package model

import (
	"encoding/json"
	"time"
)

// RunStatus tracks the lifecycle of a persisted enrichment run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a persisted enrichment invocation: the subject that was looked
// up and the result that came back, stored as JSON blobs so the store
// stays agnostic of schema evolution.
type Run struct {
	ID        string          `json:"id"`
	Kind      EntityKind      `json:"kind"`
	Subject   json.RawMessage `json:"subject"`
	Result    json.RawMessage `json:"result,omitempty"`
	Score     int             `json:"score"`
	Status    RunStatus       `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
