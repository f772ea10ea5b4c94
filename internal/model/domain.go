package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RelayRecord is the persisted trace of one dispatched job. ExecutedAt is
// the descriptor's own execution timestamp, not a database default, so the
// stored history matches what the rate limiter observed.
type RelayRecord struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             *int            `json:"user_id"`
	ExecutedAt         time.Time       `json:"executed_at"`
	Verb               string          `json:"verb"`
	Hostname           string          `json:"hostname"`
	Path               string          `json:"path"`
	Arguments          json.RawMessage `json:"arguments"`
	JSONBody           *string         `json:"json_body"` // redacted before storage
	ResponseStatusCode *int            `json:"response_status_code"`
	ResponseSize       *int64          `json:"response_size"`
	DurationMs         *int            `json:"duration_ms"`
}
