package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	StateAwaitingInput SessionState = "awaiting_input"
	StateProcessing    SessionState = "processing"
)

type OutcomeKind string

const (
	OutcomeReply          OutcomeKind = "reply"
	OutcomeProviderError  OutcomeKind = "provider_error"
	OutcomeSafetyBlocked  OutcomeKind = "safety_blocked"
	OutcomeMalformedReply OutcomeKind = "malformed_reply"
)

// TurnOutcome describes what the user is shown after one submission.
type TurnOutcome struct {
	Kind      OutcomeKind      `json:"kind"`
	Display   string           `json:"display"`
	Committed bool             `json:"committed"` // true when the exchange was added to history
	Reply     *StructuredReply `json:"reply,omitempty"`
	RawText   *string          `json:"raw_text,omitempty"`
	Detail    *string          `json:"detail,omitempty"`
}

type SessionSnapshot struct {
	ID            uuid.UUID    `json:"session_id"`
	State         SessionState `json:"state"`
	Transcript    []Turn       `json:"transcript"`
	HistoryLength int          `json:"history_length"`
	CreatedAt     time.Time    `json:"created_at"`
	LastActiveAt  time.Time    `json:"last_active_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"` // "status_update" | "turn_completed"
	Payload interface{} `json:"payload"`
}

type StatusUpdate struct {
	SessionID uuid.UUID    `json:"session_id"`
	State     SessionState `json:"state"`
}

type TurnCompletedEvent struct {
	SessionID uuid.UUID    `json:"session_id"`
	Outcome   *TurnOutcome `json:"outcome"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
