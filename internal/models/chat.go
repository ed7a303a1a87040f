package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleModel     = "model"
)

// Turn is one message in the displayed transcript.
type Turn struct {
	Role              string    `json:"role"` // "user" or "assistant"
	Content           string    `json:"content"`
	SuggestedFollowup *string   `json:"suggested_followup,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// HistoryPart is a single text part in the provider chat-history format.
type HistoryPart struct {
	Text string `json:"text"`
}

// HistoryEntry is one provider-facing turn. Role is "user" or "model".
type HistoryEntry struct {
	Role  string        `json:"role"`
	Parts []HistoryPart `json:"parts"`
}

// StructuredReply is the JSON contract the model must answer with.
type StructuredReply struct {
	Language          string  `json:"language"` // "ar" | "en"
	AnswerText        string  `json:"answer_text"`
	SuggestedFollowup *string `json:"suggested_followup"`
}

// ChatRequest is the payload sent to the messages endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned after a submitted message has been processed.
type ChatResponse struct {
	Outcome *TurnOutcome     `json:"outcome"`
	Session *SessionSnapshot `json:"session"`
}

// UIStrings are the fixed labels a chat page renders around the transcript.
type UIStrings struct {
	Title            string `json:"title"`
	InputPlaceholder string `json:"input_placeholder"`
	ThinkingLabel    string `json:"thinking_label"`
}
