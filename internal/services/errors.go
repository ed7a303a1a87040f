package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrSessionBusy     = errors.New("session is still processing the previous message")
	ErrSessionNotFound = errors.New("session not found")
)

// MalformedJSONError is returned when the model reply cannot be decoded.
// Raw holds the text exactly as the model returned it.
type MalformedJSONError struct {
	Raw string
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed model reply: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

// SafetyBlockedError means the provider refused the exchange on content policy.
type SafetyBlockedError struct {
	Reason string
	Err    error
}

func (e *SafetyBlockedError) Error() string {
	if e.Reason != "" {
		return "Blocked due to safety: " + e.Reason
	}
	return "Blocked due to safety"
}

func (e *SafetyBlockedError) Unwrap() error { return e.Err }

// ProviderError covers every other failure of the model call (network, quota, ...).
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("Gemini API error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
