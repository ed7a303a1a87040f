package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spaceweather-backend/internal/models"
)

// ChatModel is the hosted model boundary: send the full history plus one new
// user message, get the raw reply text back.
type ChatModel interface {
	SendMessage(ctx context.Context, history []models.HistoryEntry, message string) (string, error)
}

// Notifier pushes session updates to whoever renders the conversation.
type Notifier interface {
	Notify(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage)
}

// Session owns one conversation: the provider-facing history and the
// transcript shown to the user. At most one message is processed at a time.
type Session struct {
	mu           sync.Mutex
	id           uuid.UUID
	state        models.SessionState
	history      []models.HistoryEntry
	transcript   []models.Turn
	createdAt    time.Time
	lastActiveAt time.Time
}

// NewSession seeds the history with the persona and canned introduction and
// shows the introduction as the only assistant message.
func NewSession(id uuid.UUID) *Session {
	intro, err := ParseReply(introReply)
	if err != nil {
		panic("invalid built-in introduction: " + err.Error())
	}

	now := time.Now().UTC()
	return &Session{
		id:      id,
		state:   models.StateAwaitingInput,
		history: seedHistory(),
		transcript: []models.Turn{{
			Role:      models.RoleAssistant,
			Content:   intro.AnswerText,
			CreatedAt: now,
		}},
		createdAt:    now,
		lastActiveAt: now,
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

// Snapshot returns a copy of the session safe to serialize.
func (s *Session) Snapshot() *models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := make([]models.Turn, len(s.transcript))
	copy(transcript, s.transcript)

	return &models.SessionSnapshot{
		ID:            s.id,
		State:         s.state,
		Transcript:    transcript,
		HistoryLength: len(s.history),
		CreatedAt:     s.createdAt,
		LastActiveAt:  s.lastActiveAt,
	}
}

// History returns a copy of the provider-facing history.
func (s *Session) History() []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLocked()
}

func (s *Session) historyLocked() []models.HistoryEntry {
	history := make([]models.HistoryEntry, len(s.history))
	copy(history, s.history)
	return history
}

func (s *Session) idleSince(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == models.StateProcessing {
		return 0, false
	}
	return now.Sub(s.lastActiveAt), true
}

// begin records the user's message and moves the session to Processing.
func (s *Session) begin(text string) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.StateProcessing {
		return nil, ErrSessionBusy
	}

	now := time.Now().UTC()
	s.transcript = append(s.transcript, models.Turn{
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: now,
	})
	s.state = models.StateProcessing
	s.lastActiveAt = now

	return s.historyLocked(), nil
}

// finish commits a completed exchange, if any, and returns to AwaitingInput.
func (s *Session) finish(text string, outcome *models.TurnOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if outcome.Committed {
		var followupText *string
		if outcome.Reply != nil {
			followupText = followup(outcome.Reply)
		}
		s.transcript = append(s.transcript, models.Turn{
			Role:              models.RoleAssistant,
			Content:           outcome.Display,
			SuggestedFollowup: followupText,
			CreatedAt:         now,
		})
		s.history = append(s.history,
			textEntry(models.RoleUser, text),
			textEntry(models.RoleModel, outcome.Display),
		)
	}
	s.state = models.StateAwaitingInput
	s.lastActiveAt = now
}

// Controller runs request/response cycles against a ChatModel.
type Controller struct {
	model    ChatModel
	notifier Notifier
}

func NewController(model ChatModel, notifier Notifier) *Controller {
	return &Controller{model: model, notifier: notifier}
}

// Submit processes one user message to completion. Errors are returned only
// for rejected submissions (empty text, session busy); every model-side
// failure is reported through the outcome and leaves the session ready for
// the next message.
func (c *Controller) Submit(ctx context.Context, s *Session, text string) (*models.TurnOutcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	history, err := s.begin(text)
	if err != nil {
		return nil, err
	}
	c.publishState(ctx, s.id, models.StateProcessing)

	// The model call is not cancellable once issued.
	raw, callErr := c.model.SendMessage(context.WithoutCancel(ctx), history, text)
	outcome := resolveOutcome(s.id, raw, callErr)

	s.finish(text, outcome)

	c.publishState(ctx, s.id, models.StateAwaitingInput)
	c.publish(ctx, s.id, models.WSMessage{
		Type:    "turn_completed",
		Payload: models.TurnCompletedEvent{SessionID: s.id, Outcome: outcome},
	})

	return outcome, nil
}

func resolveOutcome(sessionID uuid.UUID, raw string, callErr error) *models.TurnOutcome {
	if callErr != nil {
		detail := callErr.Error()
		if isSafetyBlock(callErr) {
			slog.Info("model refused message on safety grounds", "session_id", sessionID, "error", detail)
			return &models.TurnOutcome{
				Kind:    models.OutcomeSafetyBlocked,
				Display: RefusalText,
				Detail:  &detail,
			}
		}

		// Provider failures are answered with the canned reply so the
		// conversation keeps going; the cause stays visible in Kind/Detail.
		slog.Warn("model call failed, answering with canned reply", "session_id", sessionID, "error", detail)
		reply := cannedNotUnderstood()
		return &models.TurnOutcome{
			Kind:      models.OutcomeProviderError,
			Display:   DisplayText(reply),
			Committed: true,
			Reply:     reply,
			Detail:    &detail,
		}
	}

	reply, err := ParseReply(raw)
	if err != nil {
		var malformed *MalformedJSONError
		errors.As(err, &malformed)
		detail := malformed.Err.Error()
		slog.Warn("model reply is not valid JSON", "session_id", sessionID, "error", detail, "raw", raw)
		return &models.TurnOutcome{
			Kind:    models.OutcomeMalformedReply,
			Display: malformedReplyPrefix + detail + "\n\n" + malformed.Raw,
			RawText: &malformed.Raw,
			Detail:  &detail,
		}
	}

	return &models.TurnOutcome{
		Kind:      models.OutcomeReply,
		Display:   DisplayText(reply),
		Committed: true,
		Reply:     reply,
	}
}

// isSafetyBlock reports whether a provider error is a content-policy refusal.
func isSafetyBlock(err error) bool {
	var blocked *SafetyBlockedError
	if errors.As(err, &blocked) {
		return true
	}
	return strings.Contains(err.Error(), "Blocked due to safety")
}

func (c *Controller) publishState(ctx context.Context, id uuid.UUID, state models.SessionState) {
	c.publish(ctx, id, models.WSMessage{
		Type:    "status_update",
		Payload: models.StatusUpdate{SessionID: id, State: state},
	})
}

func (c *Controller) publish(ctx context.Context, id uuid.UUID, msg models.WSMessage) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(context.WithoutCancel(ctx), id, msg)
}
