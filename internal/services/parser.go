package services

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"spaceweather-backend/internal/models"
)

// fencedReply matches a whole reply wrapped in one markdown code fence.
// A language tag after the opening fence must be followed by whitespace.
var fencedReply = regexp.MustCompile("(?s)^```(?:[A-Za-z0-9_+-]+\\s)?\\s*(.*?)\\s*```$")

var errNotAnObject = errors.New("reply is not a JSON object")

// stripCodeFence removes a single leading/trailing fence pair when it wraps
// the entire trimmed input. Anything else is returned trimmed but intact.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fencedReply.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return trimmed
}

// ParseReply decodes the model's raw text into a StructuredReply. A JSON
// null is rejected like any other non-object reply.
func ParseReply(raw string) (*models.StructuredReply, error) {
	var reply *models.StructuredReply
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &reply); err != nil {
		return nil, &MalformedJSONError{Raw: raw, Err: err}
	}
	if reply == nil {
		return nil, &MalformedJSONError{Raw: raw, Err: errNotAnObject}
	}
	return reply, nil
}

// DisplayText builds the assistant message shown for a reply: the answer,
// then a blank line and the follow-up question when there is one.
func DisplayText(reply *models.StructuredReply) string {
	text := reply.AnswerText
	if text == "" {
		text = NoAnswerText
	}
	if f := followup(reply); f != nil {
		text += "\n\n" + *f
	}
	return text
}

func followup(reply *models.StructuredReply) *string {
	if reply.SuggestedFollowup == nil || *reply.SuggestedFollowup == "" {
		return nil
	}
	return reply.SuggestedFollowup
}
