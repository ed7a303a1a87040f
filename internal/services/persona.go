package services

import "spaceweather-backend/internal/models"

const (
	// RefusalText is shown when the provider blocks an exchange on safety grounds.
	RefusalText = "أعتذر، لا أستطيع الإجابة على هذا السؤال. يرجى طرح سؤال آخر."

	// NotUnderstoodText is the canned reply used when the provider call fails.
	NotUnderstoodText = "لم أفهم سؤالك، هل يمكنك المحاولة مرة أخرى؟"

	// NoAnswerText replaces a reply that decoded without answer_text.
	NoAnswerText = "لم يتم العثور على إجابة."

	malformedReplyPrefix = "حدث خطأ في استجابة النموذج: "
)

const systemInstruction = `You are a friendly bilingual kids' tutor about space weather (solar flares, solar wind, CMEs, auroras).
- Audience: children ages 7-14.
- Language: detect user input language (Arabic or English) and reply in the same.
- You can understand and respond in Egyptian Arabic dialect. For example, if the user says "اه", you should understand it as "نعم" or "ايوه".
- Explain with 2-4 bullet points or a tiny analogy.
- End with one friendly follow-up question unless user asks for "no questions".
- Do NOT ask for personal data or unsafe experiments.
- Out of scope (e.g. astrology): politely explain it's not science and redirect.
- IMPORTANT: If the user's question is not understandable or is out of context, respond with "لم أفهم سؤالك، هل يمكنك المحاولة مرة أخرى؟". Do NOT give a generic, positive response like "يا سلام! سؤالك رائع!" in this case.
- At the very beginning of the chat, just introduce yourself and wait for the user's question. Do not provide any information until the user asks a question.

Return output as pure JSON (no markdown fences), with this schema:
{
  "language": "ar|en",
  "answer_text": "the explanation to show the child",
  "suggested_followup": "short question string or null"
}`

const introReply = `{
  "language": "ar",
  "answer_text": "أهلاً بك! أنا معلّمك الخاص في طقس الفضاء، اسألني أي شيء تريد معرفته!",
  "suggested_followup": null
}`

// DefaultUIStrings are the labels served to the chat page.
var DefaultUIStrings = models.UIStrings{
	Title:            "☀️ مُدرِّس طقس الفضاء",
	InputPlaceholder: "اسألني أي شيء عن طقس الفضاء...",
	ThinkingLabel:    "أفكر...",
}

// seedHistory returns the fixed opening of every conversation: the persona
// as a user turn followed by the canned introduction as a model turn.
func seedHistory() []models.HistoryEntry {
	return []models.HistoryEntry{
		textEntry(models.RoleUser, systemInstruction),
		textEntry(models.RoleModel, introReply),
	}
}

func textEntry(role, text string) models.HistoryEntry {
	return models.HistoryEntry{Role: role, Parts: []models.HistoryPart{{Text: text}}}
}

func cannedNotUnderstood() *models.StructuredReply {
	return &models.StructuredReply{Language: "ar", AnswerText: NotUnderstoodText}
}
