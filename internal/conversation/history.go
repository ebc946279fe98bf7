package conversation

import "time"

// Turn roles as stored in the session transcript.
const (
	RoleCustomer = "customer"
	RoleBot      = "bot"
)

// Turn is one message exchanged by either party in a simulated conversation.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Attachment is a transient per-send binary payload. Data carries the base64
// form the widget produced, optionally as a data: URL.
type Attachment struct {
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
	Name     string `json:"name"`
}

// DefaultHistoryWindow is how many trailing turns are replayed to the model
// when no explicit window size is configured.
const DefaultHistoryWindow = 8

// WindowHistory maps the most recent size turns to the role-tagged shape the
// model call expects, oldest first. A size of zero or less falls back to
// DefaultHistoryWindow. The input is never mutated and bot turns are
// normalized to the assistant role tag.
func WindowHistory(turns []Turn, size int) []ChatMessage {
	if size <= 0 {
		size = DefaultHistoryWindow
	}
	start := 0
	if len(turns) > size {
		start = len(turns) - size
	}

	window := make([]ChatMessage, 0, len(turns)-start)
	for _, t := range turns[start:] {
		role := ChatRoleUser
		if t.Role == RoleBot {
			role = ChatRoleAssistant
		}
		window = append(window, ChatMessage{Role: role, Content: t.Content})
	}
	return window
}
