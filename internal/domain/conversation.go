package domain

import (
	"strings"
	"time"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is a single message in a chat session. The full ordered
// transcript is resent by the client on every turn; the server holds no
// authoritative copy of an in-progress conversation.
type ConversationTurn struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// SessionState tracks where a chat session is in the qualification flow.
type SessionState string

const (
	// SessionIdle means no turns have been exchanged yet.
	SessionIdle SessionState = "idle"
	// SessionActive means turns are being exchanged and no contact flag is raised.
	SessionActive SessionState = "active"
	// SessionAwaitingContact means the engine asked the UI to collect contact info.
	SessionAwaitingContact SessionState = "awaiting_contact"
	// SessionClosed means contact details were submitted and a lead was created.
	SessionClosed SessionState = "closed"
)

// Transcript renders conversation turns as alternating "User:"/"Assistant:"
// lines, the format the extraction prompt expects.
func Transcript(turns []ConversationTurn) string {
	var sb strings.Builder
	for i, t := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch t.Role {
		case RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(t.Content)
	}
	return sb.String()
}
