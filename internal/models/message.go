package models

// Role identifies who produced a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MaxHistoryMessages bounds a user's persisted chat history. After every
// append batch the history is truncated from the front, so the oldest
// messages are dropped first.
const MaxHistoryMessages = 50

// DefaultChatID groups messages sent without an explicit thread identifier
const DefaultChatID = "default"

// ChatMessage is one turn of a conversation. Character is only meaningful on
// assistant turns. ChatID groups messages into one logical thread; a message
// without one is kept in the raw history but excluded from grouping.
type ChatMessage struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Character string `json:"character,omitempty"`
	ChatID    string `json:"chatId,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ChatHistory is the ordered sequence of messages belonging to one user
type ChatHistory []ChatMessage

// Cap returns the history truncated to its most recent limit entries,
// preserving relative order. The original slice is not modified.
func (h ChatHistory) Cap(limit int) ChatHistory {
	if limit <= 0 || len(h) <= limit {
		return h
	}
	return h[len(h)-limit:]
}

// ConversationThread is a derived view over a ChatHistory: the subsequence of
// messages sharing one chatId, in original order. Rebuilt on every read and
// never persisted.
type ConversationThread struct {
	ID           string        `json:"id"`
	Character    string        `json:"character"`
	Messages     []ChatMessage `json:"messages"`
	LastActivity int64         `json:"last_activity"`
}
