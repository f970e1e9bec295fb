package history

import (
	"sort"
	"strings"

	"character-chat-demo/backend/internal/models"
)

// UnknownCharacter labels a thread whose character could not be resolved
const UnknownCharacter = "Unknown"

// Group partitions a flat history into conversation threads keyed by chatId
// and sanitizes them for display. It is a pure function of its inputs.
//
// Messages without a chatId are excluded from every thread (they remain in
// the raw persisted history). A thread's character is the first explicit
// per-message character seen for that chatId; if no message carries one, the
// first catalog entry's name; failing that, "Unknown". A thread's
// lastActivity is the maximum timestamp among its messages.
//
// Sanitizing trims surrounding whitespace from message contents, drops
// messages left empty, and drops threads left with no messages. Surviving
// messages keep their original order.
func Group(h models.ChatHistory, fallbackCharacter string) map[string]*models.ConversationThread {
	threads := make(map[string]*models.ConversationThread)
	explicit := make(map[string]bool)

	for _, msg := range h {
		if msg.ChatID == "" {
			continue
		}

		t, ok := threads[msg.ChatID]
		if !ok {
			character := fallbackCharacter
			if character == "" {
				character = UnknownCharacter
			}
			t = &models.ConversationThread{
				ID:        msg.ChatID,
				Character: character,
			}
			threads[msg.ChatID] = t
		}

		if msg.Character != "" && !explicit[msg.ChatID] {
			t.Character = msg.Character
			explicit[msg.ChatID] = true
		}

		t.Messages = append(t.Messages, msg)
		if msg.Timestamp > t.LastActivity {
			t.LastActivity = msg.Timestamp
		}
	}

	sanitize(threads)
	return threads
}

// sanitize cleans thread contents for display
func sanitize(threads map[string]*models.ConversationThread) {
	for id, t := range threads {
		kept := t.Messages[:0]
		for _, msg := range t.Messages {
			msg.Content = strings.TrimSpace(msg.Content)
			if msg.Content == "" {
				continue
			}
			kept = append(kept, msg)
		}
		t.Messages = kept

		if len(t.Messages) == 0 {
			delete(threads, id)
		}
	}
}

// SortedThreads flattens a thread map into a slice ordered by most recent
// activity first, for rendering.
func SortedThreads(threads map[string]*models.ConversationThread) []*models.ConversationThread {
	out := make([]*models.ConversationThread, 0, len(threads))
	for _, t := range threads {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastActivity != out[j].LastActivity {
			return out[i].LastActivity > out[j].LastActivity
		}
		return out[i].ID < out[j].ID
	})
	return out
}
