// Package service ties the catalog, history store, and completion client
// together for one chat turn.
package service

import (
	"context"
	"time"

	"character-chat-demo/backend/internal/catalog"
	"character-chat-demo/backend/internal/history"
	"character-chat-demo/backend/internal/models"
	"character-chat-demo/backend/pkg/logger"
	"character-chat-demo/backend/pkg/metrics"
)

// Completer produces the assistant reply for one user turn
type Completer interface {
	Reply(ctx context.Context, character models.Character, userMessage string) string
}

// ChatService orchestrates a single user turn
type ChatService struct {
	catalog *catalog.Catalog
	store   *history.Store
	llm     Completer
	log     *logger.Logger
	now     func() time.Time
}

// NewChatService creates the orchestrator
func NewChatService(cat *catalog.Catalog, store *history.Store, llm Completer, log *logger.Logger) *ChatService {
	return &ChatService{
		catalog: cat,
		store:   store,
		llm:     llm,
		log:     log,
		now:     time.Now,
	}
}

// HandleTurn runs one chat turn: resolve the character, load the history,
// obtain a reply, append both turns, trim, persist, return the reply.
//
// The append-and-save step never affects the returned reply. History load
// and save failures are logged and swallowed here on purpose: the product
// degrades to stateless chat rather than surfacing storage problems, and a
// lost update between two concurrent turns for the same user is accepted
// (last write wins).
func (s *ChatService) HandleTurn(ctx context.Context, userID, characterName, chatID, userMessage string) string {
	character := s.catalog.Resolve(characterName)

	chatHistory, err := s.store.Load(ctx, userID)
	if err != nil {
		s.log.Warn("history load failed, continuing with empty history",
			"user_id", userID, "error", err.Error())
	}

	reply := s.llm.Reply(ctx, character, userMessage)

	if s.store.Enabled() && userID != "" {
		s.appendAndSave(ctx, userID, character, chatID, userMessage, reply, chatHistory)
	}

	return reply
}

// appendAndSave records both turns of the exchange and persists the capped
// history. Fire and forget with respect to the caller.
func (s *ChatService) appendAndSave(ctx context.Context, userID string, character models.Character, chatID, userMessage, reply string, chatHistory models.ChatHistory) {
	if chatID == "" {
		chatID = models.DefaultChatID
	}
	now := s.now().Unix()

	chatHistory = append(chatHistory,
		models.ChatMessage{
			Role:      models.RoleUser,
			Content:   userMessage,
			ChatID:    chatID,
			Timestamp: now,
		},
		models.ChatMessage{
			Role:      models.RoleAssistant,
			Content:   reply,
			Character: character.Name,
			ChatID:    chatID,
			Timestamp: now,
		},
	)
	chatHistory = chatHistory.Cap(models.MaxHistoryMessages)

	if err := s.store.Save(ctx, userID, chatHistory); err != nil {
		metrics.HistorySaveFailures.Inc()
		s.log.Warn("history save failed, turn dropped from history",
			"user_id", userID, "error", err.Error())
	}
}

// Threads loads and groups a user's history for display
func (s *ChatService) Threads(ctx context.Context, userID string) []*models.ConversationThread {
	chatHistory, err := s.store.Load(ctx, userID)
	if err != nil {
		s.log.Warn("history load failed, rendering no threads",
			"user_id", userID, "error", err.Error())
	}
	threads := history.Group(chatHistory, s.catalog.FirstName())
	return history.SortedThreads(threads)
}
