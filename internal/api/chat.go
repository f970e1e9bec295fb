package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"character-chat-demo/backend/internal/models"
	"character-chat-demo/backend/internal/service"
)

// ChatController handles the chat endpoint
type ChatController struct {
	chat *service.ChatService
}

// NewChatController creates a new chat controller
func NewChatController(chat *service.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

// Chat handles POST /chat. It always answers 200: provider failures are
// encoded into the reply text, an unknown character falls back to the first
// catalog entry, and a missing body simply yields defaults.
func (ct *ChatController) Chat(c *gin.Context) {
	var req models.ChatRequest
	// No required fields; a malformed body degrades to zero values
	_ = c.ShouldBindJSON(&req)

	userID := UserIDFromCookie(c)
	reply := ct.chat.HandleTurn(c.Request.Context(), userID, req.Character, req.ChatID, req.Message)

	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}
