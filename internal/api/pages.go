package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"character-chat-demo/backend/internal/catalog"
	"character-chat-demo/backend/internal/models"
	"character-chat-demo/backend/internal/service"
	"character-chat-demo/backend/internal/storage"
)

// PageController renders the chat interface
type PageController struct {
	catalog *catalog.Catalog
	avatars *storage.AvatarResolver
	chat    *service.ChatService
}

// NewPageController creates a new page controller
func NewPageController(cat *catalog.Catalog, avatars *storage.AvatarResolver, chat *service.ChatService) *PageController {
	return &PageController{catalog: cat, avatars: avatars, chat: chat}
}

// Index handles GET /. It assigns a user identifier on first visit and
// renders the character list with resolved avatar URLs plus the user's
// grouped conversation threads. Characters whose avatar cannot be resolved
// render without one.
func (ct *PageController) Index(c *gin.Context) {
	userID := EnsureUserID(c)
	ctx := c.Request.Context()

	characters := make([]models.CharacterView, 0, len(ct.catalog.Characters()))
	for _, ch := range ct.catalog.Characters() {
		characters = append(characters, models.CharacterView{
			Character: ch,
			AvatarURL: ct.avatars.URL(ctx, ch.Avatar),
		})
	}

	threads := ct.chat.Threads(ctx, userID)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"characters": characters,
		"threads":    threads,
	})
}
