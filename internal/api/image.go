package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"character-chat-demo/backend/internal/catalog"
	"character-chat-demo/backend/internal/models"
	apperrors "character-chat-demo/backend/pkg/errors"
)

// ImageStore is the slice of the storage client the image endpoint needs
type ImageStore interface {
	ObjectExists(ctx context.Context, key string) (bool, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// ImageController serves time-limited character image URLs
type ImageController struct {
	store  ImageStore
	expiry time.Duration
}

// NewImageController creates a new image controller. store is nil when
// object storage is unconfigured.
func NewImageController(store ImageStore, expiry time.Duration) *ImageController {
	return &ImageController{store: store, expiry: expiry}
}

// GetCharacterImage handles POST /get_character_image. Unlike the chat
// endpoint this one does validate: 400 for a missing character name, 404
// when no image object exists, 500 when storage is unconfigured or failing.
func (ct *ImageController) GetCharacterImage(c *gin.Context) {
	var req models.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Character == "" {
		c.Error(apperrors.NewBadRequestError("CHARACTER_REQUIRED", "character is required"))
		return
	}

	if ct.store == nil {
		c.Error(apperrors.NewInternalServerError("STORAGE_NOT_CONFIGURED", "object storage is not configured"))
		return
	}

	key := catalog.ImageKey(req.Character)

	exists, err := ct.store.ObjectExists(c.Request.Context(), key)
	if err != nil {
		c.Error(apperrors.NewInternalServerError("STORAGE_ERROR", "failed to check character image"))
		return
	}
	if !exists {
		c.Error(apperrors.NewNotFoundError("IMAGE_NOT_FOUND", "no image found for character "+req.Character))
		return
	}

	url, err := ct.store.PresignGet(c.Request.Context(), key, ct.expiry)
	if err != nil {
		c.Error(apperrors.NewInternalServerError("STORAGE_ERROR", "failed to sign character image URL"))
		return
	}

	c.JSON(http.StatusOK, models.ImageResponse{ImageURL: url})
}
