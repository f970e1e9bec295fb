package storage

import (
	"context"
	"time"

	"character-chat-demo/backend/pkg/cache"
	"character-chat-demo/backend/pkg/logger"
)

// AvatarResolver maps avatar storage keys to time-limited retrieval URLs.
// Presigned URLs are cached for less than their validity window so a cached
// URL is always still usable when served.
type AvatarResolver struct {
	client *Client
	cache  *cache.Cache
	expiry time.Duration
	log    *logger.Logger
}

// NewAvatarResolver creates a resolver. client may be nil (storage
// unconfigured) and urlCache may be nil (caching disabled).
func NewAvatarResolver(client *Client, urlCache *cache.Cache, expiry time.Duration, log *logger.Logger) *AvatarResolver {
	return &AvatarResolver{
		client: client,
		cache:  urlCache,
		expiry: expiry,
		log:    log,
	}
}

// URL resolves key to a presigned retrieval URL. Returns "" when storage is
// unavailable or presigning fails; callers render characters without an
// avatar in that case.
func (r *AvatarResolver) URL(ctx context.Context, key string) string {
	if r.client == nil || key == "" {
		return ""
	}

	cacheKey := "avatar_url:" + key
	if url, ok := r.cache.Get(ctx, cacheKey); ok {
		return url
	}

	url, err := r.client.PresignGet(ctx, key, r.expiry)
	if err != nil {
		r.log.Warn("avatar presign failed", "key", key, "error", err.Error())
		return ""
	}

	// Cache for half the presign window so served URLs keep a usable lifetime
	r.cache.Set(ctx, cacheKey, url, r.expiry/2)
	return url
}
