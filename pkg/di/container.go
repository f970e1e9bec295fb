package di

import (
	"context"
	"fmt"

	"character-chat-demo/backend/internal/catalog"
	"character-chat-demo/backend/internal/history"
	"character-chat-demo/backend/internal/llm"
	"character-chat-demo/backend/internal/service"
	"character-chat-demo/backend/internal/storage"
	"character-chat-demo/backend/pkg/cache"
	"character-chat-demo/backend/pkg/config"
	"character-chat-demo/backend/pkg/logger"
)

// Container holds all the dependencies for the application
type Container struct {
	Config  *config.Config
	Logger  *logger.Logger
	Catalog *catalog.Catalog
	Storage *storage.Client
	Cache   *cache.Cache
	History *history.Store
	Avatars *storage.AvatarResolver
	LLM     *llm.Client
	Chat    *service.ChatService
}

// New creates a new dependency injection container. Storage is optional:
// when no bucket is configured the storage client is nil and every
// dependent component degrades to its stateless behavior.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("loading character catalog: %w", err)
	}

	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initializing object storage: %w", err)
	}
	if store == nil {
		log.Warn("object storage not configured, running stateless")
	}

	urlCache := cache.New(cfg.Redis.Addr, log)

	// Avoid a typed-nil inside the interface when storage is unconfigured
	var objects history.ObjectStore
	if store != nil {
		objects = store
	}
	historyStore := history.NewStore(objects, log)

	avatars := storage.NewAvatarResolver(store, urlCache, cfg.Storage.PresignExpiry, log)

	completions := llm.New(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		DemoMode:    cfg.LLM.DemoMode,
		Timeout:     cfg.LLM.Timeout,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
	}, log)

	chat := service.NewChatService(cat, historyStore, completions, log)

	return &Container{
		Config:  cfg,
		Logger:  log,
		Catalog: cat,
		Storage: store,
		Cache:   urlCache,
		History: historyStore,
		Avatars: avatars,
		LLM:     completions,
		Chat:    chat,
	}, nil
}
