package handlers

import (
	"honeypot-lab/internal/config"
	"honeypot-lab/internal/domain/services"
	"honeypot-lab/internal/infrastructure/cache"
	"honeypot-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Honeypot *HoneypotHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Config     *config.Config
	Normalizer *services.Normalizer
	Analyzer   *services.Analyzer
	Reporter   *services.Reporter
	Cache      *cache.RedisCache
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Config, deps.Cache, deps.Logger),
		Honeypot: NewHoneypotHandler(deps.Normalizer, deps.Analyzer, deps.Reporter, deps.Logger),
	}
}
