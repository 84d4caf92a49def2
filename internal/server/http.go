package server

import (
	"time"

	"resumescore/internal/config"
	"resumescore/internal/engine"
	resumescoreErrors "resumescore/internal/errors"
	"resumescore/internal/match"
	"resumescore/internal/types"

	"github.com/go-playground/validator/v10"
)

// ScoreRequest represents the request body for the score endpoint.
// Facts carries the parsed document; every field inside it is optional.
type ScoreRequest struct {
	Facts *types.DocumentFacts `json:"facts" validate:"required"`
	Role  string               `json:"role"`
	Level string               `json:"level"`
}

// CriterionRequest represents the request body for the criterion endpoint
type CriterionRequest struct {
	Facts     *types.DocumentFacts `json:"facts" validate:"required"`
	Role      string               `json:"role"`
	Level     string               `json:"level"`
	Criterion string               `json:"criterion" validate:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Scoring pipeline
	Engine  *engine.Engine
	Store   *config.ReferenceStore
	Watcher *config.ReferenceWatcher
	Oracle  match.Oracle

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Request body validation
	validate *validator.Validate

	// Logger
	Logger *resumescoreErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// Pipeline bundles the scoring components the server serves requests with.
type Pipeline struct {
	Engine  *engine.Engine
	Store   *config.ReferenceStore
	Watcher *config.ReferenceWatcher
	Oracle  match.Oracle
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, pipeline Pipeline, logger *resumescoreErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		Engine:         pipeline.Engine,
		Store:          pipeline.Store,
		Watcher:        pipeline.Watcher,
		Oracle:         pipeline.Oracle,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		validate:       validator.New(),
		Logger:         logger,
	}
}
