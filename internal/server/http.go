package server

import (
	"time"

	"github.com/go-playground/validator/v10"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/observability"
	"resumelens/internal/service"
)

// AnalyzeRequest is the JSON body of POST /analyze. Exactly one of Text and
// ObjectKey is required.
type AnalyzeRequest struct {
	Text      string `json:"text" validate:"required_without=ObjectKey,excluded_with=ObjectKey"`
	ObjectKey string `json:"objectKey" validate:"omitempty,max=1024"`
	MIMEType  string `json:"mimeType" validate:"omitempty,max=255"`
	FileName  string `json:"fileName" validate:"omitempty,max=255"`
	Role      string `json:"role" validate:"omitempty,max=120"`
	Category  string `json:"category" validate:"omitempty,max=120"`
	// Save defaults to true.
	Save *bool `json:"save"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Server is the HTTP front end of the analysis service.
type Server struct {
	Host    string
	Port    string
	Version string

	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	service   *service.Service
	om        *observability.ObservabilityManager
	validator *validator.Validate
	Logger    *errors.Logger
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

// ConfigFrom maps the application config onto a ServerConfig.
func ConfigFrom(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
}

// NewServer creates a Server. om may be nil.
func NewServer(cfg ServerConfig, svc *service.Service, om *observability.ObservabilityManager, logger *errors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		service:        svc,
		om:             om,
		validator:      validator.New(),
		Logger:         logger,
	}
}
