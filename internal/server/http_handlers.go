package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"resumelens/internal/errors"
)

const healthCheckTimeout = 5 * time.Second

// healthHandler reports the state of the role catalog, store and cache.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	components, err := s.service.Health(ctx)
	response := map[string]any{
		"status":     "healthy",
		"service":    "resumelens",
		"version":    s.Version,
		"components": components,
	}

	status := http.StatusOK
	if err != nil {
		s.Logger.LogError(err, "Health check failed")
		response["status"] = "degraded"
		response["error"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumelens",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"tls_enabled":            s.TLSConfig.Enabled(),
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.service.HasStore() {
		if stats, err := s.service.Stats(r.Context()); err != nil {
			s.Logger.LogError(err, "Failed to collect analysis stats")
			response["analyses"] = map[string]any{"error": err.Error()}
		} else {
			response["analyses"] = stats
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest decodes the request body into v.
func parseJSONRequest(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return bodyError(err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func bodyError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
	}
	return fmt.Errorf("failed to read request body: %w", err)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeAppError maps err to a status and an ErrorResponse carrying its code.
func writeAppError(w http.ResponseWriter, err error) {
	response := ErrorResponse{Error: http.StatusText(statusFor(err)), Message: err.Error()}
	if appErr, ok := errors.As(err); ok {
		response.Code = appErr.Code
		response.Message = appErr.Message
	}
	writeJSON(w, statusFor(err), response)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}
