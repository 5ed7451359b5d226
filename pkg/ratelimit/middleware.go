package ratelimit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// Config holds rate limiting configuration for the verification endpoints.
// Verification codes are expensive to deliver, so the limits here sit in
// front of the service's own resend throttle and keep bulk abuse off it.
type Config struct {
	// Per-IP rate limiting
	PerIPEnabled    bool
	PerIPCapacity   int
	PerIPRefillRate float64 // requests per second

	// Per-account rate limiting (for authenticated requests)
	PerAccountEnabled    bool
	PerAccountCapacity   int
	PerAccountRefillRate float64

	// Endpoint-specific limits keyed by "METHOD /path"
	EndpointLimits map[string]EndpointLimit

	// How long to keep inactive buckets in memory
	BucketTTL time.Duration
}

// EndpointLimit defines rate limits for a specific endpoint
type EndpointLimit struct {
	Capacity   int
	RefillRate float64
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		// Per-IP: 30 requests per minute
		PerIPEnabled:    true,
		PerIPCapacity:   30,
		PerIPRefillRate: 30.0 / 60.0,

		// Per-account: 60 requests per minute
		PerAccountEnabled:    true,
		PerAccountCapacity:   60,
		PerAccountRefillRate: 60.0 / 60.0,

		BucketTTL: 1 * time.Hour,

		// Endpoint limits are configured by the caller based on route layout,
		// e.g. "POST /phone/request": {Capacity: 5, RefillRate: 5.0 / 60.0}
		EndpointLimits: make(map[string]EndpointLimit),
	}
}

// Middleware holds the rate limiting middleware state
type Middleware struct {
	config           *Config
	ipLimiter        *RateLimiter
	accountLimiter   *RateLimiter
	endpointLimiters map[string]*RateLimiter
}

// NewMiddleware creates a new rate limiting middleware
func NewMiddleware(config *Config) *Middleware {
	if config == nil {
		config = DefaultConfig()
	}

	m := &Middleware{
		config:           config,
		endpointLimiters: make(map[string]*RateLimiter),
	}

	if config.PerIPEnabled {
		m.ipLimiter = NewRateLimiter(config.PerIPCapacity, config.PerIPRefillRate, config.BucketTTL)
	}
	if config.PerAccountEnabled {
		m.accountLimiter = NewRateLimiter(config.PerAccountCapacity, config.PerAccountRefillRate, config.BucketTTL)
	}
	for endpoint, limit := range config.EndpointLimits {
		m.endpointLimiters[endpoint] = NewRateLimiter(limit.Capacity, limit.RefillRate, config.BucketTTL)
	}

	return m
}

// Handler returns the rate limiting middleware handler
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)
		if m.config.PerIPEnabled && ip != "" && !m.ipLimiter.Allow(ip) {
			m.rateLimitExceeded(w, r, "ip")
			return
		}

		accountID := getAccountID(r)
		if m.config.PerAccountEnabled && accountID != "" && !m.accountLimiter.Allow(accountID) {
			m.rateLimitExceeded(w, r, "account")
			return
		}

		endpointKey := r.Method + " " + r.URL.Path
		if limiter, exists := m.endpointLimiters[endpointKey]; exists {
			if !limiter.Allow(ip + ":" + endpointKey) {
				m.rateLimitExceeded(w, r, "endpoint")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) rateLimitExceeded(w http.ResponseWriter, r *http.Request, limitType string) {
	slog.Warn("Rate limit exceeded",
		"type", limitType,
		"ip", getClientIP(r),
		"path", r.URL.Path,
		"method", r.Method,
	)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)

	fmt.Fprintf(w, `{"error": "rate_limit_exceeded", "type": %q}`, limitType)
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "IP:port"
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}

	return addr
}

// getAccountID extracts the account ID from JWT claims in the request context
func getAccountID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || claims == nil {
		return ""
	}

	if accountID, ok := claims["account_id"].(string); ok && accountID != "" {
		return accountID
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}

	return ""
}
