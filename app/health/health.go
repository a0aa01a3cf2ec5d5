// Package health reports whether the CLMM application can serve requests.
//
// Endpoints:
// - /health - liveness
// - /health/ready - readiness, from the database and invariant checks
// - /health/detailed - readiness plus per-pool state
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	clmmtypes "github.com/paw-chain/paw-clmm/x/clmm/types"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// checkKey is read on every database check. It never exists.
var checkKey = []byte("health/check")

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metrics   map[string]any `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// State is the part of the application the checker inspects.
type State interface {
	CheckInvariants(ctx context.Context) error
	GetAllPools(ctx context.Context) ([]clmmtypes.Pool, error)
}

// Checker performs health checks on the database and the CLMM state
type Checker struct {
	logger log.Logger
	db     dbm.DB
	state  State

	version         string
	maxResponseTime time.Duration
	detailedLimiter *rate.Limiter

	mu            sync.RWMutex
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds configuration for the health checker
type Config struct {
	// Version is reported by every check.
	Version string

	// MaxResponseTime is the slowest database read still considered healthy.
	MaxResponseTime time.Duration

	// CacheDuration is how long to cache readiness results
	CacheDuration time.Duration

	// DetailedRPS bounds /health/detailed, which scans every pool.
	DetailedRPS   float64
	DetailedBurst int
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxResponseTime: time.Second,
		CacheDuration:   5 * time.Second,
		DetailedRPS:     1,
		DetailedBurst:   5,
	}
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, db dbm.DB, state State) (*Checker, error) {
	if db == nil || state == nil {
		return nil, fmt.Errorf("database and state are required")
	}
	return &Checker{
		logger:          logger,
		db:              db,
		state:           state,
		version:         cfg.Version,
		maxResponseTime: cfg.MaxResponseTime,
		detailedLimiter: rate.NewLimiter(rate.Limit(cfg.DetailedRPS), cfg.DetailedBurst),
		cacheDuration:   cfg.CacheDuration,
	}, nil
}

// Check runs every component check. Detailed checks bypass the cache and
// include per-pool state.
func (c *Checker) Check(ctx context.Context, detailed bool) *HealthCheck {
	if !detailed {
		if cached := c.cached(); cached != nil {
			return cached
		}
	}

	health := &HealthCheck{
		Timestamp:  time.Now(),
		Version:    c.version,
		Components: map[string]ComponentHealth{
			"database":   c.checkDatabase(),
			"invariants": c.checkInvariants(ctx),
		},
	}
	if detailed {
		health.Components["pools"] = c.checkPools(ctx)
	}
	health.Status = overallStatus(health.Components)

	if !detailed {
		c.mu.Lock()
		c.lastCheck = time.Now()
		c.cachedHealth = health
		c.mu.Unlock()
	}
	return health
}

// checkDatabase verifies the database answers reads
func (c *Checker) checkDatabase() ComponentHealth {
	start := time.Now()
	_, err := c.db.Has(checkKey)
	duration := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("database read failed: %v", err),
			Timestamp: time.Now(),
		}
	}

	componentStatus := StatusHealthy
	message := "database is responsive"
	if duration > c.maxResponseTime {
		componentStatus = StatusDegraded
		message = "database response time is degraded"
	}

	return ComponentHealth{
		Status:    componentStatus,
		Message:   message,
		Timestamp: time.Now(),
		Metrics:   map[string]any{"query_time_ms": duration.Milliseconds()},
	}
}

// checkInvariants runs the CLMM invariants. A broken invariant makes the
// application unready.
func (c *Checker) checkInvariants(ctx context.Context) ComponentHealth {
	if err := c.state.CheckInvariants(ctx); err != nil {
		c.logger.Error("invariant check failed", "error", err)
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   err.Error(),
			Timestamp: time.Now(),
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "all invariants hold",
		Timestamp: time.Now(),
	}
}

// checkPools summarizes every pool
func (c *Checker) checkPools(ctx context.Context) ComponentHealth {
	pools, err := c.state.GetAllPools(ctx)
	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("listing pools failed: %v", err),
			Timestamp: time.Now(),
		}
	}

	summary := make(map[string]any, len(pools))
	for _, pool := range pools {
		summary[pool.Id.String()] = map[string]any{
			"current_tick":     pool.CurrentTick,
			"active_liquidity": pool.ActiveLiquidity.String(),
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   fmt.Sprintf("%d pools", len(pools)),
		Timestamp: time.Now(),
		Metrics:   map[string]any{"pool_count": len(pools), "pools": summary},
	}
}

func overallStatus(components map[string]ComponentHealth) Status {
	status := StatusHealthy
	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

func (c *Checker) cached() *HealthCheck {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil || time.Since(c.lastCheck) >= c.cacheDuration {
		return nil
	}
	return c.cachedHealth
}

// RegisterRoutes registers health check endpoints on router
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods(http.MethodGet)
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods(http.MethodGet)
}

func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	c.writeHealth(w, c.Check(r.Context(), false))
}

func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	if !c.detailedLimiter.Allow() {
		c.writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"status":  "error",
			"message": "rate limit exceeded",
		})
		return
	}
	c.writeHealth(w, c.Check(r.Context(), true))
}

// writeHealth answers 503 only when something is unhealthy; degraded is
// still ready.
func (c *Checker) writeHealth(w http.ResponseWriter, health *HealthCheck) {
	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	c.writeJSON(w, statusCode, health)
}

func (c *Checker) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("writing health response", "error", err)
	}
}
