package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/osse101/TeamkillBot_Go/internal/logger"
)

// BotStatus reports the chat gateway side of health.
type BotStatus interface {
	Connected() bool
	InteractionsReceived() int64
	LastInteraction() time.Time
}

// LinkCounter reports how many live links are tracked.
type LinkCounter interface {
	Len() int
}

// Pinger is any dependency that can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents the bot's health status
type HealthStatus struct {
	Status               string    `json:"status"`
	Uptime               string    `json:"uptime"`
	Connected            bool      `json:"connected"`
	InteractionsReceived int64     `json:"interactions_received"`
	LastInteractionTime  time.Time `json:"last_interaction_time,omitempty"`
	TrackedLinks         int       `json:"tracked_links"`
	APIReachable         bool      `json:"api_reachable"`
	StorageReachable     bool      `json:"storage_reachable"`
}

// HealthDeps are the probes behind /healthz. Nil members are reported as unhealthy.
type HealthDeps struct {
	Bot     BotStatus
	Links   LinkCounter
	API     Pinger
	Storage Pinger
}

var startTime = time.Now()

// HandleHealth returns the bot's health status
func HandleHealth(deps HealthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ProbeTimeout)
		defer cancel()

		health := HealthStatus{
			Uptime:           time.Since(startTime).Round(time.Second).String(),
			APIReachable:     probe(ctx, deps.API),
			StorageReachable: probe(ctx, deps.Storage),
		}
		if deps.Bot != nil {
			health.Connected = deps.Bot.Connected()
			health.InteractionsReceived = deps.Bot.InteractionsReceived()
			health.LastInteractionTime = deps.Bot.LastInteraction()
		}
		if deps.Links != nil {
			health.TrackedLinks = deps.Links.Len()
		}

		health.Status = StatusHealthy
		code := http.StatusOK
		if !health.Connected || !health.APIReachable || !health.StorageReachable {
			health.Status = StatusDegraded
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(health); err != nil {
			// Headers are already sent
			logger.FromContext(ctx).Debug("Failed to encode health status", "error", err)
		}
	}
}

func probe(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	return p.Ping(ctx) == nil
}
