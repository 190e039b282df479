package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is anything the health monitor can probe.
type Pinger func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth probes every service once and stores the snapshot.
func CheckHealth(ctx context.Context, probes map[string]Pinger) HealthStatus {
	status := HealthStatus{Healthy: true, Services: make(map[string]bool, len(probes)), CheckedAt: time.Now()}
	for name, ping := range probes {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		ok := ping(pctx) == nil
		cancel()
		status.Services[name] = ok
		if !ok {
			status.Healthy = false
		}
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, interval time.Duration, probes map[string]Pinger) {
	CheckHealth(ctx, probes)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, probes)
			}
		}
	}()
}
