package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/thukha/backoffice/api-gateway/config"
	"github.com/thukha/backoffice/pkg/logger"
)

// InstanceHealth is the probe result for one upstream instance.
type InstanceHealth struct {
	Upstream  string        `json:"upstream"`
	URL       string        `json:"url"`
	Status    string        `json:"status"` // healthy, unhealthy
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// GatewayHealth aggregates the gateway and its upstream instances.
type GatewayHealth struct {
	Gateway   string           `json:"gateway"`
	Status    string           `json:"status"` // healthy, degraded, unhealthy
	Instances []InstanceHealth `json:"instances"`
	Uptime    time.Duration    `json:"uptime_seconds"`
}

// HealthChecker probes every instance of every upstream.
type HealthChecker struct {
	config    *config.GatewayConfig
	client    *http.Client
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(cfg *config.GatewayConfig) *HealthChecker {
	return &HealthChecker{
		config: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		startTime: time.Now(),
	}
}

// CheckInstance probes a single upstream instance.
func (h *HealthChecker) CheckInstance(ctx context.Context, upstream config.UpstreamConfig, instance string) InstanceHealth {
	start := time.Now()
	result := InstanceHealth{
		Upstream:  upstream.Name,
		URL:       instance,
		Timestamp: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, "GET", instance+upstream.HealthPath, nil)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to create request: %v", err)
		result.Latency = time.Since(start)
		return result
	}

	resp, err := h.client.Do(req)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Failed to reach instance: %v", err)
		result.Latency = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start)
	if resp.StatusCode == http.StatusOK {
		result.Status = "healthy"
	} else {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("Unexpected status code: %d", resp.StatusCode)
	}
	return result
}

// CheckAll probes every instance concurrently.
func (h *HealthChecker) CheckAll(ctx context.Context) GatewayHealth {
	var (
		instances []InstanceHealth
		wg        sync.WaitGroup
		mu        sync.Mutex
	)

	for _, upstream := range h.config.Upstreams {
		for _, instance := range upstream.Instances {
			wg.Add(1)
			go func(up config.UpstreamConfig, url string) {
				defer wg.Done()
				result := h.CheckInstance(ctx, up, url)

				mu.Lock()
				instances = append(instances, result)
				mu.Unlock()

				if result.Status != "healthy" {
					logger.Logger.Warn().
						Str("upstream", up.Name).
						Str("instance", url).
						Str("error", result.Error).
						Msg("Instance health check failed")
				}
			}(upstream, instance)
		}
	}
	wg.Wait()

	return GatewayHealth{
		Gateway:   "api-gateway",
		Status:    overallStatus(instances),
		Instances: instances,
		Uptime:    time.Since(h.startTime),
	}
}

func overallStatus(instances []InstanceHealth) string {
	healthy := 0
	for _, instance := range instances {
		if instance.Status == "healthy" {
			healthy++
		}
	}
	switch {
	case healthy == len(instances):
		return "healthy"
	case healthy > 0:
		return "degraded"
	default:
		return "unhealthy"
	}
}

// QuickCheck reports the gateway's own liveness without probing upstreams.
func (h *HealthChecker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    "healthy",
		"gateway":   "api-gateway",
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}
