package loadbalancer

import (
	"sync"

	"github.com/thukha/backoffice/pkg/logger"
)

// RoundRobin rotates over a fixed pool of upstream instances.
type RoundRobin struct {
	instances []string
	current   int
	mu        sync.Mutex
}

// NewRoundRobin creates a balancer over the given instance URLs.
func NewRoundRobin(instances []string) *RoundRobin {
	if len(instances) == 0 {
		instances = []string{"http://localhost:8080"}
	}

	logger.Logger.Info().
		Int("instance_count", len(instances)).
		Strs("instances", instances).
		Msg("Round-robin balancer initialized")

	return &RoundRobin{instances: instances}
}

// Next returns the next instance in rotation.
func (rr *RoundRobin) Next() string {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if len(rr.instances) == 0 {
		return ""
	}

	instance := rr.instances[rr.current]
	rr.current = (rr.current + 1) % len(rr.instances)
	return instance
}

// Instances returns a copy of the pool.
func (rr *RoundRobin) Instances() []string {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return append([]string{}, rr.instances...)
}

// Add appends an instance to the pool.
func (rr *RoundRobin) Add(instance string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.instances = append(rr.instances, instance)
	logger.Logger.Info().
		Str("instance", instance).
		Int("instance_count", len(rr.instances)).
		Msg("Instance added to balancer")
}

// Remove drops an instance from the pool.
func (rr *RoundRobin) Remove(instance string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	for i, s := range rr.instances {
		if s == instance {
			rr.instances = append(rr.instances[:i], rr.instances[i+1:]...)
			logger.Logger.Info().
				Str("instance", instance).
				Int("instance_count", len(rr.instances)).
				Msg("Instance removed from balancer")
			break
		}
	}

	if rr.current >= len(rr.instances) && len(rr.instances) > 0 {
		rr.current = 0
	}
}

// Stats reports the balancer state.
func (rr *RoundRobin) Stats() map[string]interface{} {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	return map[string]interface{}{
		"algorithm":      "round-robin",
		"instance_count": len(rr.instances),
		"instances":      rr.instances,
		"current_index":  rr.current,
	}
}
