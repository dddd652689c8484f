package config

import (
	"os"
	"strings"
	"time"
)

// UpstreamConfig describes one load-balanced backend.
type UpstreamConfig struct {
	Name       string
	Instances  []string
	Timeout    time.Duration
	HealthPath string
}

// GatewayConfig holds the gateway configuration.
type GatewayConfig struct {
	Port      string
	Upstreams map[string]UpstreamConfig
}

// LoadConfig reads the gateway configuration from the environment.
// The back office runs as one service with any number of replicas;
// BACKOFFICE_INSTANCES is a comma-separated list of their base URLs.
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Upstreams: map[string]UpstreamConfig{
			"backoffice": {
				Name:       "backoffice",
				Instances:  splitList(getEnv("BACKOFFICE_INSTANCES", "http://localhost:8080")),
				Timeout:    30 * time.Second,
				HealthPath: "/health",
			},
		},
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
