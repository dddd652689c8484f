package proxy

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/thukha/backoffice/api-gateway/config"
	"github.com/thukha/backoffice/api-gateway/loadbalancer"
	"github.com/thukha/backoffice/pkg/logger"
)

// ReverseProxy forwards requests to a load-balanced upstream.
type ReverseProxy struct {
	config    *config.GatewayConfig
	client    *http.Client
	balancers map[string]*loadbalancer.RoundRobin
}

// NewReverseProxy creates a proxy with one balancer per upstream.
func NewReverseProxy(cfg *config.GatewayConfig) *ReverseProxy {
	balancers := make(map[string]*loadbalancer.RoundRobin)
	for name, upstream := range cfg.Upstreams {
		balancers[name] = loadbalancer.NewRoundRobin(upstream.Instances)
	}

	return &ReverseProxy{
		config:    cfg,
		balancers: balancers,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Forward proxies the request to the next instance of the upstream.
func (p *ReverseProxy) Forward(c *fiber.Ctx, upstream string) error {
	lb, ok := p.balancers[upstream]
	if !ok {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("Unknown upstream %q", upstream),
		})
	}

	instance := lb.Next()
	if instance == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("No available instances for %q", upstream),
		})
	}

	logger.Logger.Debug().
		Str("upstream", upstream).
		Str("instance", instance).
		Str("path", c.Path()).
		Msg("Forwarding request")

	req, err := http.NewRequestWithContext(
		c.UserContext(),
		c.Method(),
		p.targetURL(c, instance),
		bytes.NewReader(c.Body()),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create request",
		})
	}

	p.copyRequestHeaders(c, req)

	resp, err := p.client.Do(req)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":    "Failed to reach backend service",
			"upstream": upstream,
			"details":  err.Error(),
		})
	}
	defer resp.Body.Close()

	p.copyResponseHeaders(c, resp)
	c.Status(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read response",
		})
	}
	return c.Send(body)
}

// Balancers exposes the per-upstream balancers for stats endpoints.
func (p *ReverseProxy) Balancers() map[string]*loadbalancer.RoundRobin {
	return p.balancers
}

func (p *ReverseProxy) targetURL(c *fiber.Ctx, instance string) string {
	path := string(c.Request().URI().Path())
	query := string(c.Request().URI().QueryString())
	if query != "" {
		query = "?" + query
	}
	return instance + path + query
}

func (p *ReverseProxy) copyRequestHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		if strings.EqualFold(string(key), "host") {
			return
		}
		req.Header.Set(string(key), string(value))
	})

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}

func (p *ReverseProxy) copyResponseHeaders(c *fiber.Ctx, resp *http.Response) {
	for key, values := range resp.Header {
		if strings.EqualFold(key, "content-length") {
			continue
		}
		for _, value := range values {
			c.Set(key, value)
		}
	}
}
