package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/thukha/backoffice/api-gateway/config"
	"github.com/thukha/backoffice/api-gateway/health"
	"github.com/thukha/backoffice/api-gateway/middleware"
	"github.com/thukha/backoffice/api-gateway/proxy"
)

// RouteDefinition maps a path prefix to the back office with its
// gateway-level policy.
type RouteDefinition struct {
	Prefix      string
	Description string
	Public      bool // No token required
	StrictLimit bool // Per-IP brute-force limiter
}

// Routes lists the gateway policies. Order matters: specific public
// prefixes are registered before the authenticated catch-all.
var Routes = []RouteDefinition{
	{
		Prefix:      "/api/login",
		Description: "Credential check (brute-force limited)",
		Public:      true,
		StrictLimit: true,
	},
	{
		Prefix:      "/api/register",
		Description: "Account creation (brute-force limited)",
		Public:      true,
		StrictLimit: true,
	},
	{
		Prefix:      "/api",
		Description: "Back office API (leases, facilities, inventory, purchasing, POS)",
	},
}

// SetupRoutes wires health endpoints, stats, and the proxied API routes.
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, cbManager *middleware.CircuitBreakerManager, redisClient *redis.Client) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway liveness, no downstream probes.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	// Readiness: probes every back office instance.
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAll(ctx)
		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}
		return c.Status(statusCode).JSON(healthStatus)
	})

	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()
		return c.JSON(healthChecker.CheckAll(ctx))
	})

	// Balancer and breaker stats, admin only.
	app.Get("/gateway/stats", middleware.AuthMiddleware(), middleware.AdminMiddleware(), func(c *fiber.Ctx) error {
		balancers := make(map[string]interface{})
		for name, lb := range reverseProxy.Balancers() {
			balancers[name] = lb.Stats()
		}
		return c.JSON(fiber.Map{
			"load_balancers":   balancers,
			"circuit_breakers": cbManager.GetAllStats(),
		})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Back Office API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerRoute(app, route, reverseProxy, redisClient)
	}
}

func registerRoute(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy, redisClient *redis.Client) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.Forward(c, "backoffice")
	}

	var middlewares []fiber.Handler
	if route.StrictLimit && redisClient != nil {
		middlewares = append(middlewares, middleware.LoginRateLimiter(redisClient))
	}
	if !route.Public {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
