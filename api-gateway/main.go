package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/thukha/backoffice/api-gateway/config"
	"github.com/thukha/backoffice/api-gateway/middleware"
	"github.com/thukha/backoffice/api-gateway/routes"
	"github.com/thukha/backoffice/pkg/logger"
	"github.com/thukha/backoffice/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "api-gateway")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting API gateway")

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Redis backs the rate limiters and the response cache. Without it
	// the gateway still proxies, just without those two layers.
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", redisAddr).
			Msg("Failed to connect to Redis - rate limiting and caching disabled")
		redisClient = nil
	} else {
		logger.Logger.Info().
			Str("redis_addr", redisAddr).
			Msg("Connected to Redis")
	}

	cfg := config.LoadConfig()
	cbManager := middleware.NewCircuitBreakerManager()

	app := fiber.New(fiber.Config{
		AppName:      "Back Office API Gateway",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		ErrorHandler: errorHandler,
	})

	setupMiddleware(app, redisClient, cbManager)
	routes.SetupRoutes(app, cfg, cbManager, redisClient)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		for name, upstream := range cfg.Upstreams {
			logger.Logger.Info().
				Str("upstream", name).
				Strs("instances", upstream.Instances).
				Msg("Routing upstream")
		}
		logger.Logger.Info().Str("addr", addr).Msg("API gateway listening")

		if err := app.Listen(addr); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down API gateway")
	if err := app.Shutdown(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	logger.Logger.Info().Msg("API gateway stopped")
}

func setupMiddleware(app *fiber.App, redisClient *redis.Client, cbManager *middleware.CircuitBreakerManager) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Request ID first, then tracing, then logging, so every log line
	// carries both identifiers.
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.StructuredLoggingMiddleware())

	if redisClient != nil {
		cacheConfig := middleware.DefaultCacheConfig()
		app.Use(middleware.CacheMiddleware(redisClient, cacheConfig))
		logger.Logger.Info().
			Dur("ttl", cacheConfig.DefaultTTL).
			Msg("Response caching enabled")
	}

	app.Use(middleware.CircuitBreakerMiddleware(cbManager))

	if redisClient != nil {
		app.Use(middleware.GlobalRateLimiter(redisClient))
		logger.Logger.Info().Msg("Rate limiting enabled")
	} else {
		logger.Logger.Warn().Msg("Rate limiting disabled (Redis not available)")
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "*"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		AllowCredentials: true,
		ExposeHeaders:    "X-Request-Id, X-Trace-Id, X-Cache, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:           86400,
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":      err.Error(),
		"statusCode": code,
		"path":       c.Path(),
		"method":     c.Method(),
		"requestId":  c.Get("X-Request-Id"),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
