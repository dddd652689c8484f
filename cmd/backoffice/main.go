package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	_ "github.com/thukha/backoffice/docs"
	"github.com/thukha/backoffice/internal/facility"
	"github.com/thukha/backoffice/internal/inventory"
	invcommand "github.com/thukha/backoffice/internal/inventory/usecase/command"
	"github.com/thukha/backoffice/internal/lease"
	"github.com/thukha/backoffice/internal/pos"
	"github.com/thukha/backoffice/internal/product"
	"github.com/thukha/backoffice/internal/purchase"
	"github.com/thukha/backoffice/internal/tenant"
	"github.com/thukha/backoffice/internal/user"
	usercommand "github.com/thukha/backoffice/internal/user/usecase/command"
	"github.com/thukha/backoffice/kafka"
	"github.com/thukha/backoffice/pkg/database"
	"github.com/thukha/backoffice/pkg/logger"
	"github.com/thukha/backoffice/pkg/tracing"

	invdomain "github.com/thukha/backoffice/internal/inventory/domain"
	invrepo "github.com/thukha/backoffice/internal/inventory/repository"
	leaserepo "github.com/thukha/backoffice/internal/lease/repository"
	purchasedomain "github.com/thukha/backoffice/internal/purchase/domain"
	purchaserepo "github.com/thukha/backoffice/internal/purchase/repository"
	userdomain "github.com/thukha/backoffice/internal/user/domain"
	userrepo "github.com/thukha/backoffice/internal/user/repository"
)

func main() {
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "backoffice")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting back office")

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

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "backoffice"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	gormDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer gormDB.Close()

	// The POS/finance subsystem runs on plain database/sql transactions.
	posDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to POS database")
	}
	defer posDB.Close()

	if err := migrate(db, posDB); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized")

	userRepo := user.ProvideUserRepository(db)
	if err := usercommand.EnsureAdmin(userRepo); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	publisher := connectKafka()
	if publisher != nil {
		defer publisher.Close()
	}

	// Flat modules share their services with the event-sourced ones
	// through the gateway interfaces.
	tenantService := tenant.NewService(tenant.NewRepository(db))
	facilityService := facility.NewService(facility.NewRepository(db))
	productService := product.NewService(product.NewRepository(db))

	users := userGateway{users: userRepo}
	items := itemGateway{items: inventory.ProvideItemRepository(db)}
	orders := orderGateway{orders: purchase.ProvideOrderRepository(db)}
	stocks := stockGateway{stocks: inventory.ProvideStockRepository(db)}

	userHandler, err := user.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}
	leaseHandler, err := lease.InitializeHTTPHandler(db, facilityService, tenantService, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize lease handler")
	}
	inventoryHandler, err := inventory.InitializeHTTPHandler(db, users, productService, orders, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}
	purchaseHandler, err := purchase.InitializeHTTPHandler(db, items, users)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize purchase handler")
	}

	posService := pos.NewService(pos.NewPostgresRepository(posDB), stocks, productService, users, publisher)

	// Completed sales come back through Kafka and deduct stock.
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	startConsumer(consumerCtx, db)

	router := mux.NewRouter()
	userHandler.RegisterRoutes(router)
	leaseHandler.RegisterRoutes(router)
	inventoryHandler.RegisterRoutes(router)
	purchaseHandler.RegisterRoutes(router)
	tenant.NewHandler(tenantService).RegisterRoutes(router)
	facility.NewHandler(facilityService).RegisterRoutes(router)
	product.NewHandler(productService).RegisterRoutes(router)
	pos.NewHandler(posService).RegisterRoutes(router)

	router.HandleFunc("/health", healthCheck(gormDB, posDB)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	c := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpPort := getEnv("HTTP_PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + httpPort,
		Handler: otelhttp.NewHandler(c.Handler(router), "backoffice"),
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/index.html").
			Msg("HTTP server started")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down")
	stopConsumer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	logger.Logger.Info().Msg("Back office stopped")
}

func migrate(db *gorm.DB, posDB *sql.DB) error {
	if err := userrepo.NewGormUserRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := tenant.NewRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := facility.NewRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := leaserepo.NewGormLeaseRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := invrepo.AutoMigrate(db); err != nil {
		return err
	}
	if err := purchaserepo.AutoMigrate(db); err != nil {
		return err
	}
	if err := product.NewRepository(db).AutoMigrate(); err != nil {
		return err
	}
	return pos.NewPostgresRepository(posDB).InitSchema()
}

func connectKafka() *kafka.Publisher {
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	publisher, err := kafka.NewPublisher(brokers)
	if err != nil {
		logger.Logger.Warn().
			Err(err).
			Strs("brokers", brokers).
			Msg("Failed to connect to Kafka - events disabled")
		return nil
	}
	logger.Logger.Info().Strs("brokers", brokers).Msg("Connected to Kafka")
	return publisher
}

func startConsumer(ctx context.Context, db *gorm.DB) {
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	consumer, err := kafka.NewConsumer(brokers, "backoffice-inventory", []string{kafka.TopicSaleCompleted})
	if err != nil {
		logger.Logger.Warn().
			Err(err).
			Strs("brokers", brokers).
			Msg("Failed to start Kafka consumer - sale fulfilment disabled")
		return
	}

	fulfil := invcommand.NewFulfilSaleHandler(inventory.ProvideStockRepository(db))
	consumer.RegisterHandler(kafka.EventTypeSaleCompleted, fulfil.Handle)

	go func() {
		defer consumer.Close()
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Logger.Error().Err(err).Msg("Kafka consumer stopped")
		}
	}()
}

func healthCheck(gormDB, posDB *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := gormDB.PingContext(r.Context()); err != nil {
			http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
		if err := posDB.PingContext(r.Context()); err != nil {
			http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}
}

// userGateway adapts the user repository to the UserExists checks the
// inventory, purchase, and POS modules need.
type userGateway struct {
	users userdomain.UserRepository
}

func (g userGateway) UserExists(id uint) (bool, error) {
	if _, err := g.users.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type itemGateway struct {
	items invdomain.ItemRepository
}

func (g itemGateway) ItemExists(id uint) (bool, error) {
	return g.items.Exists(id)
}

type orderGateway struct {
	orders purchasedomain.OrderRepository
}

func (g orderGateway) OrderExists(id uint) (bool, error) {
	return g.orders.Exists(id)
}

// stockGateway reports on-hand quantity for the POS reservation netting.
// A missing stock row means nothing is on hand.
type stockGateway struct {
	stocks invdomain.StockRepository
}

func (g stockGateway) AvailableQuantity(itemID, locationID uint) (int, error) {
	stock, err := g.stocks.FindByItemAndLocation(itemID, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return stock.Quantity, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
