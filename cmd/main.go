package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/dompetku/dompetku/internal/facades"
	"github.com/dompetku/dompetku/internal/handlers"
	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/middlewares"
	"github.com/dompetku/dompetku/internal/repositories"
	"github.com/dompetku/dompetku/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title dompetku API
// @version 1.0.0
// @description Personal finance service: wallets, categories, transactions and a dashboard backed by a balance-maintaining ledger
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns,
		kafkaAddr, kafkaTopic,
		logLevel,
		jwtSecret, jwtExp,
		allowOverdraft, dashboardTTL,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns,
		kafkaAddr, kafkaTopic,
		logLevel,
		jwtSecret, jwtExp,
		allowOverdraft, dashboardTTL,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// all application, database, Redis, Kafka, logging, JWT, and ledger configuration.
func parseConfig(path string) (
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort int, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns int,
	kafkaAddr, kafkaTopic string,
	logLevel string,
	jwtSecretKey string, jwtExpSecond int,
	allowOverdraft bool, dashboardTTLSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "database")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if redisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}

	// Kafka config. An empty address disables event publishing.
	kafkaAddr = getEnv("KAFKA_ADDR", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "ledger-events")

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}

	// Ledger config
	if allowOverdraft, err = strconv.ParseBool(getEnv("LEDGER_ALLOW_OVERDRAFT", "false")); err != nil {
		return
	}
	if dashboardTTLSecond, err = strconv.Atoi(getEnv("DASHBOARD_CACHE_TTL_SECOND", "60")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns int,
	kafkaAddr, kafkaTopic string,
	logLevel string,
	jwtSecretKey string, jwtExpSecond int,
	allowOverdraft bool, dashboardTTLSecond int,
) error {
	// Initialize logger
	log, err := logger.New(logLevel)
	if err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer log.Sync()
	log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	log.Infof("Connecting to PostgreSQL: %s", dsn)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("PostgreSQL ping failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password:     redisPassword,
		DB:           redisDB,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Initialize Kafka writer for ledger events
	var ledgerEvents services.KafkaWriter
	if kafkaAddr != "" {
		kafkaWriter := &kafka.Writer{
			Addr:     kafka.TCP(kafkaAddr),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer kafkaWriter.Close()
		ledgerEvents = kafkaWriter
		log.Infof("Kafka writer initialized for topic %s at %s", kafkaTopic, kafkaAddr)
	} else {
		log.Info("Kafka address not configured, ledger event publishing disabled")
	}

	// Initialize JWT service
	jwt := jwt.New(
		jwt.WithSecretKey(jwtSecretKey),
		jwt.WithExpiration(time.Duration(jwtExpSecond)*time.Second),
	)

	// Initialize repositories. Writers pick up the request-scoped
	// transaction installed by the tx middleware.
	txGetter := middlewares.GetTxFromContext

	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db, txGetter)
	walletReadRepo := repositories.NewWalletReaderRepository(db, txGetter)
	walletWriteRepo := repositories.NewWalletWriterRepository(db, txGetter)
	categoryReadRepo := repositories.NewCategoryReaderRepository(db, txGetter)
	categoryWriteRepo := repositories.NewCategoryWriterRepository(db, txGetter)
	transactionReadRepo := repositories.NewTransactionReaderRepository(db, txGetter)
	transactionWriteRepo := repositories.NewTransactionWriterRepository(db, txGetter)
	dashboardReadRepo := repositories.NewDashboardReadRepository(db)

	// Initialize facades
	dashboardCache := facades.NewDashboardCacheFacade(rdb, time.Duration(dashboardTTLSecond)*time.Second)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, jwt)
	userService := services.NewUserService(userReadRepo, userWriteRepo)
	walletService := services.NewWalletService(walletReadRepo, walletWriteRepo, transactionReadRepo)
	categoryService := services.NewCategoryService(categoryReadRepo, categoryWriteRepo)
	ledgerService := services.NewLedgerService(
		walletReadRepo,
		walletWriteRepo,
		categoryReadRepo,
		categoryWriteRepo,
		transactionWriteRepo,
		transactionReadRepo,
		ledgerEvents,
		dashboardCache,
		allowOverdraft,
	)
	dashboardService := services.NewDashboardService(dashboardReadRepo, dashboardCache)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)

	walletCreateHandler := handlers.NewWalletCreateHandler(walletService, jwt)
	walletListHandler := handlers.NewWalletListHandler(walletService, jwt)
	walletUpdateHandler := handlers.NewWalletUpdateHandler(walletService, jwt)
	walletDeleteHandler := handlers.NewWalletDeleteHandler(walletService, jwt)
	transferHandler := handlers.NewTransferHandler(ledgerService, jwt)

	categoryCreateHandler := handlers.NewCategoryCreateHandler(categoryService, jwt)
	categoryListHandler := handlers.NewCategoryListHandler(categoryService, jwt)
	categoryUpdateHandler := handlers.NewCategoryUpdateHandler(categoryService, jwt)
	categoryDeleteHandler := handlers.NewCategoryDeleteHandler(categoryService, jwt)

	transactionCreateHandler := handlers.NewTransactionCreateHandler(ledgerService, jwt)
	transactionListHandler := handlers.NewTransactionListHandler(ledgerService, jwt)
	transactionUpdateHandler := handlers.NewTransactionUpdateHandler(ledgerService, jwt)
	transactionDeleteHandler := handlers.NewTransactionDeleteHandler(ledgerService, jwt)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService, jwt)
	profileGetHandler := handlers.NewProfileGetHandler(userService, jwt)
	profileUpdateHandler := handlers.NewProfileUpdateHandler(userService, jwt)
	passwordChangeHandler := handlers.NewPasswordChangeHandler(userService, jwt)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(log))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/register", registerHandler)
		r.Post("/login", loginHandler)

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(jwt))

			// Reads run outside the tx middleware
			r.Get("/wallets", walletListHandler)
			r.Get("/categories", categoryListHandler)
			r.Get("/transactions", transactionListHandler)
			r.Get("/dashboard", dashboardHandler)
			r.Get("/profile", profileGetHandler)

			// Mutations run inside a request-scoped database transaction
			r.Group(func(r chi.Router) {
				r.Use(middlewares.TxMiddleware(db))

				r.Post("/wallets", walletCreateHandler)
				r.Put("/wallets/{walletID}", walletUpdateHandler)
				r.Delete("/wallets/{walletID}", walletDeleteHandler)
				r.Post("/wallets/transfer", transferHandler)

				r.Post("/categories", categoryCreateHandler)
				r.Put("/categories/{categoryID}", categoryUpdateHandler)
				r.Delete("/categories/{categoryID}", categoryDeleteHandler)

				r.Post("/transactions", transactionCreateHandler)
				r.Put("/transactions/{transactionID}", transactionUpdateHandler)
				r.Delete("/transactions/{transactionID}", transactionDeleteHandler)

				r.Put("/profile", profileUpdateHandler)
				r.Put("/profile/password", passwordChangeHandler)
			})
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
