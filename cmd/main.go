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
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"

	_ "github.com/sbilibin2017/restchat/docs"
	"github.com/sbilibin2017/restchat/internal/handlers"
	"github.com/sbilibin2017/restchat/internal/hasher"
	"github.com/sbilibin2017/restchat/internal/jwt"
	"github.com/sbilibin2017/restchat/internal/logger"
	"github.com/sbilibin2017/restchat/internal/middlewares"
	"github.com/sbilibin2017/restchat/internal/repositories"
	"github.com/sbilibin2017/restchat/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title RESTchat API
// @version 1.0.0
// @description Chat backend with users, chats, memberships and messages
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, redisExp,
		jwtSecret, jwtExp,
		corsOrigins,
		kafkaBrokers, kafkaTopic,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, redisExp,
		jwtSecret, jwtExp,
		corsOrigins,
		kafkaBrokers, kafkaTopic,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service Version: %s, Commit: %s, Build: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// all application, database, cache, JWT, CORS and Kafka configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, redisExpSecond int,
	jwtSecretKey string, jwtExpSecond int,
	corsOrigins []string,
	kafkaBrokers []string, kafkaTopic string,
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

	// Redis config, no host disables the user cache
	redisHost = getEnv("REDIS_HOST", "")
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	if redisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if redisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}
	if redisExpSecond, err = strconv.Atoi(getEnv("REDIS_EXP_SECOND", "60")); err != nil {
		return
	}

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}

	// CORS config
	corsOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	// Kafka config, no brokers disables event publishing
	kafkaBrokers = splitList(getEnv("KAFKA_BROKERS", ""))
	kafkaTopic = getEnv("KAFKA_TOPIC", "chat-events")

	return
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// newRouter wires repositories, services and handlers on top of db and
// returns the application's HTTP handler. userCache and kafkaWriter may be nil.
func newRouter(
	db *sqlx.DB,
	userCache *repositories.UserCacheRepository,
	jwtSecretKey string, jwtExpSecond int,
	corsOrigins []string,
	kafkaWriter services.KafkaWriter,
	swaggerURL string,
) http.Handler {
	// Initialize JWT service and password hasher
	tokens := jwt.New(
		jwt.WithSecretKey(jwtSecretKey),
		jwt.WithExpiration(time.Duration(jwtExpSecond)*time.Second),
	)
	passwords := hasher.New(0)

	// Initialize repositories
	txManager := repositories.NewTxManager(db)
	userReadRepo := repositories.NewUserReadRepository(db, repositories.GetTxFromContext)
	userWriteRepo := repositories.NewUserWriteRepository(db, repositories.GetTxFromContext)
	chatReadRepo := repositories.NewChatReadRepository(db, repositories.GetTxFromContext)
	chatWriteRepo := repositories.NewChatWriteRepository(db, repositories.GetTxFromContext)
	messageReadRepo := repositories.NewMessageReadRepository(db, repositories.GetTxFromContext)
	messageWriteRepo := repositories.NewMessageWriteRepository(db, repositories.GetTxFromContext)

	// Token lookups and profile updates go through the cache when it is configured
	var authUsers services.UserReader = userReadRepo
	var profileWriter services.ProfileWriter = userWriteRepo
	if userCache != nil {
		authUsers = repositories.NewCachedUserReadRepository(userReadRepo, userCache)
		profileWriter = repositories.NewCachedUserWriteRepository(userWriteRepo, userCache)
	}

	// Initialize services
	authService := services.NewAuthService(txManager, authUsers, userWriteRepo, passwords, tokens)
	userService := services.NewUserService(txManager, userReadRepo, chatReadRepo, profileWriter)
	chatService := services.NewChatService(
		txManager,
		chatReadRepo, chatWriteRepo,
		userReadRepo,
		messageReadRepo, messageWriteRepo,
		kafkaWriter,
	)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	// Public routes
	r.Get("/health", handlers.NewHealthHandler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	r.Post("/auth/registration", handlers.NewRegistrationHandler(authService))
	r.Post("/auth/token", handlers.NewTokenHandler(authService))

	r.Get("/users", handlers.NewListUsersHandler(userService))
	r.Get("/users/{user_id}", handlers.NewGetUserHandler(userService))
	r.Get("/users/{user_id}/chats", handlers.NewListUserChatsHandler(userService))

	// Protected routes. chi matches the static /users/me before /users/{user_id}.
	authMiddleware := middlewares.AuthMiddleware(tokens, authService)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/users/me", handlers.NewGetMeHandler())
		r.Put("/users/me", handlers.NewUpdateMeHandler(userService))

		r.Get("/chats", handlers.NewListChatsHandler(chatService))
		r.Post("/chats", handlers.NewCreateChatHandler(chatService))
		r.Get("/chats/{chat_id}", handlers.NewGetChatHandler(chatService))
		r.Put("/chats/{chat_id}", handlers.NewRenameChatHandler(chatService))

		r.Get("/chats/{chat_id}/messages", handlers.NewListMessagesHandler(chatService))
		r.Post("/chats/{chat_id}/messages", handlers.NewPostMessageHandler(chatService))
		r.Put("/chats/{chat_id}/messages/{message_id}", handlers.NewEditMessageHandler(chatService))
		r.Delete("/chats/{chat_id}/messages/{message_id}", handlers.NewDeleteMessageHandler(chatService))

		r.Get("/chats/{chat_id}/users", handlers.NewListMembersHandler(chatService))
		r.Put("/chats/{chat_id}/users/{user_id}", handlers.NewAddMemberHandler(chatService))
		r.Delete("/chats/{chat_id}/users/{user_id}", handlers.NewRemoveMemberHandler(chatService))
	})

	return cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)
}

// run initializes the logger, database, cache, Kafka writer and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, redisExpSecond int,
	jwtSecretKey string, jwtExpSecond int,
	corsOrigins []string,
	kafkaBrokers []string, kafkaTopic string,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)

	if err := repositories.Migrate(ctx, db); err != nil {
		return fmt.Errorf("PostgreSQL migration failed: %w", err)
	}

	// Connect to Redis
	var userCache *repositories.UserCacheRepository
	if redisHost != "" {
		logger.Log.Infof("Connecting to Redis at %s:%d/%d", redisHost, redisPort, redisDB)
		rdb := redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", redisHost, redisPort),
			Password:     redisPassword,
			DB:           redisDB,
			PoolSize:     redisPoolSize,
			MinIdleConns: redisMinIdleConns,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis connection error: %w", err)
		}
		userCache = repositories.NewUserCacheRepository(rdb, time.Duration(redisExpSecond)*time.Second)
	} else {
		logger.Log.Info("Redis host not configured, user cache is disabled")
	}

	// Connect to Kafka
	var kafkaWriter services.KafkaWriter
	if len(kafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:                   kafka.TCP(kafkaBrokers...),
			Topic:                  kafkaTopic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infof("Publishing chat events to Kafka topic %s", kafkaTopic)
	} else {
		logger.Log.Info("Kafka brokers not configured, chat events are not published")
	}

	handler := newRouter(db, userCache,
		jwtSecretKey, jwtExpSecond,
		corsOrigins,
		kafkaWriter,
		fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", appHost, appPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
