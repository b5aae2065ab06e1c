package main

import (
	"context"
	"crypto/rand"
	"errors"
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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/finanfun/docs"
	"github.com/sbilibin2017/finanfun/internal/identity"
	"github.com/sbilibin2017/finanfun/internal/jwt"
	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/middlewares"
	"github.com/sbilibin2017/finanfun/internal/repositories"
	"github.com/sbilibin2017/finanfun/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title FinanFun API
// @version 1.0.0
// @description Authentication, sessions, BitFun ledger, dashboards and family links for FinanFun
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
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

// config holds every setting read from the environment.
type config struct {
	AppHost        string
	AppPort        string
	LogLevel       string
	RequestTimeout time.Duration
	CORSOrigins    []string

	StorageDriver string

	PGHost            string
	PGPort            int
	PGUser            string
	PGPassword        string
	PGDB              string
	PGSSLMode         string
	PGMaxOpenConns    int
	PGMaxIdleConns    int
	PGConnMaxLifetime time.Duration

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	BcryptCost           int

	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	RateLimitAuth   int
	RateLimitWindow time.Duration

	KafkaBrokers           []string
	KafkaTransactionsTopic string

	OAuthStateSecret     string
	OAuthStateTTL        time.Duration
	OAuthCallbackURL     string
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
}

// parseConfig loads environment variables from a file (when present) and
// returns the application configuration.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	var errs []error
	getInt := func(key, defaultValue string) int {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}
	getDuration := func(key, defaultValue string) time.Duration {
		v, err := time.ParseDuration(getEnv(key, defaultValue))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}
	getList := func(key, defaultValue string) []string {
		var out []string
		for _, s := range strings.Split(getEnv(key, defaultValue), ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	cfg := &config{
		// Application config
		AppHost:        getEnv("APP_HOST", "localhost"),
		AppPort:        getEnv("APP_PORT", "8080"),
		LogLevel:       getEnv("APP_LOG_LEVEL", "info"),
		RequestTimeout: getDuration("APP_REQUEST_TIMEOUT", "5s"),
		CORSOrigins:    getList("APP_CORS_ORIGINS", "http://localhost:3000"),
		StorageDriver:  getEnv("STORAGE_DRIVER", storagePostgres),

		// PostgreSQL config
		PGHost:            getEnv("POSTGRES_HOST", "localhost"),
		PGPort:            getInt("POSTGRES_PORT", "5432"),
		PGUser:            getEnv("POSTGRES_USER", "user"),
		PGPassword:        getEnv("POSTGRES_PASSWORD", "password"),
		PGDB:              getEnv("POSTGRES_DB", "finanfun"),
		PGSSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
		PGMaxOpenConns:    getInt("POSTGRES_MAX_OPEN_CONNS", "20"),
		PGMaxIdleConns:    getInt("POSTGRES_MAX_IDLE_CONNS", "10"),
		PGConnMaxLifetime: getDuration("POSTGRES_CONN_MAX_LIFETIME", "30m"),

		// Sessions and passwords
		SessionTTL:           getDuration("SESSION_TTL", "168h"),
		SessionSweepInterval: getDuration("SESSION_SWEEP_INTERVAL", "1h"),
		BcryptCost:           getInt("BCRYPT_COST", "10"),

		// Redis config; an empty host disables rate limiting
		RedisHost:       getEnv("REDIS_HOST", ""),
		RedisPort:       getInt("REDIS_PORT", "6379"),
		RedisDB:         getInt("REDIS_DB", "0"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RateLimitAuth:   getInt("RATE_LIMIT_AUTH", "10"),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", "1m"),

		// Kafka config; no brokers disables publishing
		KafkaBrokers:           getList("KAFKA_BROKERS", ""),
		KafkaTransactionsTopic: getEnv("KAFKA_TRANSACTIONS_TOPIC", "bitfun-transactions"),

		// OAuth config; a provider without a client id is not offered
		OAuthStateSecret:     getEnv("OAUTH_STATE_SECRET", ""),
		OAuthStateTTL:        getDuration("OAUTH_STATE_TTL", "10m"),
		OAuthCallbackURL:     getEnv("OAUTH_CALLBACK_URL", "http://localhost:8080/api/auth"),
		GoogleClientID:       getEnv("OAUTH_GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("OAUTH_GOOGLE_CLIENT_SECRET", ""),
		FacebookClientID:     getEnv("OAUTH_FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("OAUTH_FACEBOOK_CLIENT_SECRET", ""),
	}

	switch cfg.StorageDriver {
	case storagePostgres, storageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER: unsupported driver %q", cfg.StorageDriver))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// identityProviders builds the configured social login providers.
func identityProviders(cfg *config) map[string]services.IdentityProvider {
	providers := map[string]services.IdentityProvider{}
	callback := strings.TrimRight(cfg.OAuthCallbackURL, "/")

	if cfg.GoogleClientID != "" {
		providers[identity.GoogleName] = identity.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret,
			callback+"/"+identity.GoogleName+"/callback")
	}
	if cfg.FacebookClientID != "" {
		providers[identity.FacebookName] = identity.NewFacebook(cfg.FacebookClientID, cfg.FacebookClientSecret,
			callback+"/"+identity.FacebookName+"/callback")
	}
	return providers
}

// stateSecret returns the configured OAuth state secret, or a random
// per-process one when it is unset. Pending logins do not survive a restart then.
func stateSecret(configured string) string {
	if configured != "" {
		return configured
	}
	logger.Log.Warnw("OAUTH_STATE_SECRET is not set, using a random per-process secret")
	return rand.Text()
}

// app groups the wired services the router needs.
type app struct {
	auth        *services.AuthService
	credentials *services.CredentialStore
	sessions    *services.SessionManager
	ledger      *services.Ledger
	dashboards  *services.DashboardService
	family      *services.FamilyService
	states      *jwt.StateSigner
	health      pinger
	rateCounter middlewares.RateCounter
}

func newApp(cfg *config, st *storage, kafkaWriter services.KafkaWriter, rateCounter middlewares.RateCounter) *app {
	ledger := services.NewLedger(st.tx, st.accounts, st.transactions, st.family, kafkaWriter)
	credentials := services.NewCredentialStore(st.tx, st.users, st.profiles, st.accounts, st.purger, ledger, cfg.BcryptCost)
	sessions := services.NewSessionManager(st.sessions, cfg.SessionTTL)

	return &app{
		auth:        services.NewAuthService(credentials, sessions, identityProviders(cfg)),
		credentials: credentials,
		sessions:    sessions,
		ledger:      ledger,
		dashboards:  services.NewDashboardService(st.users, st.accounts, st.transactions, st.family),
		family:      services.NewFamilyService(st.users, st.family),
		states:      jwt.New(stateSecret(cfg.OAuthStateSecret), cfg.OAuthStateTTL),
		health:      st.tx,
		rateCounter: rateCounter,
	}
}

// run initializes the logger, storage, Redis, Kafka, and HTTP server.
// It sets up routes, starts the session sweeper, and handles graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	log := logger.Log
	log.Infof("Logger initialized with level %s", cfg.LogLevel)

	st, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	var rateCounter middlewares.RateCounter
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Errorw("Redis unavailable, auth rate limiting disabled", "error", err)
		} else {
			rateCounter = repositories.NewRateCounterRepository(rdb)
		}
	}

	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		kw := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTransactionsTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		defer kw.Close()
		kafkaWriter = kw
		log.Infof("Publishing ledger events to Kafka topic %s", cfg.KafkaTransactionsTopic)
	}

	a := newApp(cfg, st, kafkaWriter, rateCounter)

	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)
	docs.SwaggerInfo.Version = buildVersion

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           newRouter(cfg, a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go a.sessions.RunSweeper(ctxShutdown, cfg.SessionSweepInterval)

	go func() {
		log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
