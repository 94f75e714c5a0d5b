package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/auth"
	"github.com/frahmantamala/garments-tracker/internal/core/events"
	"github.com/frahmantamala/garments-tracker/internal/order"
	orderPostgres "github.com/frahmantamala/garments-tracker/internal/order/postgres"
	"github.com/frahmantamala/garments-tracker/internal/product"
	productPostgres "github.com/frahmantamala/garments-tracker/internal/product/postgres"
	"github.com/frahmantamala/garments-tracker/internal/transport/middleware"
	"github.com/frahmantamala/garments-tracker/internal/transport/rest"
	"github.com/frahmantamala/garments-tracker/internal/user"
	userPostgres "github.com/frahmantamala/garments-tracker/internal/user/postgres"
	"github.com/frahmantamala/garments-tracker/pkg/logger"
)

var openAPIPath string

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func init() {
	httpServerCmd.Flags().StringVar(&openAPIPath, "openapi", "api/openapi.yml", "OpenAPI document served at /openapi.yml")
}

// Dependencies is the object graph of the HTTP server. Everything with shared state
// (pool, signing secret, event bus) is built once here and injected.
type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps, openAPIPath)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies, specPath string) {
	var limiter *middleware.RateLimiter
	if deps.Config.RateLimit.LoginPerMinute > 0 {
		limiter = middleware.NewRateLimiter(deps.Config.RateLimit.LoginPerMinute, deps.Config.RateLimit.Burst)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB, deps.Handlers, rest.Options{
		AllowedOrigins: deps.Config.Server.Origins(),
		LoginLimiter:   limiter,
		OpenAPIPath:    specPath,
	}, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfigAndLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db.DB)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return newDependencies(config, db, gormDB, logger.LoggerWrapper()), nil
}

// newDependencies wires repositories, services and handlers over an open database.
func newDependencies(config *internal.Config, db *sqlx.DB, gormDB *gorm.DB, lg *slog.Logger) *Dependencies {
	timeout := config.Database.QueryTimeout

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	userRepo := userPostgres.NewUserRepository(gormDB, timeout)
	orderRepo := orderPostgres.NewOrderRepository(gormDB, timeout)
	productRepo := productPostgres.NewProductRepository(gormDB, timeout)

	hasher := auth.NewBcryptHasher(config.Security.GetBCryptCost())
	codec := auth.NewJWTCodec(config.Security.JWTSecret, config.Security.GetTokenTTL(), config.Security.JWTIssuer)
	accounts := user.NewAccounts(userRepo)
	guard := auth.NewGuard(codec, accounts, lg)

	userService := user.NewService(userRepo, hasher, guard, bus, lg)
	authService := auth.NewService(accounts, hasher, codec, lg)
	orderService := order.NewService(orderRepo, guard, bus, lg)
	productService := product.NewService(productRepo, guard, lg)

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gormDB,
		Router:   chi.NewRouter(),
		EventBus: bus,
		Handlers: rest.Handlers{
			Auth:    auth.NewHandler(authService, userService, auth.NewCookiePolicy(config.Security), lg),
			Guard:   guard,
			User:    user.NewHandler(userService, lg),
			Order:   order.NewHandler(orderService, lg),
			Product: product.NewHandler(productService, lg),
		},
		Logger: lg,
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool with GORM so both use one set of connections.
func initGorm(sqlDB *sql.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
}
