package app

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ddxlab/ddxbrain/config"
	"github.com/ddxlab/ddxbrain/internal/auth"
	cardMongo "github.com/ddxlab/ddxbrain/internal/cardrepo/mongo"
	cardPostgres "github.com/ddxlab/ddxbrain/internal/cardrepo/postgres"
	"github.com/ddxlab/ddxbrain/internal/interfaces"
	"github.com/ddxlab/ddxbrain/internal/middleware"
	"github.com/ddxlab/ddxbrain/internal/routes"
	"github.com/ddxlab/ddxbrain/internal/server"
	userMongo "github.com/ddxlab/ddxbrain/internal/userrepo/mongo"
	userPostgres "github.com/ddxlab/ddxbrain/internal/userrepo/postgres"
	"github.com/ddxlab/ddxbrain/internal/userservice"
	"github.com/ddxlab/ddxbrain/pkg/databases/mongo"
	"github.com/ddxlab/ddxbrain/pkg/databases/postgres"
	"github.com/ddxlab/ddxbrain/pkg/metrics"
	"github.com/ddxlab/ddxbrain/pkg/zerolog"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
	"net/http"
)

// App wires the configuration, storage, metrics, and routes together and owns
// the HTTP server lifecycle.
type App struct {
	Server     interfaces.Server
	Config     *config.ServiceConfig
	Logger     interfaces.Logger
	privateKey *ecdsa.PrivateKey
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	// Validate the configuration
	validator := structValidator.New()
	if err := validator.Struct(cfg); err != nil {
		errors := err.(structValidator.ValidationErrors)
		return nil, fmt.Errorf("validation error: %s", errors)
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	app := &App{
		Config: cfg,
		Logger: logger,
	}

	serverInstance := server.NewServer(cfg.Host, cfg.Port, logger)
	app.Server = serverInstance

	metricsInstance := app.initializeMetrics()

	if err := app.initializePrivateKey(); err != nil {
		return nil, fmt.Errorf("failed to initialize private key: %v", err)
	}

	dbClient, err := InitializeDBClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %v", err)
	}

	userRepo, err := initializeUserRepo(cfg, dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user repository: %v", err)
	}

	cardRepo, err := InitializeCardRepo(cfg, dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize card repository: %v", err)
	}

	userService := userservice.NewUserService(userRepo, logger)

	route := routes.NewRoute(metricsInstance, userService, cardRepo, app.privateKey, validator)

	metricsHandler := promhttp.HandlerFor(
		metricsInstance.GetRegistry(),
		promhttp.HandlerOpts{})

	tracedMetricsHandler := otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)

	if err := app.Server.AddRoute(routes.MetricsRouteAPI, tracedMetricsHandler.ServeHTTP); err != nil {
		return nil, fmt.Errorf("failed to add metrics route: %v", err)
	}

	if err := app.Server.AddRoute(routes.GreetingRouteAPI, route.Greeting); err != nil {
		return nil, fmt.Errorf("failed to add greeting route: %v", err)
	}

	if err := app.Server.AddRoute(routes.UserRouteAPI, route.GetUser); err != nil {
		return nil, fmt.Errorf("failed to add user lookup route: %v", err)
	}

	if err := app.Server.AddRoute(routes.CardSearchRouteAPI, route.SearchCards); err != nil {
		return nil, fmt.Errorf("failed to add card search route: %v", err)
	}

	// Signup and login share one limiter so credential probing is throttled as a whole.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	rateLimited := middleware.RateLimitMiddleware(limiter)

	signupHandler := rateLimited(http.HandlerFunc(route.Signup))
	if err := app.Server.AddRoute(routes.SignupRouteAPI, signupHandler.ServeHTTP); err != nil {
		return nil, fmt.Errorf("failed to add signup route: %v", err)
	}

	loginHandler := rateLimited(http.HandlerFunc(route.Login))
	if err := app.Server.AddRoute(routes.LoginRouteAPI, loginHandler.ServeHTTP); err != nil {
		return nil, fmt.Errorf("failed to add login route: %v", err)
	}

	return app, nil
}

// Run starts the server and blocks until it stops.
func (app *App) Run() error {
	if err := app.Server.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}

	return nil
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)

	appMetrics.RegisterCounter(routes.GreetingRequestsTotal, routes.GreetingRequestsTotalHelp)

	appMetrics.RegisterCounter(routes.UserLookupRequestsTotal, routes.UserLookupRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.UserLookupNotFoundTotal, routes.UserLookupNotFoundTotalHelp)
	appMetrics.RegisterCounter(routes.UserLookupErrorsTotal, routes.UserLookupErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.UserLookupDurationSeconds,
		routes.UserLookupDurationSecondsHelp,
		routes.UserLookupDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.CardSearchRequestsTotal, routes.CardSearchRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.CardSearchErrorsTotal, routes.CardSearchErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.CardSearchDurationSeconds,
		routes.CardSearchDurationSecondsHelp,
		routes.CardSearchDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.SignupRequestsTotal, routes.SignupRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.SignupSuccessTotal, routes.SignupSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.SignupErrorsTotal, routes.SignupErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.SignupDurationSeconds,
		routes.SignupDurationSecondsHelp,
		routes.SignupDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.LoginRequestsTotal, routes.LoginRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.LoginSuccessTotal, routes.LoginSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.LoginFailedTotal, routes.LoginFailedTotalHelp)
	appMetrics.RegisterCounter(routes.LoginRateLimitedTotal, routes.LoginRateLimitedTotalHelp)
	appMetrics.RegisterHistogram(
		routes.LoginDurationSeconds,
		routes.LoginDurationSecondsHelp,
		routes.LoginDurationSecondsBuckets)

	return appMetrics
}

// InitializeDBClient builds and connects the database client the config selects.
// It is shared with cmd/ingest, which wires the same storage stack.
func InitializeDBClient(cfg *config.ServiceConfig, logger interfaces.Logger) (interfaces.DBClient, error) {
	var dbClient interfaces.DBClient
	var err error

	switch cfg.Database.Type {
	case "mongo":
		dbClient, err = mongo.NewMongoDB(&cfg.Database.MongoDB, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %v", err)
		}

		if err = dbClient.Connect(context.Background(), cfg.Database.MongoDB.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
		}

	case "postgres":
		dbClient = postgres.NewPostgresDatabaseClient(&cfg.Database.Postgres, logger)

		if err = dbClient.Connect(context.Background(), cfg.Database.Postgres.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
		}

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	return dbClient, nil
}

func initializeUserRepo(cfg *config.ServiceConfig, dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	var userRepo interfaces.UserRepository
	var err error

	switch cfg.Database.Type {
	case "mongo":
		userRepo, err = userMongo.NewMongoUserRepository(dbClient)
	case "postgres":
		userRepo, err = userPostgres.NewPostgresUserRepository(dbClient)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user repository: %v", err)
	}

	if err = userRepo.EnsureIndices(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure user indices: %v", err)
	}

	return userRepo, nil
}

// InitializeCardRepo builds the card repository for the configured backend.
// It is shared with cmd/ingest.
func InitializeCardRepo(cfg *config.ServiceConfig, dbClient interfaces.DBClient) (interfaces.CardRepository, error) {
	var cardRepo interfaces.CardRepository
	var err error

	switch cfg.Database.Type {
	case "mongo":
		cardRepo, err = cardMongo.NewMongoCardRepository(dbClient)
	case "postgres":
		cardRepo, err = cardPostgres.NewPostgresCardRepository(dbClient)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize card repository: %v", err)
	}

	if err = cardRepo.EnsureIndices(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure card indices: %v", err)
	}

	return cardRepo, nil
}

func (app *App) initializePrivateKey() error {
	if app.Config.PrivateKeyPath == "" {
		return fmt.Errorf("private key path is not provided in the configuration")
	}

	privateKey, err := auth.LoadECDSAPrivateKey(app.Config.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load private key: %v", err)
	}

	app.privateKey = privateKey
	return nil
}
