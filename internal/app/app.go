package app

import (
	"context"
	"database/sql"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargegrid/internal/config"
	httpserver "chargegrid/internal/http"
	"chargegrid/internal/http/handlers"
	"chargegrid/internal/password"
	redisstore "chargegrid/internal/redis"
	"chargegrid/internal/repository"
	"chargegrid/internal/scope"
	"chargegrid/internal/service"
	libdb "chargegrid/libs/db"
	libredis "chargegrid/libs/redis"
)

// App wires the management service dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgres(cfg.Database.DSN, libdb.PoolOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	tagRepo := repository.NewChargeTagRepository(sqlDB)
	pointRepo := repository.NewChargePointRepository(sqlDB)
	connectorRepo := repository.NewConnectorStatusRepository(sqlDB)
	transactionRepo := repository.NewTransactionRepository(sqlDB)
	userPointRepo := repository.NewUserChargePointRepository(sqlDB)

	var scopes scope.Provider = scope.NewStoreProvider(userRepo, tagRepo, userPointRepo)
	var scopeCache *redisstore.ScopeCache
	var redisClient *redis.Client

	// The scope cache is optional: without a redis address every request
	// resolves its scope from the store.
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		redisClient, err = libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		scopeCache = redisstore.NewScopeCache(redisClient, cfg.ScopeTTL())
		scopes = scope.NewCachedProvider(scopes, scopeCache, logger)
	}

	resolver := service.NewDateRangeResolver(transactionRepo, nil)
	reportSvc := service.NewReportService(transactionRepo, connectorRepo, pointRepo, resolver, logger)

	var invalidator service.ScopeInvalidator
	if scopeCache != nil {
		invalidator = scopeCache
	}
	assignmentSvc := service.NewAssignmentService(tagRepo, userPointRepo, invalidator, logger)

	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	accountSvc := service.NewAccountService(userRepo, hasher, logger)

	routes := httpserver.Routes{
		ChargeReport:     handlers.NewChargeReportHandler(reportSvc, scopes, logger),
		Transactions:     handlers.NewTransactionsHandler(reportSvc, scopes, logger),
		MyTransactions:   handlers.NewMyTransactionsHandler(reportSvc, scopes, logger),
		MyChargeTags:     handlers.NewMyChargeTagsHandler(assignmentSvc, logger),
		ListUsers:        handlers.NewListUsersHandler(accountSvc, scopes, logger),
		CreateUser:       handlers.NewCreateUserHandler(accountSvc, scopes, logger),
		UpdateUser:       handlers.NewUpdateUserHandler(accountSvc, scopes, logger),
		DeleteUser:       handlers.NewDeleteUserHandler(accountSvc, scopes, logger),
		AssignChargeTag:  handlers.NewAssignChargeTagHandler(assignmentSvc, scopes, logger),
		SyncChargePoints: handlers.NewSyncChargePointsHandler(assignmentSvc, scopes, logger),
		Health:           handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
