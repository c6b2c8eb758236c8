// Package app wires configuration, storage, usecases and transports into a
// runnable service. Both server binaries build on it.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-sales-service/config"
	"github.com/fekuna/omnipos-sales-service/internal/broker"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/category"
	catH "github.com/fekuna/omnipos-sales-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-sales-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-sales-service/internal/category/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/event"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	invH "github.com/fekuna/omnipos-sales-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-sales-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/middleware"
	"github.com/fekuna/omnipos-sales-service/internal/order"
	orderH "github.com/fekuna/omnipos-sales-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-sales-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-sales-service/internal/order/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	prodH "github.com/fekuna/omnipos-sales-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-sales-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-sales-service/internal/product/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	reportH "github.com/fekuna/omnipos-sales-service/internal/report/handler"
	reportRepoPkg "github.com/fekuna/omnipos-sales-service/internal/report/repository"
	reportUCPkg "github.com/fekuna/omnipos-sales-service/internal/report/usecase"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

type App struct {
	Config *config.Config
	Logger logger.ZapLogger
	DB     *sqlx.DB

	Orders     order.UseCase
	Reports    report.UseCase
	Inventory  inventory.UseCase
	Products   product.UseCase
	Categories category.UseCase

	listener *invListenerPkg.InventoryListener
	closers  []func() error
}

// NewLogger builds the service logger. "dev" and "development" switch to
// the console encoder at debug level.
func NewLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}
	return logger.NewZapLogger(logConfig)
}

// New connects every configured backend and builds the usecases. Redis and
// Kafka are only dialed when enabled. Call Close to release them.
func New(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	// 1. Database
	db, err := database.Open(ctx, &database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)
	log.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
	}

	dialect, err := database.DialectFor(cfg.Database.Driver)
	if err != nil {
		a.Close()
		return nil, err
	}
	policy, err := inventory.ParseStockPolicy(cfg.Inventory.StockPolicy)
	if err != nil {
		a.Close()
		return nil, err
	}

	// 2. Redis
	var store report.Cache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		store = redisClient
		a.closers = append(a.closers, redisClient.Close)
		log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 3. Kafka
	var publisher order.EventPublisher
	var consumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		brokerCfg := &broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}
		producer := broker.NewProducer(brokerCfg)
		consumer = broker.NewConsumer(brokerCfg)
		a.closers = append(a.closers, producer.Close, consumer.Close)
		publisher = event.NewKafkaPublisher(producer)
		log.Info("Kafka enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 4. Repositories
	invRepo := invRepoPkg.NewSQLRepository(db, policy)
	orderRepo := orderRepoPkg.NewSQLRepository(db, dialect)
	reportRepo := reportRepoPkg.NewSQLRepository(db, dialect, cfg.Report.CostRatio)
	prodRepo := prodRepoPkg.NewSQLRepository(db)
	catRepo := catRepoPkg.NewSQLRepository(db)

	// 5. UseCases
	a.Reports = reportUCPkg.NewReportUseCase(reportRepo, store, reportUCPkg.Options{
		DefaultTopN: cfg.Report.DefaultTopN,
		DetailLimit: cfg.Report.DetailLimit,
		CacheTTL:    cfg.Report.CacheTTL,
		Clock:       time.Now,
	}, log)
	a.Inventory = invUCPkg.NewInventoryUseCase(invRepo, log)
	a.Categories = catUCPkg.NewCategoryUseCase(catRepo, a.Reports, log)
	a.Products = prodUCPkg.NewProductUseCase(prodRepo, prodUCPkg.Options{
		Categories: a.Categories,
		Cache:      store,
		CacheTTL:   cfg.Report.CacheTTL,
		Reports:    a.Reports,
	}, log)
	a.Orders = orderUCPkg.NewOrderUseCase(orderRepo, invRepo, database.NewTxManager(db), orderUCPkg.Options{
		RequireUniqueID: cfg.Order.RequireUniqueID,
		Publisher:       publisher,
		Reports:         a.Reports,
		Catalog:         a.Products,
	}, log)

	// 6. Listeners
	if consumer != nil {
		a.listener = invListenerPkg.NewInventoryListener(consumer, a.Inventory, log)
	}

	log.Info("Service initialized",
		zap.String("stock_policy", policy.String()),
		zap.Bool("require_unique_order_id", cfg.Order.RequireUniqueID),
		zap.Bool("cache", store != nil),
		zap.Bool("events", publisher != nil),
	)
	return a, nil
}

// StartBackground runs the low-stock listener until ctx is cancelled. It is
// a no-op when Kafka is disabled.
func (a *App) StartBackground(ctx context.Context) {
	if a.listener != nil {
		go a.listener.Start(ctx)
	}
}

func (a *App) RegisterGRPC(s grpc.ServiceRegistrar) {
	orderH.NewOrderGRPCHandler(a.Orders, a.Logger).Register(s)
	reportH.NewReportGRPCHandler(a.Reports, a.Logger).Register(s)
	invH.NewInventoryGRPCHandler(a.Inventory, a.Logger).Register(s)
	prodH.NewProductGRPCHandler(a.Products, a.Logger).Register(s)
	catH.NewCategoryGRPCHandler(a.Categories, a.Logger).Register(s)
}

// NewGRPCServer returns a server with the logging and context interceptors
// and every service registered.
func (a *App) NewGRPCServer() *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware.ContextInterceptor(),
		middleware.LoggingInterceptor(a.Logger),
	))
	a.RegisterGRPC(s)
	return s
}

func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(a.Logger), middleware.Cashier())

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	orderH.NewOrderHTTPHandler(a.Orders, a.Logger).RegisterRoutes(api)
	reportH.NewReportHTTPHandler(a.Reports, a.Logger).RegisterRoutes(api)
	invH.NewInventoryHTTPHandler(a.Inventory, a.Logger).RegisterRoutes(api)
	prodH.NewProductHTTPHandler(a.Products, a.Logger).RegisterRoutes(api)
	catH.NewCategoryHTTPHandler(a.Categories, a.Logger).RegisterRoutes(api)
	return r
}

// Close releases backends in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	a.closers = nil
}
