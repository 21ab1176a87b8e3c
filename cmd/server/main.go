// quant 服务入口：多角色量化策略平台的 REST 后端。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathamjain99/Quant/internal/activity"
	"github.com/prathamjain99/Quant/internal/config"
	"github.com/prathamjain99/Quant/internal/dashboard"
	"github.com/prathamjain99/Quant/internal/portfolio"
	"github.com/prathamjain99/Quant/internal/product"
	"github.com/prathamjain99/Quant/internal/router"
	"github.com/prathamjain99/Quant/internal/strategy"
	"github.com/prathamjain99/Quant/internal/trade"
	"github.com/prathamjain99/Quant/internal/user"
	"github.com/prathamjain99/Quant/pkg/app"
	"github.com/prathamjain99/Quant/pkg/cache"
	"github.com/prathamjain99/Quant/pkg/database"
	"github.com/prathamjain99/Quant/pkg/idgen"
	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/metrics"
	"github.com/prathamjain99/Quant/pkg/redis"
	"github.com/prathamjain99/Quant/pkg/server"
)

var confPath = flag.String("conf", "configs/config.toml", "配置文件路径")

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var conf config.Config
	if err := config.Load(*confPath, &conf); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.InitLogger(conf.ToLoggingConfig("server"))
	logger := logging.Default()
	config.PrintWithMask(&conf)

	if conf.Server.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := idgen.Init(conf.Snowflake); err != nil {
		return fmt.Errorf("init id generator: %w", err)
	}

	var m *metrics.Metrics
	var metricsCleanup func()
	if conf.Metrics.Enabled {
		m = metrics.NewMetrics(conf.Server.Name)
		metricsCleanup = m.ExposeHTTP(conf.Metrics.Port)
	}

	db, err := database.NewDB(conf.Data.Database, conf.CircuitBreaker, logger, m)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	database.SetDefault(db)

	gormDB := db.RawDB()
	if err := gormDB.AutoMigrate(
		&user.User{},
		&strategy.Strategy{},
		&activity.Log{},
		&product.Product{},
		&trade.Trade{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// 统计缓存是可选依赖，Redis 不可用时降级为直查数据库。
	var statsCache cache.Cache
	var redisCleanup func()
	if conf.Cache.Enabled {
		client, cleanup, err := redis.NewClient(&conf.Data.Redis, logger)
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		redisCleanup = cleanup
		statsCache = cache.NewRedisCacheFromClient(client, conf.Cache.Prefix)
	}

	activityRepo := activity.NewRepository(gormDB)
	recorder := activity.NewRecorder(activityRepo, logger)

	userRepo := user.NewRepository(gormDB)
	userSvc := user.NewService(userRepo, conf.JWT, logger)

	strategyRepo := strategy.NewRepository(gormDB)
	strategySvc := strategy.NewService(strategyRepo, recorder, statsCache, conf.Cache.DefaultExpiration, logger)

	productRepo := product.NewRepository(gormDB)

	tradeRepo := trade.NewRepository(gormDB)
	tradeSvc := trade.NewService(tradeRepo, productRepo, recorder, logger)

	portfolioSvc := portfolio.NewService(tradeRepo)
	dashboardSvc := dashboard.NewService(strategyRepo, tradeRepo, productRepo, activityRepo, userRepo)

	if conf.Seed.Enabled {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := user.SeedDemoUsers(seedCtx, userRepo, logger); err != nil {
			logger.Warn("failed to seed demo users", "error", err)
		}
		cancel()
	}

	engine := router.New(&conf, logger.Logger, m, router.Handlers{
		User:      user.NewHandler(userSvc),
		Strategy:  strategy.NewHandler(strategySvc),
		Trade:     trade.NewHandler(tradeSvc),
		Product:   product.NewHandler(productRepo),
		Portfolio: portfolio.NewHandler(portfolioSvc),
		Dashboard: dashboard.NewHandler(dashboardSvc),
		Activity:  activity.NewHandler(activityRepo),
	})

	addr := fmt.Sprintf("%s:%d", conf.Server.HTTP.Addr, conf.Server.HTTP.Port)
	httpServer := server.NewGinServer(engine, addr, logger.Logger)

	opts := []app.Option{
		app.WithServer(httpServer),
		app.WithCleanup(recorder.Close),
	}
	if redisCleanup != nil {
		opts = append(opts, app.WithCleanup(redisCleanup))
	}
	if metricsCleanup != nil {
		opts = append(opts, app.WithCleanup(metricsCleanup))
	}

	return app.New(conf.Server.Name, logger.Logger, opts...).Run()
}
