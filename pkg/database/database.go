package database

import (
	"errors"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/prathamjain99/Quant/pkg/breaker"
	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/metrics"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

var (
	defaultDB *DB
	// ErrTransactionFailed 事务执行失败.
	ErrTransactionFailed = errors.New("transaction failed")
)

const (
	defaultSlowThreshold = 200 * time.Millisecond
	errBadRequest        = 400
)

// Config 定义数据库连接参数.
type Config struct {
	Driver          string        `mapstructure:"driver"            toml:"driver"`
	DSN             string        `mapstructure:"dsn"               toml:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    toml:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    toml:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" toml:"conn_max_lifetime"`
}

// DB 封装了 GORM 实例.
type DB struct {
	*gorm.DB
	cfg     *Config
	breaker *breaker.Breaker
	logger  *logging.Logger
}

// Default 返回全局默认的数据库连接实例.
func Default() *DB {
	return defaultDB
}

// SetDefault 设置全局默认数据库连接.
func SetDefault(db *DB) {
	defaultDB = db
}

// NewDB 初始化并返回一个功能增强的数据库连接封装.
func NewDB(cfg Config, cbCfg breaker.Config, logger *logging.Logger, m *metrics.Metrics) (*DB, error) {
	var dialer gorm.Dialector

	dsn := cfg.DSN
	switch cfg.Driver {
	case "mysql":
		dialer = mysql.Open(dsn)
	case "postgres":
		dialer = postgres.Open(dsn)
	default:
		return nil, xerrors.New(xerrors.ErrInvalidArg, errBadRequest, "unsupported database driver", cfg.Driver, nil)
	}

	gormDB, err := gorm.Open(dialer, &gorm.Config{
		Logger:      logging.NewGormLogger(logger, defaultSlowThreshold),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to open database connection")
	}

	if errTracing := gormDB.Use(tracing.NewPlugin()); errTracing != nil {
		return nil, xerrors.WrapInternal(errTracing, "failed to register gorm otel plugin")
	}

	sqlDB, errDB := gormDB.DB()
	if errDB != nil {
		return nil, xerrors.WrapInternal(errDB, "failed to get underlying sql.DB")
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	cb := breaker.NewBreaker(breaker.Settings{
		Name:   "database-" + cfg.Driver,
		Config: cbCfg,
	}, m)

	db := &DB{
		DB:      gormDB,
		cfg:     &cfg,
		breaker: cb,
		logger:  logger,
	}

	return db, nil
}

// Transaction 封装了带熔断保护的事务逻辑.
func (db *DB) Transaction(fc func(tx *gorm.DB) error) error {
	_, err := db.breaker.Execute(func() (any, error) {
		errTx := db.DB.Transaction(fc)
		if errTx != nil {
			return nil, xerrors.Wrap(errTx, xerrors.ErrInternal, ErrTransactionFailed.Error())
		}

		return struct{}{}, nil
	})

	return err
}

// RawDB 暴露原始 GORM 实例.
func (db *DB) RawDB() *gorm.DB {
	return db.DB
}
