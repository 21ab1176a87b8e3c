// Package config 提供了统一的配置加载与管理能力，支持 TOML 文件、环境变量覆盖与热更新。
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/prathamjain99/Quant/pkg/breaker"
	"github.com/prathamjain99/Quant/pkg/database"
	"github.com/prathamjain99/Quant/pkg/idgen"
	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/redis"
)

// Config 全局顶级配置结构.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"         toml:"server"`
	Data           DataConfig           `mapstructure:"data"           toml:"data"`
	Log            LogConfig            `mapstructure:"log"            toml:"log"`
	JWT            JWTConfig            `mapstructure:"jwt"            toml:"jwt"`
	Metrics        MetricsConfig        `mapstructure:"metrics"        toml:"metrics"`
	RateLimit      RateLimitConfig      `mapstructure:"ratelimit"      toml:"ratelimit"`
	CircuitBreaker breaker.Config       `mapstructure:"circuitbreaker" toml:"circuitbreaker"`
	Snowflake      idgen.Config         `mapstructure:"snowflake"      toml:"snowflake"`
	Cache          CacheConfig          `mapstructure:"cache"          toml:"cache"`
	CORS           CORSConfig           `mapstructure:"cors"           toml:"cors"`
	Seed           SeedConfig           `mapstructure:"seed"           toml:"seed"`
	Version        string               `mapstructure:"version"        toml:"version"`
}

// ServerConfig 定义服务器运行时的基础网络与环境参数.
type ServerConfig struct {
	Name        string `mapstructure:"name"        toml:"name"        validate:"required"`
	Environment string `mapstructure:"environment" toml:"environment" validate:"oneof=dev test prod"`
	HTTP        struct {
		Addr           string        `mapstructure:"addr"             toml:"addr"`
		Port           int           `mapstructure:"port"             toml:"port" validate:"required,min=1,max=65535"`
		Timeout        time.Duration `mapstructure:"timeout"          toml:"timeout"`
		ReadTimeout    time.Duration `mapstructure:"read_timeout"     toml:"read_timeout"`
		WriteTimeout   time.Duration `mapstructure:"write_timeout"    toml:"write_timeout"`
		IdleTimeout    time.Duration `mapstructure:"idle_timeout"     toml:"idle_timeout"`
		TrustedProxies []string      `mapstructure:"trusted_proxies"  toml:"trusted_proxies"`
	} `mapstructure:"http" toml:"http"`
}

// DataConfig 汇集了所有持久化存储与中间件的数据源配置.
type DataConfig struct {
	Database database.Config `mapstructure:"database" toml:"database"`
	Redis    redis.Config    `mapstructure:"redis"    toml:"redis"`
}

// LogConfig 定义日志输出、级别与切割策略.
type LogConfig struct {
	Level         string        `mapstructure:"level"          toml:"level"`          // 日志级别。
	File          string        `mapstructure:"file"           toml:"file"`           // 日志文件路径，为空则输出到 stdout。
	MaxSize       int           `mapstructure:"max_size"       toml:"max_size"`       // 单个文件最大大小 (MB)。
	MaxBackups    int           `mapstructure:"max_backups"    toml:"max_backups"`    // 最大备份数。
	MaxAge        int           `mapstructure:"max_age"        toml:"max_age"`        // 最大保留天数。
	Compress      bool          `mapstructure:"compress"       toml:"compress"`       // 是否启用压缩。
	SlowThreshold time.Duration `mapstructure:"slow_threshold" toml:"slow_threshold"` // HTTP 慢请求阈值。
}

// JWTConfig 身份认证令牌相关配置.
type JWTConfig struct {
	Secret         string        `mapstructure:"secret"          toml:"secret" validate:"required"`
	Issuer         string        `mapstructure:"issuer"          toml:"issuer"`
	ExpireDuration time.Duration `mapstructure:"expire_duration" toml:"expire_duration"`
}

// MetricsConfig 普罗米修斯监控指标暴露配置.
type MetricsConfig struct {
	Port    string `mapstructure:"port"    toml:"port"`
	Path    string `mapstructure:"path"    toml:"path"`
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
}

// RateLimitConfig 定义令牌桶限流参数.
type RateLimitConfig struct {
	Rate    int  `mapstructure:"rate"    toml:"rate"`
	Burst   int  `mapstructure:"burst"   toml:"burst"`
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
}

// CacheConfig 通用缓存策略配置.
type CacheConfig struct {
	Prefix            string        `mapstructure:"prefix"             toml:"prefix"`
	DefaultExpiration time.Duration `mapstructure:"default_expiration" toml:"default_expiration"`
	Enabled           bool          `mapstructure:"enabled"            toml:"enabled"`
}

// CORSConfig 定义跨域配置。
type CORSConfig struct {
	Enabled          bool          `mapstructure:"enabled"           toml:"enabled"`
	AllowOrigins     []string      `mapstructure:"allow_origins"     toml:"allow_origins"`
	AllowMethods     []string      `mapstructure:"allow_methods"     toml:"allow_methods"`
	AllowHeaders     []string      `mapstructure:"allow_headers"     toml:"allow_headers"`
	ExposeHeaders    []string      `mapstructure:"expose_headers"    toml:"expose_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials" toml:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"           toml:"max_age"`
}

// SeedConfig 控制启动时的演示数据注入.
type SeedConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
}

// ToLoggingConfig 转换为日志组件所需的配置结构.
func (c *Config) ToLoggingConfig(module string) logging.Config {
	return logging.Config{
		Service:    c.Server.Name,
		Module:     module,
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
	}
}

var vInstance = viper.New()
var onReload []func(*Config)

// RegisterReloadHook 注册配置热更新回调。
func RegisterReloadHook(hook func(*Config)) {
	if hook == nil {
		return
	}
	onReload = append(onReload, hook)
}

// Load 加载配置文件并开启热更新监听.
// 环境变量以 APP_ 为前缀覆盖同名配置项（如 APP_JWT_SECRET）。
func Load(path string, conf *Config) error {
	vInstance.SetConfigFile(path)
	vInstance.SetConfigType("toml")

	vInstance.SetEnvPrefix("APP")
	vInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vInstance.AutomaticEnv()

	if err := vInstance.ReadInConfig(); err != nil {
		return fmt.Errorf("read config error: %w", err)
	}

	if err := vInstance.Unmarshal(conf); err != nil {
		return fmt.Errorf("unmarshal config error: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(conf); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	vInstance.WatchConfig()
	vInstance.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name)
		const debounceTimeout = 500 * time.Millisecond
		time.Sleep(debounceTimeout)

		if unmarshalErr := vInstance.Unmarshal(conf); unmarshalErr != nil {
			slog.Error("reload config unmarshal failed", "error", unmarshalErr)

			return
		}

		// 配置中的日志级别变化时，自动更新全局日志级别。
		logging.SetLevel(conf.Log.Level)

		if validateErr := validate.Struct(conf); validateErr != nil {
			slog.Error("reload config validation failed", "error", validateErr)
		} else {
			slog.Info("config hot-reloaded and validated successfully")
		}

		for _, hook := range onReload {
			hook(conf)
		}
	})

	return nil
}

// PrintWithMask 脱敏打印当前配置.
func PrintWithMask(conf any) {
	data, err := json.Marshal(conf)
	if err != nil {
		slog.Error("failed to marshal config for printing", "error", err)

		return
	}

	var configMap map[string]any
	if unmarshalErr := json.Unmarshal(data, &configMap); unmarshalErr != nil {
		slog.Error("failed to unmarshal config for masking", "error", unmarshalErr)

		return
	}

	mask(configMap)

	maskedJSON, marshalErr := json.MarshalIndent(configMap, "  ", "  ")
	if marshalErr != nil {
		slog.Error("failed to marshal masked config", "error", marshalErr)

		return
	}

	slog.Info("Current effective configuration", "config", string(maskedJSON))
}

func mask(configMap map[string]any) {
	sensitiveKeys := []string{"password", "secret", "dsn", "key", "token"}

	for key, val := range configMap {
		if subMap, ok := val.(map[string]any); ok {
			mask(subMap)

			continue
		}

		if slice, ok := val.([]any); ok {
			for _, item := range slice {
				if itemMap, ok := item.(map[string]any); ok {
					mask(itemMap)
				}
			}

			continue
		}

		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(strings.ToLower(key), sensitiveKey) {
				configMap[key] = "******"

				break
			}
		}
	}
}

// GetViper 返回底层的 Viper 实例.
func GetViper() *viper.Viper {
	return vInstance
}
