package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Export   ExportConfig   `mapstructure:"export"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `mapstructure:"port"`
	BodyLimit   int64         `mapstructure:"body_limit"`   // bytes
	UploadLimit int64         `mapstructure:"upload_limit"` // bytes, multipart uploads
	CORS        CORSConfig    `mapstructure:"cors"`
	LoginLimit  int           `mapstructure:"login_limit"` // login attempts per window
	LoginWindow time.Duration `mapstructure:"login_window"`
}

// CORSConfig lists the origins the front end is served from.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig holds PostgreSQL settings.
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
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig holds redis settings. Redis is optional.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig holds staff authentication settings.
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	BootstrapAdmin bool          `mapstructure:"bootstrap_admin"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// JobsConfig holds the cron schedules of background jobs (seconds field first).
type JobsConfig struct {
	CleanupEnabled bool   `mapstructure:"cleanup_enabled"`
	CleanupCron    string `mapstructure:"cleanup_cron"`
	ExportEnabled  bool   `mapstructure:"export_enabled"`
	ExportCron     string `mapstructure:"export_cron"`
}

// ExportConfig holds the database export destination.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration.
// Precedence: environment > config file > .env > defaults.
func Load(path string) (*Config, error) {
	// .env only seeds the process environment; missing file is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.upload_limit", 10<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:4200"})
	v.SetDefault("server.login_limit", 10)
	v.SetDefault("server.login_window", "1m")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "helpdesk")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "4h")
	v.SetDefault("auth.bootstrap_admin", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("jobs.cleanup_enabled", true)
	v.SetDefault("jobs.cleanup_cron", "0 0 0 * * *")
	v.SetDefault("jobs.export_enabled", false)
	v.SetDefault("jobs.export_cron", "0 0 1 * * 0")

	v.SetDefault("export.dir", "./exports")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("HELPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("invalid config: auth.access_token_ttl must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if c.Jobs.CleanupEnabled {
		if _, err := parser.Parse(c.Jobs.CleanupCron); err != nil {
			return fmt.Errorf("invalid config: jobs.cleanup_cron: %w", err)
		}
	}
	if c.Jobs.ExportEnabled {
		if _, err := parser.Parse(c.Jobs.ExportCron); err != nil {
			return fmt.Errorf("invalid config: jobs.export_cron: %w", err)
		}
		if c.Export.Dir == "" {
			return fmt.Errorf("invalid config: export.dir is required when jobs.export_enabled is set")
		}
	}
	return nil
}
