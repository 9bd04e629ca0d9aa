package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. ESTAIT_DATABASE_PASSWORD
const EnvPrefix = "ESTAIT"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Event     EventConfig
	HTTP      HTTPConfig
	Scheduler SchedulerConfig
	Storage   StorageConfig
	Printing  PrintingConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
	Profiling ProfilingConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Timezone string // IANA name used to decide "today" for lease status
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// Location returns the configured time zone, UTC when unset or unknown
func (a AppConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string // debug, info, warn, error
	Format   string // json, console
	Output   string // stdout, stderr, or file path
	GormMode string // silent, error, warn, info
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int

	// Required turns an unreachable Redis into a startup error instead of a
	// fallback to the in-memory idempotency store
	Required bool
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds bearer token validation settings. Tokens are issued by the
// hosted auth service; this service only verifies them.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	Required bool // reject requests without a token even outside production
}

// EventConfig holds event dispatch configuration
type EventConfig struct {
	IdempotencyEnabled bool
	IdempotencyTTL     time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	Enabled            bool
	SweepInterval      time.Duration // lease status sweep
	RentChargeInterval time.Duration // scheduled rent charges
	Workers            int
	QueueSize          int
	JobTimeout         time.Duration
	RetryAttempts      int
	RetryDelay         time.Duration
	SweepConcurrency   int // owners swept in parallel
}

// StorageConfig holds document object storage settings
type StorageConfig struct {
	Provider        string // s3 or memory
	Bucket          string
	Region          string
	Endpoint        string // custom endpoint for S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignTTL      time.Duration
}

// PrintingConfig holds headless Chrome settings for PDF statements
type PrintingConfig struct {
	Enabled       bool
	RemoteURL     string // DevTools websocket URL of a remote Chrome; empty launches a local one
	ChromePath    string
	NoSandbox     bool
	Timeout       time.Duration
	MaxConcurrent int
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string // IP whitelist (empty = allow all)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	LogExportEnabled  bool
	MetricInterval    time.Duration
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
}

// ProfilingConfig holds Pyroscope continuous profiling configuration
type ProfilingConfig struct {
	Enabled              bool
	ServerAddress        string
	ApplicationName      string
	BasicAuthUser        string
	BasicAuthPassword    string
	SpanProfiles         bool // link CPU samples to trace spans, needs telemetry.enabled
	MutexProfileFraction int  // 0 disables mutex profiles
	BlockProfileRate     int  // 0 disables block profiles
}

// Load loads configuration. Priority (highest to lowest):
//  1. Environment variables with the ESTAIT_ prefix (ESTAIT_DATABASE_PASSWORD)
//  2. A .env file (path from ESTAIT_ENV_FILE, default ./.env)
//  3. config.toml in ., ./config or /app
//  4. Built-in defaults
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")
	if file := os.Getenv(EnvPrefix + "_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)
	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	file := os.Getenv(EnvPrefix + "_ENV_FILE")
	if file == "" {
		file = ".env"
	}
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading env file %s: %w", file, err)
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:     v.GetString("app.name"),
			Env:      v.GetString("app.env"),
			Port:     v.GetString("app.port"),
			Timezone: v.GetString("app.timezone"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Required: v.GetBool("redis.required"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:   v.GetString("jwt.secret"),
			Issuer:   v.GetString("jwt.issuer"),
			Audience: v.GetString("jwt.audience"),
			Required: v.GetBool("jwt.required"),
		},
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Format:   v.GetString("log.format"),
			Output:   v.GetString("log.output"),
			GormMode: v.GetString("log.gorm_mode"),
		},
		Event: EventConfig{
			IdempotencyEnabled: v.GetBool("event.idempotency_enabled"),
			IdempotencyTTL:     v.GetDuration("event.idempotency_ttl"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Scheduler: SchedulerConfig{
			Enabled:            v.GetBool("scheduler.enabled"),
			SweepInterval:      v.GetDuration("scheduler.sweep_interval"),
			RentChargeInterval: v.GetDuration("scheduler.rent_charge_interval"),
			Workers:            v.GetInt("scheduler.workers"),
			QueueSize:          v.GetInt("scheduler.queue_size"),
			JobTimeout:         v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:      v.GetInt("scheduler.retry_attempts"),
			RetryDelay:         v.GetDuration("scheduler.retry_delay"),
			SweepConcurrency:   v.GetInt("scheduler.sweep_concurrency"),
		},
		Storage: StorageConfig{
			Provider:        v.GetString("storage.provider"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PresignTTL:      v.GetDuration("storage.presign_ttl"),
		},
		Printing: PrintingConfig{
			Enabled:       v.GetBool("printing.enabled"),
			RemoteURL:     v.GetString("printing.remote_url"),
			ChromePath:    v.GetString("printing.chrome_path"),
			NoSandbox:     v.GetBool("printing.no_sandbox"),
			Timeout:       v.GetDuration("printing.timeout"),
			MaxConcurrent: v.GetInt("printing.max_concurrent"),
		},
		Swagger: SwaggerConfig{
			Enabled:    v.GetBool("swagger.enabled"),
			AllowedIPs: v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			LogExportEnabled:  v.GetBool("telemetry.log_export_enabled"),
			MetricInterval:    v.GetDuration("telemetry.metric_interval"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
		Profiling: ProfilingConfig{
			Enabled:              v.GetBool("profiling.enabled"),
			ServerAddress:        v.GetString("profiling.server_address"),
			ApplicationName:      v.GetString("profiling.application_name"),
			BasicAuthUser:        v.GetString("profiling.basic_auth_user"),
			BasicAuthPassword:    v.GetString("profiling.basic_auth_password"),
			SpanProfiles:         v.GetBool("profiling.span_profiles"),
			MutexProfileFraction: v.GetInt("profiling.mutex_profile_fraction"),
			BlockProfileRate:     v.GetInt("profiling.block_profile_rate"),
		},
	}
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	setDefault(&cfg.App.Name, "estait-api")
	setDefault(&cfg.App.Env, "development")
	setDefault(&cfg.App.Port, "8080")
	setDefault(&cfg.App.Timezone, "UTC")

	setDefault(&cfg.Database.Host, "localhost")
	setDefault(&cfg.Database.Port, 5432)
	setDefault(&cfg.Database.User, "postgres")
	setDefault(&cfg.Database.DBName, "estait")
	setDefault(&cfg.Database.SSLMode, "disable")
	setDefault(&cfg.Database.MaxOpenConns, 25)
	setDefault(&cfg.Database.MaxIdleConns, 5)
	setDefault(&cfg.Database.ConnMaxLifetime, 60)
	setDefault(&cfg.Database.ConnMaxIdleTime, 30)

	setDefault(&cfg.Redis.Host, "localhost")
	setDefault(&cfg.Redis.Port, 6379)

	setDefault(&cfg.Log.Level, "info")
	setDefault(&cfg.Log.Format, "console")
	setDefault(&cfg.Log.Output, "stdout")
	setDefault(&cfg.Log.GormMode, "warn")

	setDefault(&cfg.Event.IdempotencyTTL, 48*time.Hour)

	setDefault(&cfg.HTTP.ReadTimeout, 15*time.Second)
	setDefault(&cfg.HTTP.WriteTimeout, 30*time.Second)
	setDefault(&cfg.HTTP.IdleTimeout, 60*time.Second)
	setDefault(&cfg.HTTP.ShutdownTimeout, 20*time.Second)
	setDefault(&cfg.HTTP.MaxHeaderBytes, 1<<20)
	setDefault(&cfg.HTTP.MaxBodySize, int64(1<<20))
	setDefault(&cfg.HTTP.RateLimitRequests, 120)
	setDefault(&cfg.HTTP.RateLimitWindow, time.Minute)
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Owner-ID"}
	}

	setDefault(&cfg.Scheduler.SweepInterval, time.Hour)
	setDefault(&cfg.Scheduler.RentChargeInterval, 6*time.Hour)
	setDefault(&cfg.Scheduler.Workers, 2)
	setDefault(&cfg.Scheduler.QueueSize, 16)
	setDefault(&cfg.Scheduler.JobTimeout, 10*time.Minute)
	setDefault(&cfg.Scheduler.RetryAttempts, 3)
	setDefault(&cfg.Scheduler.RetryDelay, 30*time.Second)
	setDefault(&cfg.Scheduler.SweepConcurrency, 4)

	setDefault(&cfg.Storage.Provider, "memory")
	setDefault(&cfg.Storage.Bucket, "estait-documents")
	setDefault(&cfg.Storage.Region, "us-east-1")
	setDefault(&cfg.Storage.PresignTTL, 15*time.Minute)

	setDefault(&cfg.Printing.Timeout, 30*time.Second)
	setDefault(&cfg.Printing.MaxConcurrent, 2)

	setDefault(&cfg.Telemetry.CollectorEndpoint, "localhost:4317")
	setDefault(&cfg.Telemetry.SamplingRatio, 1.0)
	setDefault(&cfg.Telemetry.ServiceName, "estait-api")
	setDefault(&cfg.Telemetry.MetricInterval, 30*time.Second)
	setDefault(&cfg.Telemetry.DBSlowQueryThresh, 200*time.Millisecond)

	setDefault(&cfg.Profiling.ApplicationName, "estait-api")
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone %q is not a valid IANA time zone", c.App.Timezone)
	}

	switch c.Storage.Provider {
	case "memory":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 provider")
		}
	default:
		return fmt.Errorf("storage.provider must be s3 or memory, got %q", c.Storage.Provider)
	}

	if c.Scheduler.Workers <= 0 || c.Scheduler.QueueSize <= 0 {
		return fmt.Errorf("scheduler.workers and scheduler.queue_size must be positive")
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Profiling.Enabled && c.Profiling.ServerAddress == "" {
		return fmt.Errorf("profiling.server_address is required when profiling is enabled")
	}

	if c.App.IsProduction() {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Storage.Provider == "memory" {
			return fmt.Errorf("storage.provider cannot be memory in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled or IP-restricted in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}
	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
