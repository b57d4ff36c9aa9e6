package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Artifact storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// artifact storage, dataset building, background training and graceful
// shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" env-default:"" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes limits the size of request bodies
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"65536" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// CORSOrigins lists the origins allowed to call the API; "*" allows any
		CORSOrigins []string `env:"HTTP_CORS_ORIGINS" env-default:"*" yaml:"corsOrigins"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"fraudrisk" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Artifact selects and configures where the trained model is stored
	Artifact struct {
		// Backend is one of file, postgres, sqlite or redis
		Backend string `env:"ARTIFACT_BACKEND" env-default:"file" yaml:"backend"`
		// FilePath is the artifact file of the file backend
		FilePath string `env:"ARTIFACT_FILE_PATH" env-default:"model.bin" yaml:"filePath"`
		// SQLitePath is the database file of the sqlite backend
		SQLitePath string `env:"ARTIFACT_SQLITE_PATH" env-default:"fraudrisk.db" yaml:"sqlitePath"`
		// MetricsPath is where train writes the report interchange JSON; empty disables it
		MetricsPath string `env:"ARTIFACT_METRICS_PATH" env-default:"model_metrics.json" yaml:"metricsPath"`

		// Redis configures the redis backend
		Redis struct {
			// Addr is the redis server address
			Addr string `env:"ARTIFACT_REDIS_ADDR" env-default:"localhost:6379" yaml:"addr"`
			// Password for redis authentication
			Password string `env:"ARTIFACT_REDIS_PASSWORD" env-default:"" yaml:"password"`
			// DB is the redis logical database
			DB int `env:"ARTIFACT_REDIS_DB" env-default:"0" yaml:"db"`
			// Key holds the artifact envelope
			Key string `env:"ARTIFACT_REDIS_KEY" env-default:"fraudrisk:artifact" yaml:"key"`
		} `yaml:"redis"`
	} `yaml:"artifact"`

	// Dataset contains the placeholder values of features that are not computed yet
	Dataset struct {
		// DomainAge is the placeholder domain age in years
		DomainAge int `env:"DATASET_DOMAIN_AGE" env-default:"1" yaml:"domainAge"`
		// WhoisPrivacy is the placeholder whois privacy flag
		WhoisPrivacy int `env:"DATASET_WHOIS_PRIVACY" env-default:"1" yaml:"whoisPrivacy"`
		// SpamScore is the placeholder spam score
		SpamScore float64 `env:"DATASET_SPAM_SCORE" env-default:"0.8" yaml:"spamScore"`
	} `yaml:"dataset"`

	// Worker configures background training
	Worker struct {
		// MaxWorkers is the number of training jobs processed concurrently
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"1" yaml:"maxWorkers"`
		// MaxAttempts is how many times a failing training job is tried
		MaxAttempts int `env:"WORKER_MAX_ATTEMPTS" env-default:"3" yaml:"maxAttempts"`
		// JobTimeout bounds a single training attempt; zero disables it
		JobTimeout time.Duration `env:"WORKER_JOB_TIMEOUT" env-default:"30m" yaml:"jobTimeout"`
		// DataDir is the only directory queued training runs may read; relative
		// source paths are resolved against it
		DataDir string `env:"WORKER_DATA_DIR" env-default:"data" yaml:"dataDir"`
	} `yaml:"worker"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// An empty path reads the environment only.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Artifact.Backend {
	case BackendFile, BackendPostgres, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown artifact backend %q", c.Artifact.Backend)
	}
	if c.Dataset.SpamScore < 0 || c.Dataset.SpamScore > 1 {
		return fmt.Errorf("dataset spam score %g is outside [0, 1]", c.Dataset.SpamScore)
	}
	if c.Dataset.WhoisPrivacy != 0 && c.Dataset.WhoisPrivacy != 1 {
		return fmt.Errorf("dataset whois privacy must be 0 or 1, got %d", c.Dataset.WhoisPrivacy)
	}
	if c.Worker.DataDir == "" {
		return fmt.Errorf("worker data dir must not be empty")
	}
	if c.Dataset.DomainAge < 0 {
		return fmt.Errorf("dataset domain age must not be negative, got %d", c.Dataset.DomainAge)
	}

	return nil
}
