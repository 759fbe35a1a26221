package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string    `yaml:"log_level"`
	DB       *Postgres `yaml:"database"`
	RMQ      *RabbitMQ `yaml:"rabbitmq"`
	Redis    *Redis    `yaml:"redis"`
	Auth     Auth      `yaml:"auth"`
	Uploads  Uploads   `yaml:"uploads"`
	Orders   Orders    `yaml:"orders"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Auth struct {
	Secret        string        `yaml:"secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	SecureCookies bool          `yaml:"secure_cookies"`
	// LoginPerMinute bounds login attempts per client address.
	LoginPerMinute int `yaml:"login_per_minute"`
}

type Uploads struct {
	Driver    string `yaml:"driver"` // local | s3
	Dir       string `yaml:"dir"`
	URLPrefix string `yaml:"url_prefix"`
	MaxBytes  int64  `yaml:"max_bytes"`
	S3        S3     `yaml:"s3"`
}

type S3 struct {
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	PublicBaseURL string `yaml:"public_base_url"`
	UsePathStyle  bool   `yaml:"use_path_style"`
}

type Orders struct {
	// StrictTransitions enforces the order status transition table.
	// When false any status may be set from any other status.
	StrictTransitions bool   `yaml:"strict_transitions"`
	CustomerName      string `yaml:"default_customer_name"`
}

const (
	UploadsLocal = "local"
	UploadsS3    = "s3"
)

// Defaults returns the configuration used for keys missing from the yaml file.
func Defaults() *Config {
	return &Config{
		LogLevel: "info",
		DB: &Postgres{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Database: "food_ordering",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		Auth: Auth{
			TokenTTL:       12 * time.Hour,
			LoginPerMinute: 10,
		},
		Uploads: Uploads{
			Driver:    UploadsLocal,
			Dir:       "public/uploads",
			URLPrefix: "/uploads/",
			MaxBytes:  5 << 20,
		},
		Orders: Orders{
			StrictTransitions: true,
			CustomerName:      "Guest",
		},
	}
}

// LoadConfig reads the yaml file at configPath over the defaults and then applies
// environment overrides. A missing file is not an error: env and defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB == nil {
		return errors.New("database section is required")
	}
	if c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("database host and name are required")
	}
	if len(c.Auth.Secret) < 16 {
		return errors.New("auth secret must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive: %s", c.Auth.TokenTTL)
	}
	switch c.Uploads.Driver {
	case UploadsLocal:
		if c.Uploads.Dir == "" {
			return errors.New("uploads dir is required for local driver")
		}
	case UploadsS3:
		if c.Uploads.S3.Bucket == "" {
			return errors.New("uploads s3 bucket is required for s3 driver")
		}
	default:
		return fmt.Errorf("unknown uploads driver: %q", c.Uploads.Driver)
	}
	if c.Redis != nil && c.Redis.Addr == "" {
		return errors.New("redis addr is required when redis section is present")
	}
	return nil
}

// DSN builds the pgx connection string.
func (p *Postgres) DSN() string {
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     "/" + p.Database,
		RawQuery: "sslmode=" + sslmode,
	}
	return u.String()
}

// URL builds the amqp connection string.
func (r *RabbitMQ) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		url.PathEscape(r.User),
		url.PathEscape(r.Password),
		r.Host,
		r.Port,
		url.PathEscape(r.VHost),
	)
}

func applyEnv(cfg *Config) {
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.DB.Host = getEnv("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnv("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = getEnv("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Password = getEnv("POSTGRES_PASSWORD", cfg.DB.Password)
	cfg.DB.Database = getEnv("POSTGRES_DBNAME", cfg.DB.Database)
	cfg.DB.SSLMode = getEnv("POSTGRES_SSLMODE", cfg.DB.SSLMode)

	if host := os.Getenv("RABBITMQ_HOST"); host != "" {
		if cfg.RMQ == nil {
			cfg.RMQ = &RabbitMQ{Port: "5672", User: "guest", Password: "guest"}
		}
		cfg.RMQ.Host = host
	}
	if cfg.RMQ != nil {
		cfg.RMQ.Port = getEnv("RABBITMQ_PORT", cfg.RMQ.Port)
		cfg.RMQ.User = getEnv("RABBITMQ_USER", cfg.RMQ.User)
		cfg.RMQ.Password = getEnv("RABBITMQ_PASSWORD", cfg.RMQ.Password)
		cfg.RMQ.VHost = getEnv("RABBITMQ_VHOST", cfg.RMQ.VHost)
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		if cfg.Redis == nil {
			cfg.Redis = &Redis{}
		}
		cfg.Redis.Addr = addr
	}
	if cfg.Redis != nil {
		cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
		cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)
	}

	cfg.Auth.Secret = getEnv("AUTH_SECRET", cfg.Auth.Secret)
	cfg.Uploads.Driver = getEnv("UPLOADS_DRIVER", cfg.Uploads.Driver)
	cfg.Uploads.Dir = getEnv("UPLOADS_DIR", cfg.Uploads.Dir)
	cfg.Uploads.S3.Bucket = getEnv("UPLOADS_S3_BUCKET", cfg.Uploads.S3.Bucket)
	cfg.Uploads.S3.Region = getEnv("UPLOADS_S3_REGION", cfg.Uploads.S3.Region)
	cfg.Uploads.S3.Endpoint = getEnv("UPLOADS_S3_ENDPOINT", cfg.Uploads.S3.Endpoint)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
