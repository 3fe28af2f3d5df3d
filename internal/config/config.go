package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"mywallet/internal/logger"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionStoreDB    = "db"
	SessionStoreRedis = "redis"
)

type Config struct {
	AppPort string

	// Relational store
	Driver      string
	DatabaseURL string
	SQLitePath  string
	DBTimeout   time.Duration
	AutoMigrate bool

	// Session store
	SessionStore  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BcryptCost int

	LogLevel string
	LogJSON  bool
	GinMode  string
}

// Load reads the configuration and exits on invalid input.
func Load() *Config {
	cfg, err := LoadEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// LoadEnv reads an optional .env file and then the process environment.
func LoadEnv() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	port := getenv("APP_PORT")
	if port == "" {
		port = "5000"
	}

	cfg := &Config{
		AppPort:       port,
		SessionStore:  SessionStoreDB,
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		BcryptCost:    12,
		LogLevel:      "info",
		GinMode:       getenv("GIN_MODE"),
		AutoMigrate:   true,
		DBTimeout:     5 * time.Second,
	}

	dsn := getenv("DATABASE_URL")
	switch {
	case dsn == "":
		cfg.Driver = DriverPostgres
		cfg.DatabaseURL = postgresDSN(getenv)
	case strings.HasPrefix(dsn, "sqlite://"):
		cfg.Driver = DriverSQLite
		cfg.SQLitePath = strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "file:") || dsn == ":memory:":
		cfg.Driver = DriverSQLite
		cfg.SQLitePath = dsn
	default:
		cfg.Driver = DriverPostgres
		cfg.DatabaseURL = dsn
	}
	if cfg.Driver == DriverSQLite && cfg.SQLitePath == "" {
		return nil, fmt.Errorf("DATABASE_URL: empty sqlite path")
	}

	if v := getenv("DB_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("DB_TIMEOUT_SECONDS: must be a positive integer, got %q", v)
		}
		cfg.DBTimeout = time.Duration(n) * time.Second
	}

	if v := getenv("AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("AUTO_MIGRATE: %w", err)
		}
		cfg.AutoMigrate = b
	}

	if v := getenv("SESSION_STORE"); v != "" {
		switch v {
		case SessionStoreDB, SessionStoreRedis:
			cfg.SessionStore = v
		default:
			return nil, fmt.Errorf("SESSION_STORE: unknown store %q (want %q or %q)", v, SessionStoreDB, SessionStoreRedis)
		}
	}
	if cfg.SessionStore == SessionStoreRedis && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
	}

	if v := getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("REDIS_DB: must be a non-negative integer, got %q", v)
		}
		cfg.RedisDB = n
	}

	// bcrypt accepts 4..31
	if v := getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 4 || n > 31 {
			return nil, fmt.Errorf("BCRYPT_COST: must be between 4 and 31, got %q", v)
		}
		cfg.BcryptCost = n
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.LogJSON = strings.EqualFold(getenv("LOG_FORMAT"), "json")

	return cfg, nil
}

// postgresDSN assembles a connection URL from the DB_* variables.
func postgresDSN(getenv func(string) string) string {
	host := getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}
	port := getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	user := getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}
	name := getenv("DB_NAME")
	if name == "" {
		name = "mywallet"
	}
	sslMode := getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	if password := getenv("DB_PASSWORD"); password != "" {
		u.User = url.UserPassword(user, password)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}
