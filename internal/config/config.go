package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultEnv         = EnvLocal
	defaultLogLevel    = "info"
	defaultConfigDir   = "~/.dayboard"
	defaultHTTPAddress = "localhost:8080"
	defaultRedisAddr   = "localhost:6379"
	defaultChannel     = "dayboard:changes"
	defaultSessionTTL  = 24
	defaultRefresh     = 30
	configFileName     = "config.yaml"
)

// ErrInvalidConfig wraps every validation failure of Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Backend selects the database.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Validate rejects unknown backends.
func (b Backend) Validate() error {
	switch b {
	case BackendSQLite, BackendPostgres:
		return nil
	}
	return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, string(b))
}

// Changefeed selects how changes reach other processes.
type Changefeed string

const (
	ChangefeedMemory Changefeed = "memory"
	ChangefeedRedis  Changefeed = "redis"
)

// Config is the whole runtime configuration.
type Config struct {
	Env         string
	LogLevel    string
	Backend     Backend
	SQLitePath  string
	DatabaseURI string
	Changefeed  Changefeed
	Redis       Redis
	ConfigDir   string
	Session     Session
	HTTP        HTTP
}

// Redis configures the redis change feed.
type Redis struct {
	Addr    string
	Channel string
}

// Session configures token signing and lifetime.
type Session struct {
	Secret string
	TTL    time.Duration

	// Refresh is how often a running process re-reads the stored session.
	Refresh time.Duration
}

// HTTP configures the API server.
type HTTP struct {
	Address string
}

// Load reads .env from the working directory, then the environment, then an
// optional config.yaml in CONFIG_DIR. Environment values win over the file.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("BACKEND", string(BackendSQLite))
	v.SetDefault("CHANGEFEED", string(ChangefeedMemory))
	v.SetDefault("REDIS_ADDR", defaultRedisAddr)
	v.SetDefault("REDIS_CHANNEL", defaultChannel)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("SESSION_TTL_HOURS", defaultSessionTTL)
	v.SetDefault("SESSION_REFRESH_SECONDS", defaultRefresh)
	v.SetDefault("HTTP_ADDRESS", defaultHTTPAddress)

	configDir, err := homedir.Expand(v.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v.SetConfigFile(filepath.Join(configDir, configFileName))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	sqlitePath := v.GetString("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = filepath.Join(configDir, "dayboard.db")
	}
	if sqlitePath, err = homedir.Expand(sqlitePath); err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}

	cfg := &Config{
		Env:         v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Backend:     Backend(strings.ToLower(v.GetString("BACKEND"))),
		SQLitePath:  sqlitePath,
		DatabaseURI: v.GetString("DATABASE_URI"),
		Changefeed:  Changefeed(strings.ToLower(v.GetString("CHANGEFEED"))),
		Redis: Redis{
			Addr:    v.GetString("REDIS_ADDR"),
			Channel: v.GetString("REDIS_CHANNEL"),
		},
		ConfigDir: configDir,
		Session: Session{
			Secret:  v.GetString("SESSION_SECRET"),
			TTL:     time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
			Refresh: time.Duration(v.GetInt("SESSION_REFRESH_SECONDS")) * time.Second,
		},
		HTTP: HTTP{Address: v.GetString("HTTP_ADDRESS")},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("%w: APP_ENV must be one of local, dev, prod; got %q", ErrInvalidConfig, c.Env)
	}
	if c.Backend == BackendPostgres && c.DatabaseURI == "" {
		return fmt.Errorf("%w: DATABASE_URI is required for the postgres backend", ErrInvalidConfig)
	}
	switch c.Changefeed {
	case ChangefeedMemory:
	case ChangefeedRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for the redis change feed", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown change feed %q", ErrInvalidConfig, string(c.Changefeed))
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL_HOURS must be positive", ErrInvalidConfig)
	}
	if c.Session.Refresh <= 0 {
		return fmt.Errorf("%w: SESSION_REFRESH_SECONDS must be positive", ErrInvalidConfig)
	}
	if c.Env == EnvProd && c.Session.Secret == "" {
		return fmt.Errorf("%w: SESSION_SECRET is required in prod", ErrInvalidConfig)
	}
	return nil
}

// MigrationURL is the golang-migrate database URL of the configured backend.
func (c *Config) MigrationURL() string {
	if c.Backend == BackendPostgres {
		return c.DatabaseURI
	}
	return "sqlite3://" + c.SQLitePath
}

// SessionSecret returns the signing secret, falling back to a fixed local
// secret outside prod.
func (c *Config) SessionSecret() []byte {
	if c.Session.Secret == "" {
		return []byte("dayboard-local-secret")
	}
	return []byte(c.Session.Secret)
}

// IsProd reports whether APP_ENV is prod.
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsLocal reports whether APP_ENV is local.
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
