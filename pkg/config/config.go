package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "REGISTER"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv    = "REGISTER_APP_ENV"
	EnvPort      = "REGISTER_APP_PORT"
	EnvDBHost    = "REGISTER_DB_HOST"
	EnvDBName    = "REGISTER_DB_NAME"
	EnvJWTSecret = "REGISTER_JWT_SECRET"
)

type Config struct {
	App AppConfig
	DB  DBConfig
	JWT JWTConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"REGISTER_APP_ENV" required:"true"`
	Port         string `envconfig:"REGISTER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"REGISTER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REGISTER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig locates the store database. Credentials are deliberately absent:
// each cashier logs in with their own database account, so the DSN is only
// assembled once a login request supplies them.
type DBConfig struct {
	Host    string `envconfig:"REGISTER_DB_HOST" required:"true"`
	Port    int    `envconfig:"REGISTER_DB_PORT" default:"5432"`
	Name    string `envconfig:"REGISTER_DB_NAME" required:"true"`
	SSLMode string `envconfig:"REGISTER_DB_SSLMODE" default:"disable"`

	ConnectTimeout time.Duration `envconfig:"REGISTER_DB_CONNECT_TIMEOUT" default:"5s"`
}

// LoginDSN builds a connection URL for the supplied cashier credentials.
func (db DBConfig) LoginDSN(username, password string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", fmt.Errorf("database username is required")
	}

	userInfo := url.User(username)
	if password != "" {
		userInfo = url.UserPassword(username, password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	q := u.Query()
	if db.SSLMode != "" {
		q.Set("sslmode", db.SSLMode)
	}
	if db.ConnectTimeout > 0 {
		q.Set("connect_timeout", fmt.Sprintf("%d", int(db.ConnectTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

type JWTConfig struct {
	Secret            string `envconfig:"REGISTER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"REGISTER_JWT_ISSUER" default:"register-backend"`
	ExpirationMinutes int    `envconfig:"REGISTER_JWT_EXPIRATION_MINUTES" default:"720"`
}
