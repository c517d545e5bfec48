package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace shared by every binary.
const EnvPrefix = "BAZAARLINE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Settlement   SettlementConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAZAARLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"BAZAARLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAZAARLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAZAARLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BAZAARLINE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BAZAARLINE_DB_DSN"`
	Driver string `envconfig:"BAZAARLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BAZAARLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"BAZAARLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAZAARLINE_DB_USER"`
	LegacyPassword string `envconfig:"BAZAARLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAZAARLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAZAARLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAZAARLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAZAARLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAZAARLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAZAARLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAZAARLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BAZAARLINE_REDIS_ADDR"`
	Password     string        `envconfig:"BAZAARLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAZAARLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAZAARLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAZAARLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAZAARLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAZAARLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAZAARLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CacheConfig struct {
	TTL       time.Duration `envconfig:"BAZAARLINE_CACHE_TTL" default:"1h"`
	ScanCount int64         `envconfig:"BAZAARLINE_CACHE_SCAN_COUNT" default:"200"`
}

// SettlementConfig carries the money-movement knobs for order and withdraw
// settlement.
type SettlementConfig struct {
	MinWithdrawAmount  string `envconfig:"BAZAARLINE_MIN_WITHDRAW_AMOUNT" default:"500"`
	OrderIDMaxAttempts int    `envconfig:"BAZAARLINE_ORDER_ID_MAX_ATTEMPTS" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BAZAARLINE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BAZAARLINE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BAZAARLINE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BAZAARLINE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BAZAARLINE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic        string `envconfig:"BAZAARLINE_PUBSUB_NOTIFICATION_TOPIC" default:"bl-notification-events"`
	NotificationSubscription string `envconfig:"BAZAARLINE_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"bl-notification-events-sub"`
	SettlementTopic          string `envconfig:"BAZAARLINE_PUBSUB_SETTLEMENT_TOPIC" default:"bl-settlement-events"`
	SettlementSubscription   string `envconfig:"BAZAARLINE_PUBSUB_SETTLEMENT_SUBSCRIPTION" default:"bl-settlement-events-sub"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BAZAARLINE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BAZAARLINE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BAZAARLINE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"BAZAARLINE_DB_HOST": db.LegacyHost,
		"BAZAARLINE_DB_USER": db.LegacyUser,
		"BAZAARLINE_DB_NAME": db.LegacyName,
	}
	for _, env := range []string{"BAZAARLINE_DB_HOST", "BAZAARLINE_DB_USER", "BAZAARLINE_DB_NAME"} {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either BAZAARLINE_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
