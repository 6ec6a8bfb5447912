package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every ClientFlow environment variable.
	EnvPrefix = "CLIENTFLOW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CLIENTFLOW_DB_DSN"
	EnvDBHost = "CLIENTFLOW_DB_HOST"
	EnvDBUser = "CLIENTFLOW_DB_USER"
	EnvDBName = "CLIENTFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Webhooks      WebhookConfig
	TestRateLimit TestRateLimitConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"CLIENTFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"CLIENTFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CLIENTFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CLIENTFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CLIENTFLOW_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CLIENTFLOW_DB_DSN"`
	Driver string `envconfig:"CLIENTFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CLIENTFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"CLIENTFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CLIENTFLOW_DB_USER"`
	LegacyPassword string `envconfig:"CLIENTFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"CLIENTFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"CLIENTFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CLIENTFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CLIENTFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CLIENTFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CLIENTFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CLIENTFLOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CLIENTFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"CLIENTFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"CLIENTFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CLIENTFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CLIENTFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CLIENTFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CLIENTFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CLIENTFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CLIENTFLOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CLIENTFLOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CLIENTFLOW_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CLIENTFLOW_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CLIENTFLOW_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CLIENTFLOW_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CLIENTFLOW_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CLIENTFLOW_ARGON_KEY_LEN" default:"32"`
}

// WebhookConfig tunes outbound webhook delivery. The defaults encode the wire
// contract published to tenants: 3 attempts, a 10s request timeout, linear
// 1s/2s backoff and a 5 minute signature tolerance.
type WebhookConfig struct {
	MaxAttempts        int           `envconfig:"CLIENTFLOW_WEBHOOK_MAX_ATTEMPTS" default:"3"`
	RequestTimeout     time.Duration `envconfig:"CLIENTFLOW_WEBHOOK_REQUEST_TIMEOUT" default:"10s"`
	BackoffUnit        time.Duration `envconfig:"CLIENTFLOW_WEBHOOK_BACKOFF_UNIT" default:"1s"`
	SignatureTolerance time.Duration `envconfig:"CLIENTFLOW_WEBHOOK_SIGNATURE_TOLERANCE" default:"300s"`
	WorkerCount        int           `envconfig:"CLIENTFLOW_WEBHOOK_WORKER_COUNT" default:"8"`
	QueueSize          int           `envconfig:"CLIENTFLOW_WEBHOOK_QUEUE_SIZE" default:"256"`
	MaxResponseBytes   int           `envconfig:"CLIENTFLOW_WEBHOOK_MAX_RESPONSE_BYTES" default:"1000"`
	MaxPayloadBytes    int           `envconfig:"CLIENTFLOW_WEBHOOK_MAX_PAYLOAD_BYTES" default:"10000"`
	UnhealthyThreshold int           `envconfig:"CLIENTFLOW_WEBHOOK_UNHEALTHY_THRESHOLD" default:"5"`
	UserAgent          string        `envconfig:"CLIENTFLOW_WEBHOOK_USER_AGENT" default:"ClientFlow-Webhooks/1.0"`
}

// TestRateLimitConfig throttles the synchronous test-delivery endpoint so a
// tenant debugging an integration cannot hammer an arbitrary URL through us.
type TestRateLimitConfig struct {
	Window time.Duration `envconfig:"CLIENTFLOW_WEBHOOK_TEST_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"CLIENTFLOW_WEBHOOK_TEST_RATE_LIMIT" default:"10"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"CLIENTFLOW_CRON_INTERVAL" default:"1h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CLIENTFLOW_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
