package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	Shipping      ShippingConfig
	Paystack      PaystackConfig
	Resend        ResendConfig
	Cron          CronConfig
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
	Env          string `envconfig:"FADE_APP_ENV" required:"true"`
	Port         string `envconfig:"FADE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FADE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FADE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FADE_DB_DSN"`
	Driver string `envconfig:"FADE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FADE_DB_HOST"`
	LegacyPort     int    `envconfig:"FADE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FADE_DB_USER"`
	LegacyPassword string `envconfig:"FADE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FADE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FADE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FADE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FADE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FADE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FADE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FADE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FADE_REDIS_ADDR"`
	Password     string        `envconfig:"FADE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FADE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FADE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FADE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FADE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FADE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FADE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FADE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FADE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FADE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FADE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FADE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FADE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FADE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FADE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FADE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FADE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FADE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FADE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FADE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FADE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FADE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FADE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FADE_AUTO_MIGRATE" default:"false"`
}

// CartConfig bounds how long an idle session cart survives in Redis.
type CartConfig struct {
	TTL time.Duration `envconfig:"FADE_CART_TTL" default:"336h"`
}

// ShippingConfig carries the flat fee tiers and the free-shipping threshold,
// all expressed in minor currency units.
type ShippingConfig struct {
	FreeThresholdMinor int `envconfig:"FADE_SHIPPING_FREE_THRESHOLD_MINOR" default:"500000"`
	StandardFeeMinor   int `envconfig:"FADE_SHIPPING_STANDARD_FEE_MINOR" default:"15000"`
	ExpressFeeMinor    int `envconfig:"FADE_SHIPPING_EXPRESS_FEE_MINOR" default:"25000"`
}

type PaystackConfig struct {
	SecretKey   string `envconfig:"FADE_PAYSTACK_SECRET_KEY"`
	PublicKey   string `envconfig:"FADE_PAYSTACK_PUBLIC_KEY"`
	BaseURL     string `envconfig:"FADE_PAYSTACK_BASE_URL"`
	CallbackURL string `envconfig:"FADE_PAYSTACK_CALLBACK_URL"`
}

type ResendConfig struct {
	APIKey      string `envconfig:"FADE_RESEND_API_KEY"`
	DefaultFrom string `envconfig:"FADE_RESEND_FROM_EMAIL" default:"orders@fadeatelier.com"`
	AdminEmail  string `envconfig:"FADE_RESEND_ADMIN_EMAIL"`
}

type CronConfig struct {
	Interval                  time.Duration `envconfig:"FADE_CRON_INTERVAL" default:"24h"`
	NotificationRetentionDays int           `envconfig:"FADE_CRON_NOTIFICATION_RETENTION_DAYS" default:"30"`
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
