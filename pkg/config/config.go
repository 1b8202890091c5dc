package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VENDIXO_DB_DSN"
	EnvDBHost = "VENDIXO_DB_HOST"
	EnvDBUser = "VENDIXO_DB_USER"
	EnvDBName = "VENDIXO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Checkout     CheckoutConfig
	Coupon       CouponConfig
	Relay        RelayConfig
	SMTP         SMTPConfig
	Outbox       OutboxConfig
	AdminAuth    AdminAuthConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"VENDIXO_APP_ENV" required:"true"`
	Port         string `envconfig:"VENDIXO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VENDIXO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENDIXO_LOG_WARN_STACK" default:"false"`
	StoreBaseURL string `envconfig:"VENDIXO_STORE_BASE_URL" default:"https://vendixo.shop"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VENDIXO_DB_DSN"`
	Driver string `envconfig:"VENDIXO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VENDIXO_DB_HOST"`
	LegacyPort     int    `envconfig:"VENDIXO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VENDIXO_DB_USER"`
	LegacyPassword string `envconfig:"VENDIXO_DB_PASSWORD"`
	LegacyName     string `envconfig:"VENDIXO_DB_NAME"`
	LegacySSLMode  string `envconfig:"VENDIXO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VENDIXO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDIXO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDIXO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDIXO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDIXO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VENDIXO_REDIS_ADDR"`
	Password     string        `envconfig:"VENDIXO_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDIXO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDIXO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDIXO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDIXO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDIXO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDIXO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CheckoutConfig carries the pricing thresholds applied at checkout.
type CheckoutConfig struct {
	FreeShippingAbove string        `envconfig:"VENDIXO_FREE_SHIPPING_ABOVE" default:"50"`
	ShippingFee       string        `envconfig:"VENDIXO_SHIPPING_FEE" default:"10"`
	CODFee            string        `envconfig:"VENDIXO_COD_FEE" default:"5"`
	SubmitLockTTL     time.Duration `envconfig:"VENDIXO_CHECKOUT_SUBMIT_LOCK_TTL" default:"30s"`
}

// FreeShippingAboveAmount parses the configured threshold, falling back to 50.
func (c CheckoutConfig) FreeShippingAboveAmount() decimal.Decimal {
	return parseAmount(c.FreeShippingAbove, "50")
}

// ShippingFeeAmount parses the configured flat fee, falling back to 10.
func (c CheckoutConfig) ShippingFeeAmount() decimal.Decimal {
	return parseAmount(c.ShippingFee, "10")
}

// CODFeeAmount parses the cash-on-delivery surcharge, falling back to 5.
func (c CheckoutConfig) CODFeeAmount() decimal.Decimal {
	return parseAmount(c.CODFee, "5")
}

type CouponConfig struct {
	Code string        `envconfig:"VENDIXO_COUPON_CODE" default:"VENDIXO10"`
	Rate string        `envconfig:"VENDIXO_COUPON_RATE" default:"0.10"`
	TTL  time.Duration `envconfig:"VENDIXO_COUPON_TTL" default:"24h"`
}

// RateAmount parses the configured discount rate, falling back to 10%.
func (c CouponConfig) RateAmount() decimal.Decimal {
	return parseAmount(c.Rate, "0.10")
}

type RelayConfig struct {
	BaseURL string        `envconfig:"VENDIXO_RELAY_BASE_URL" default:"http://localhost:5000"`
	Timeout time.Duration `envconfig:"VENDIXO_RELAY_TIMEOUT" default:"10s"`
	Port    string        `envconfig:"VENDIXO_RELAY_PORT" default:"5000"`
}

type SMTPConfig struct {
	Host     string `envconfig:"VENDIXO_SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"VENDIXO_SMTP_PORT" default:"587"`
	User     string `envconfig:"VENDIXO_SMTP_USER"`
	Password string `envconfig:"VENDIXO_SMTP_PASSWORD"`
	From     string `envconfig:"VENDIXO_SMTP_FROM"`
}

type OutboxConfig struct {
	BatchSize    int           `envconfig:"VENDIXO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollInterval time.Duration `envconfig:"VENDIXO_OUTBOX_PUBLISH_POLL_INTERVAL" default:"500ms"`
	MaxAttempts  int           `envconfig:"VENDIXO_OUTBOX_MAX_ATTEMPTS" default:"5"`
	RetryBase    time.Duration `envconfig:"VENDIXO_OUTBOX_RETRY_BASE" default:"250ms"`
}

// AdminAuthConfig verifies tokens minted by the external auth provider.
type AdminAuthConfig struct {
	JWTSecret string `envconfig:"VENDIXO_ADMIN_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"VENDIXO_ADMIN_JWT_ISSUER" default:"vendixo-auth"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VENDIXO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VENDIXO_AUTO_MIGRATE" default:"false"`
}

func parseAmount(value, fallback string) decimal.Decimal {
	if amount, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
		return amount
	}
	amount, _ := decimal.NewFromString(fallback)
	return amount
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
