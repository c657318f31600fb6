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
	Uploads       UploadsConfig
	Checkout      CheckoutConfig
	Store         StoreConfig
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
	Env          string `envconfig:"POULTRYGEAR_APP_ENV" required:"true"`
	Port         string `envconfig:"POULTRYGEAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POULTRYGEAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POULTRYGEAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"POULTRYGEAR_DB_DSN"`
	Driver string `envconfig:"POULTRYGEAR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POULTRYGEAR_DB_HOST"`
	LegacyPort     int    `envconfig:"POULTRYGEAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POULTRYGEAR_DB_USER"`
	LegacyPassword string `envconfig:"POULTRYGEAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"POULTRYGEAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"POULTRYGEAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POULTRYGEAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POULTRYGEAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POULTRYGEAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POULTRYGEAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POULTRYGEAR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"POULTRYGEAR_REDIS_ADDR"`
	Password     string        `envconfig:"POULTRYGEAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"POULTRYGEAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POULTRYGEAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POULTRYGEAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POULTRYGEAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POULTRYGEAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POULTRYGEAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"POULTRYGEAR_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"POULTRYGEAR_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"POULTRYGEAR_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"POULTRYGEAR_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"POULTRYGEAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"POULTRYGEAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"POULTRYGEAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"POULTRYGEAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"POULTRYGEAR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"POULTRYGEAR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"POULTRYGEAR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"POULTRYGEAR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"POULTRYGEAR_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"POULTRYGEAR_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"POULTRYGEAR_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"POULTRYGEAR_AUTO_MIGRATE" default:"false"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"POULTRYGEAR_UPLOADS_DIR" default:"public/uploads"`
	PublicPath  string `envconfig:"POULTRYGEAR_UPLOADS_PUBLIC_PATH" default:"/uploads"`
	MaxUploadMB int    `envconfig:"POULTRYGEAR_MAX_UPLOAD_MB" default:"10"`
}

type CheckoutConfig struct {
	// GuestEmail identifies the fallback account that guest orders attach to.
	GuestEmail      string `envconfig:"POULTRYGEAR_CHECKOUT_GUEST_EMAIL" default:"guest@poultrygear.local"`
	OrderNumRetries int    `envconfig:"POULTRYGEAR_CHECKOUT_ORDER_NUM_RETRIES" default:"3"`
}

type StoreConfig struct {
	DefaultCurrency string `envconfig:"POULTRYGEAR_STORE_DEFAULT_CURRENCY" default:"USD"`
	DefaultLocale   string `envconfig:"POULTRYGEAR_STORE_DEFAULT_LOCALE" default:"en"`
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
