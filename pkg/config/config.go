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
	CORS          CORSConfig
	Storage       StorageConfig
	Media         MediaConfig
	Quota         QuotaConfig
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
	Env            string `envconfig:"SELLERCENTER_APP_ENV" required:"true"`
	Port           string `envconfig:"SELLERCENTER_APP_PORT" required:"true"`
	LogLevel       string `envconfig:"SELLERCENTER_LOG_LEVEL" default:"info"`
	LogWarnStack   bool   `envconfig:"SELLERCENTER_LOG_WARN_STACK" default:"false"`
	LogFile        string `envconfig:"SELLERCENTER_LOG_FILE"`
	LogFileMaxMB   int    `envconfig:"SELLERCENTER_LOG_FILE_MAX_MB" default:"50"`
	LogFileBackups int    `envconfig:"SELLERCENTER_LOG_FILE_BACKUPS" default:"5"`
	LogFileMaxDays int    `envconfig:"SELLERCENTER_LOG_FILE_MAX_DAYS" default:"14"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SELLERCENTER_DB_DSN"`
	Driver string `envconfig:"SELLERCENTER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SELLERCENTER_DB_HOST"`
	LegacyPort     int    `envconfig:"SELLERCENTER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SELLERCENTER_DB_USER"`
	LegacyPassword string `envconfig:"SELLERCENTER_DB_PASSWORD"`
	LegacyName     string `envconfig:"SELLERCENTER_DB_NAME"`
	LegacySSLMode  string `envconfig:"SELLERCENTER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SELLERCENTER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SELLERCENTER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SELLERCENTER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SELLERCENTER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SELLERCENTER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SELLERCENTER_REDIS_ADDR"`
	Password     string        `envconfig:"SELLERCENTER_REDIS_PASSWORD"`
	DB           int           `envconfig:"SELLERCENTER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SELLERCENTER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SELLERCENTER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SELLERCENTER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SELLERCENTER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SELLERCENTER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SELLERCENTER_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SELLERCENTER_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SELLERCENTER_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SELLERCENTER_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SELLERCENTER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SELLERCENTER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SELLERCENTER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SELLERCENTER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SELLERCENTER_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"SELLERCENTER_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"SELLERCENTER_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"SELLERCENTER_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SELLERCENTER_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SELLERCENTER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type StorageConfig struct {
	UploadDir     string `envconfig:"SELLERCENTER_UPLOAD_DIR" default:"./uploads"`
	PublicBaseURL string `envconfig:"SELLERCENTER_UPLOAD_PUBLIC_URL" default:"/uploads"`
}

type MediaConfig struct {
	ImageMaxWidth       int `envconfig:"SELLERCENTER_MEDIA_IMAGE_MAX_WIDTH" default:"1200"`
	ImageQuality        int `envconfig:"SELLERCENTER_MEDIA_IMAGE_QUALITY" default:"80"`
	ImageMaxMB          int `envconfig:"SELLERCENTER_MEDIA_IMAGE_MAX_MB" default:"5"`
	VideoMaxMB          int `envconfig:"SELLERCENTER_MEDIA_VIDEO_MAX_MB" default:"100"`
	VideoMaxDurationSec int `envconfig:"SELLERCENTER_MEDIA_VIDEO_MAX_DURATION_SECONDS" default:"180"`
}

type QuotaConfig struct {
	DefaultProductLimit int `envconfig:"SELLERCENTER_DEFAULT_PRODUCT_LIMIT" default:"100"`
	DefaultDraftLimit   int `envconfig:"SELLERCENTER_DEFAULT_DRAFT_LIMIT" default:"20"`
}

type CronConfig struct {
	Schedule        string        `envconfig:"SELLERCENTER_CRON_SCHEDULE"`
	Interval        time.Duration `envconfig:"SELLERCENTER_CRON_INTERVAL" default:"1h"`
	OrphanRetention time.Duration `envconfig:"SELLERCENTER_CRON_ORPHAN_RETENTION" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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
