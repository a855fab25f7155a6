package config

const EnvPrefix = "SELLERCENTER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv                 = "SELLERCENTER_APP_ENV"
	EnvPort                   = "SELLERCENTER_APP_PORT"
	EnvDBDSN                  = "SELLERCENTER_DB_DSN"
	EnvDBDriver               = "SELLERCENTER_DB_DRIVER"
	EnvDBHost                 = "SELLERCENTER_DB_HOST"
	EnvDBUser                 = "SELLERCENTER_DB_USER"
	EnvDBName                 = "SELLERCENTER_DB_NAME"
	EnvRedisURL               = "SELLERCENTER_REDIS_URL"
	EnvJWTSecret              = "SELLERCENTER_JWT_SECRET"
	EnvJWTIssuer              = "SELLERCENTER_JWT_ISSUER"
	EnvJWTExpMins             = "SELLERCENTER_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SELLERCENTER_REFRESH_TOKEN_TTL_MINUTES"
	EnvUploadDir              = "SELLERCENTER_UPLOAD_DIR"
	EnvCORSAllowedOrigins     = "SELLERCENTER_CORS_ALLOWED_ORIGINS"
	EnvDefaultProductLimit    = "SELLERCENTER_DEFAULT_PRODUCT_LIMIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
