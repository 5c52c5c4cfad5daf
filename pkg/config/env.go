package config

// EnvPrefix is passed to envconfig; every field carries its full variable name.
const EnvPrefix = "LOSTFOUND"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultItemExpiryDays = 30
)

const (
	EnvAppEnv   = "LOSTFOUND_APP_ENV"
	EnvPort     = "LOSTFOUND_APP_PORT"
	EnvLogLevel = "LOSTFOUND_LOG_LEVEL"

	EnvDBDSN    = "LOSTFOUND_DB_DSN"
	EnvDBDriver = "LOSTFOUND_DB_DRIVER"
	EnvDBHost   = "LOSTFOUND_DB_HOST"
	EnvDBUser   = "LOSTFOUND_DB_USER"
	EnvDBName   = "LOSTFOUND_DB_NAME"

	EnvRedisURL = "LOSTFOUND_REDIS_URL"

	EnvJWTSecret              = "LOSTFOUND_JWT_SECRET"
	EnvJWTIssuer              = "LOSTFOUND_JWT_ISSUER"
	EnvJWTExpMins             = "LOSTFOUND_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "LOSTFOUND_REFRESH_TOKEN_TTL_MINUTES"

	EnvUseSQLite = "LOSTFOUND_USE_SQLITE"

	EnvSMTPHost       = "LOSTFOUND_SMTP_HOST"
	EnvSiteURL        = "LOSTFOUND_SITE_URL"
	EnvItemExpiryDays = "LOSTFOUND_ITEM_EXPIRY_DAYS"
	EnvCORSOrigins    = "LOSTFOUND_CORS_ALLOWED_ORIGINS"
)

var hostDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
