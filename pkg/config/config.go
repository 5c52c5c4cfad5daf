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
	Mail          MailConfig
	Site          SiteConfig
	Items         ItemsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LOSTFOUND_APP_ENV" required:"true"`
	Port         string `envconfig:"LOSTFOUND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LOSTFOUND_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LOSTFOUND_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"LOSTFOUND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LOSTFOUND_DB_DSN"`
	Driver string `envconfig:"LOSTFOUND_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LOSTFOUND_DB_HOST"`
	Port     int    `envconfig:"LOSTFOUND_DB_PORT" default:"5432"`
	User     string `envconfig:"LOSTFOUND_DB_USER"`
	Password string `envconfig:"LOSTFOUND_DB_PASSWORD"`
	Name     string `envconfig:"LOSTFOUND_DB_NAME"`
	SSLMode  string `envconfig:"LOSTFOUND_DB_SSLMODE" default:"disable"`

	// SQLitePath is used when Driver is sqlite and no DSN is supplied.
	SQLitePath string `envconfig:"LOSTFOUND_DB_SQLITE_PATH" default:"lostfound.db"`

	MaxOpenConns    int           `envconfig:"LOSTFOUND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LOSTFOUND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LOSTFOUND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOSTFOUND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// SlowQuery is the duration above which a statement is logged at warn.
	SlowQuery time.Duration `envconfig:"LOSTFOUND_DB_SLOW_QUERY" default:"250ms"`
}

// IsSQLite reports whether the configured driver targets sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"LOSTFOUND_REDIS_URL"`
	Address      string        `envconfig:"LOSTFOUND_REDIS_ADDR"`
	Password     string        `envconfig:"LOSTFOUND_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOSTFOUND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOSTFOUND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOSTFOUND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOSTFOUND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOSTFOUND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOSTFOUND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LOSTFOUND_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LOSTFOUND_JWT_ISSUER" default:"lostfound"`
	ExpirationMinutes      int    `envconfig:"LOSTFOUND_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"LOSTFOUND_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LOSTFOUND_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LOSTFOUND_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LOSTFOUND_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LOSTFOUND_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LOSTFOUND_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LOSTFOUND_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LOSTFOUND_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LOSTFOUND_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LOSTFOUND_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LOSTFOUND_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LOSTFOUND_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	ContactWindow      time.Duration `envconfig:"LOSTFOUND_RATE_LIMIT_CONTACT_WINDOW" default:"10m"`
	ContactEmailLimit  int           `envconfig:"LOSTFOUND_RATE_LIMIT_CONTACT_EMAIL_LIMIT" default:"5"`
	ContactIPLimit     int           `envconfig:"LOSTFOUND_RATE_LIMIT_CONTACT_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LOSTFOUND_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LOSTFOUND_AUTO_MIGRATE" default:"false"`
	// StaffSelfRegister exposes the staff registration route outside production.
	StaffSelfRegister bool `envconfig:"LOSTFOUND_STAFF_SELF_REGISTER" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string      `envconfig:"LOSTFOUND_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	MaxAge         time.Duration `envconfig:"LOSTFOUND_CORS_MAX_AGE" default:"5m"`
}

type MailConfig struct {
	Host        string        `envconfig:"LOSTFOUND_SMTP_HOST"`
	Port        int           `envconfig:"LOSTFOUND_SMTP_PORT" default:"587"`
	Username    string        `envconfig:"LOSTFOUND_SMTP_USERNAME"`
	Password    string        `envconfig:"LOSTFOUND_SMTP_PASSWORD"`
	From        string        `envconfig:"LOSTFOUND_MAIL_FROM" default:"no-reply@campus-lostfound.local"`
	TLSRequired bool          `envconfig:"LOSTFOUND_SMTP_TLS_REQUIRED" default:"true"`
	Timeout     time.Duration `envconfig:"LOSTFOUND_SMTP_TIMEOUT" default:"10s"`
}

// Enabled reports whether an SMTP relay has been configured.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.Host) != ""
}

type SiteConfig struct {
	BaseURL string `envconfig:"LOSTFOUND_SITE_URL" default:"http://localhost:3000"`
}

type ItemsConfig struct {
	ExpiryDays int `envconfig:"LOSTFOUND_ITEM_EXPIRY_DAYS" default:"30"`
}

// ExpiryWindow returns how long an active item stays listed before it reads as expired.
func (i ItemsConfig) ExpiryWindow() time.Duration {
	if i.ExpiryDays <= 0 {
		return time.Duration(DefaultItemExpiryDays) * 24 * time.Hour
	}
	return time.Duration(i.ExpiryDays) * 24 * time.Hour
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.IsSQLite() {
		db.DSN = db.SQLitePath
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range hostDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
