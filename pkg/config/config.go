package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Search       SearchConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Search.validate(); err != nil {
		return nil, err
	}
	if err := cfg.RateLimit.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRADELINK_APP_ENV" required:"true"`
	Port         string `envconfig:"TRADELINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRADELINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRADELINK_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"TRADELINK_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRADELINK_DB_DSN"`
	Driver string `envconfig:"TRADELINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRADELINK_DB_HOST"`
	LegacyPort     int    `envconfig:"TRADELINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRADELINK_DB_USER"`
	LegacyPassword string `envconfig:"TRADELINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRADELINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRADELINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRADELINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADELINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADELINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADELINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the catalog store runs on the embedded SQLite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADELINK_REDIS_URL"`
	Address      string        `envconfig:"TRADELINK_REDIS_ADDR"`
	Password     string        `envconfig:"TRADELINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRADELINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRADELINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADELINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADELINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADELINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADELINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// SearchConfig tunes the catalog search pipeline.
type SearchConfig struct {
	FuzzyThreshold       float64 `envconfig:"TRADELINK_SEARCH_FUZZY_THRESHOLD" default:"0.6"`
	LenientFilterParsing bool    `envconfig:"TRADELINK_SEARCH_LENIENT_FILTERS" default:"true"`
	MaxQueryLength       int     `envconfig:"TRADELINK_SEARCH_MAX_QUERY_LENGTH" default:"200"`
	SuggestionGroupLimit int     `envconfig:"TRADELINK_SEARCH_SUGGESTION_GROUP_LIMIT" default:"5"`
}

func (s SearchConfig) validate() error {
	if s.FuzzyThreshold <= 0 || s.FuzzyThreshold > 1 {
		return fmt.Errorf("%s must be within (0, 1], got %v", EnvSearchFuzzyThreshold, s.FuzzyThreshold)
	}
	if s.MaxQueryLength <= 0 {
		return fmt.Errorf("%s must be positive", EnvSearchMaxQueryLength)
	}
	return nil
}

type RateLimitConfig struct {
	SearchWindow  time.Duration `envconfig:"TRADELINK_RATE_LIMIT_SEARCH_WINDOW" default:"1m"`
	SearchIPLimit int           `envconfig:"TRADELINK_RATE_LIMIT_SEARCH_IP_LIMIT" default:"120"`
	// TrustedProxies lists the CIDRs or addresses allowed to set X-Forwarded-For.
	// Empty means forwarding headers are ignored and the peer address is used.
	TrustedProxies []string `envconfig:"TRADELINK_RATE_LIMIT_TRUSTED_PROXIES"`
}

func (r RateLimitConfig) validate() error {
	for _, raw := range r.TrustedProxies {
		if _, ok := parseProxy(raw); !ok {
			return fmt.Errorf("%s: invalid address or CIDR %q", EnvRateLimitTrustedProxies, raw)
		}
	}
	return nil
}

// TrustedProxyPrefixes returns the parsed trusted proxy ranges, skipping blanks
// and invalid entries.
func (r RateLimitConfig) TrustedProxyPrefixes() []netip.Prefix {
	out := make([]netip.Prefix, 0, len(r.TrustedProxies))
	for _, raw := range r.TrustedProxies {
		if prefix, ok := parseProxy(raw); ok {
			out = append(out, prefix)
		}
	}
	return out
}

func parseProxy(raw string) (netip.Prefix, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return netip.Prefix{}, false
	}
	if strings.Contains(raw, "/") {
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			return netip.Prefix{}, false
		}
		return prefix.Masked(), true
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Prefix{}, false
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), true
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRADELINK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRADELINK_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TRADELINK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file::memory:?cache=shared"
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
