package config

// EnvPrefix is passed to envconfig; every field carries an explicit envconfig key.
const EnvPrefix = "TRADELINK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "TRADELINK_APP_ENV"
	EnvPort     = "TRADELINK_APP_PORT"
	EnvLogLevel = "TRADELINK_LOG_LEVEL"

	EnvDBDSN    = "TRADELINK_DB_DSN"
	EnvDBDriver = "TRADELINK_DB_DRIVER"
	EnvDBHost   = "TRADELINK_DB_HOST"
	EnvDBUser   = "TRADELINK_DB_USER"
	EnvDBName   = "TRADELINK_DB_NAME"

	EnvRedisURL = "TRADELINK_REDIS_URL"

	EnvUseSQLite = "TRADELINK_USE_SQLITE"

	EnvSearchFuzzyThreshold  = "TRADELINK_SEARCH_FUZZY_THRESHOLD"
	EnvSearchLenientFilters  = "TRADELINK_SEARCH_LENIENT_FILTERS"
	EnvSearchMaxQueryLength  = "TRADELINK_SEARCH_MAX_QUERY_LENGTH"
	EnvRateLimitSearchWindow = "TRADELINK_RATE_LIMIT_SEARCH_WINDOW"

	EnvRateLimitTrustedProxies = "TRADELINK_RATE_LIMIT_TRUSTED_PROXIES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
