package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Translate   TranslateConfig   `yaml:"translate"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Providers   ProvidersConfig   `yaml:"providers"`
	ResultCache ResultCacheConfig `yaml:"result_cache"`
	History     HistoryConfig     `yaml:"history"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// An empty DSN disables lookup history.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	Migrate         bool          `yaml:"migrate"            env:"DATABASE_MIGRATE"            env-default:"true"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return c.DSN != "" }

// RedisConfig holds the shared result cache connection.
// An empty address keeps the result cache in process.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// Enabled reports whether Redis is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id,X-Client-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"             env:"RATE_LIMIT_ENABLED"             env-default:"true"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE" env-default:"120"`
	Burst             int           `yaml:"burst"               env:"RATE_LIMIT_BURST"               env-default:"20"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL"    env-default:"1m"`
}

// TranslateConfig holds resolution defaults.
type TranslateConfig struct {
	DefaultSourceLang string `yaml:"default_source_lang" env:"TRANSLATE_DEFAULT_SOURCE_LANG" env-default:"en"`
	DefaultTargetLang string `yaml:"default_target_lang" env:"TRANSLATE_DEFAULT_TARGET_LANG" env-default:"ru"`
	// MaxSiteWords is the longest query (in words) sent to the dictionary site.
	MaxSiteWords   int  `yaml:"max_site_words"  env:"TRANSLATE_MAX_SITE_WORDS"  env-default:"5"`
	PartialResults bool `yaml:"partial_results" env:"TRANSLATE_PARTIAL_RESULTS" env-default:"true"`
}

// FetchConfig holds outbound HTTP settings shared by all sources.
type FetchConfig struct {
	Timeout         time.Duration `yaml:"timeout"           env:"FETCH_TIMEOUT"           env-default:"6s"`
	UserAgent       string        `yaml:"user_agent"        env:"FETCH_USER_AGENT"        env-default:"Mozilla/5.0 (Windows NT 6.1; Win64; x64)"`
	Retry           bool          `yaml:"retry"             env:"FETCH_RETRY"             env-default:"false"`
	CacheMaxEntries int           `yaml:"cache_max_entries" env:"FETCH_CACHE_MAX_ENTRIES" env-default:"512"`
	CacheTTL        time.Duration `yaml:"cache_ttl"         env:"FETCH_CACHE_TTL"         env-default:"1h"`
}

// ProvidersConfig overrides source endpoints. Empty means the public default.
type ProvidersConfig struct {
	DictionarySiteURL string `yaml:"dictionary_site_url" env:"PROVIDERS_DICTIONARY_SITE_URL"`
	MachineURL        string `yaml:"machine_url"         env:"PROVIDERS_MACHINE_URL"`
	PhoneticURL       string `yaml:"phonetic_url"        env:"PROVIDERS_PHONETIC_URL"`
	CorpusURL         string `yaml:"corpus_url"          env:"PROVIDERS_CORPUS_URL"`
}

// ResultCacheConfig bounds the final-result cache.
type ResultCacheConfig struct {
	MaxEntries int           `yaml:"max_entries" env:"RESULT_CACHE_MAX_ENTRIES" env-default:"1024"`
	TTL        time.Duration `yaml:"ttl"         env:"RESULT_CACHE_TTL"         env-default:"24h"`
}

// HistoryConfig holds lookup history retention.
type HistoryConfig struct {
	RetentionDays int `yaml:"retention_days" env:"HISTORY_RETENTION_DAYS" env-default:"90"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}
