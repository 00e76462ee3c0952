package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     string
	RedisURL string

	MarketBaseURL string
	MarketAPIKey  string
	RefBaseURL    string
	RefAPIKey     string
	NewsBaseURL   string
	NewsAPIKey    string
	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string

	CacheTTLQuote      time.Duration
	CacheTTLStock      time.Duration
	CacheTTLIndicators time.Duration
	CacheTTLDirectory  time.Duration
	CacheTTLOverview   time.Duration
	CacheTTLNews       time.Duration
	CacheMaxEntries    int

	FetchMaxRetries int
	FetchRetryDelay time.Duration
	CollectorDelay  time.Duration
	ComposeDelay    time.Duration

	RequestTimeout  time.Duration
	LLMTimeout      time.Duration
	RateLimitPerMin int
}

func Load() Config {
	return Config{
		Port:     getEnv("PORT", "8080"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		MarketBaseURL: getEnv("TWELVEDATA_BASE_URL", "https://api.twelvedata.com"),
		MarketAPIKey:  getEnv("TWELVEDATA_API_KEY", ""),
		RefBaseURL:    getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		RefAPIKey:     getEnv("FINNHUB_API_KEY", ""),
		NewsBaseURL:   getEnv("NEWS_BASE_URL", "https://newsapi.org"),
		NewsAPIKey:    getEnv("NEWS_API_KEY", ""),
		LLMBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		LLMAPIKey:     getEnv("OPENAI_API_KEY", ""),
		LLMModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		CacheTTLQuote:      getEnvDuration("CACHE_TTL_QUOTE", 5*time.Minute),
		CacheTTLStock:      getEnvDuration("CACHE_TTL_STOCK", 5*time.Minute),
		CacheTTLIndicators: getEnvDuration("CACHE_TTL_INDICATORS", 24*time.Hour),
		CacheTTLDirectory:  getEnvDuration("CACHE_TTL_DIRECTORY", 24*time.Hour),
		CacheTTLOverview:   getEnvDuration("CACHE_TTL_OVERVIEW", 24*time.Hour),
		CacheTTLNews:       getEnvDuration("CACHE_TTL_NEWS", 15*time.Minute),
		CacheMaxEntries:    getEnvInt("CACHE_MAX_ENTRIES", 10000),

		FetchMaxRetries: getEnvInt("FETCH_MAX_RETRIES", 3),
		FetchRetryDelay: getEnvDuration("FETCH_RETRY_DELAY", 10*time.Second),
		CollectorDelay:  getEnvDuration("COLLECTOR_DELAY", 16*time.Second),
		ComposeDelay:    getEnvDuration("COMPOSE_DELAY", 1*time.Second),

		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		LLMTimeout:      getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 120),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(i) * time.Second
}
