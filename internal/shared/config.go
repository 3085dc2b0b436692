package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	// Review source
	Source      string // "play" or "csv"
	PlayBase    string
	PlayCountry string
	PlayLang    string
	RawDir      string
	FetchCount  int
	Workers     int

	// Sentiment model service
	SentimentURL string
	SentimentKey string

	// Classification
	TaxonomyPath   string // optional JSON override of the built-in taxonomy
	ThemeThreshold float64
	TopKeywords    int
	MinDocFreq     int

	CacheTTL time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process env")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/bank_reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		Source:      env("REVIEW_SOURCE", "play"),
		PlayBase:    env("PLAY_BASE_URL", "https://play.googleapis.com/store"),
		PlayCountry: env("PLAY_COUNTRY", "et"),
		PlayLang:    env("PLAY_LANG", "en"),
		RawDir:      env("RAW_DATA_DIR", "data/raw"),
		FetchCount:  atoi("FETCH_COUNT", 400),
		Workers:     atoi("FETCH_WORKERS", 3),

		SentimentURL: env("SENTIMENT_URL", "http://localhost:8501"),
		SentimentKey: env("SENTIMENT_API_KEY", ""),

		TaxonomyPath:   env("TAXONOMY_PATH", ""),
		ThemeThreshold: atof("THEME_THRESHOLD", 0),
		TopKeywords:    atoi("TOP_KEYWORDS", 20),
		MinDocFreq:     atoi("MIN_DOC_FREQ", 2),

		CacheTTL: time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
