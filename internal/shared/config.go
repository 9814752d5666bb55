package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	StoreMySQL    = "mysql"
	StoreSupabase = "supabase"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	StoreDriver string
	MySQLDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	GoogleMapsKey string
	GoogleBaseURL string
	GoogleRPS     int
	GeminiKey     string
	GeminiBaseURL string
	PublicBaseURL string
	CORSOrigins   []string
	CacheTTL      time.Duration
	ViewerTTL     time.Duration
	ImageTimeout  time.Duration
	EnrichWorkers int
	EnrichIDs     []string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		StoreDriver:    strings.ToLower(env("STORE_DRIVER", StoreMySQL)),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/listing?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		SupabaseURL:    env("SUPABASE_URL", ""),
		SupabaseKey:    env("SUPABASE_KEY", ""),
		SupabaseBucket: env("SUPABASE_BUCKET", "brochures"),
		GoogleMapsKey:  env("GOOGLE_MAPS_KEY", ""),
		GoogleBaseURL:  env("GOOGLE_BASE_URL", "https://maps.googleapis.com"),
		GoogleRPS:      atoi("GOOGLE_RPS", 5),
		GeminiKey:      env("GEMINI_API_KEY", ""),
		GeminiBaseURL:  env("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		PublicBaseURL:  env("PUBLIC_BASE_URL", "http://localhost:8080"),
		CORSOrigins:    list(os.Getenv("CORS_ORIGINS")),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		ViewerTTL:      time.Duration(atoi("VIEWER_TTL_SECONDS", 3600)) * time.Second,
		ImageTimeout:   time.Duration(atoi("IMAGE_TIMEOUT_SECONDS", 10)) * time.Second,
		EnrichWorkers:  atoi("ENRICH_WORKERS", 4),
		EnrichIDs:      list(os.Getenv("ENRICH_PROPERTY_IDS")),
	}
	if c.GoogleMapsKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_KEY is empty, locate is disabled")
	}
	if c.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty, describe is disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// list splits a comma separated value, dropping blanks.
func list(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
