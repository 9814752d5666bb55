package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"listing_brochure/internal/adapters/gemini"
	"listing_brochure/internal/adapters/google"
	"listing_brochure/internal/adapters/observability"
	redisad "listing_brochure/internal/adapters/redis"
	supabasead "listing_brochure/internal/adapters/supabase"
	"listing_brochure/internal/app"
	"listing_brochure/internal/domain"
	"listing_brochure/internal/shared"
	mysqlrepo "listing_brochure/internal/storage/mysql"
)

// enricher geocodes stored properties, fetches nearby places and drafts
// missing location copy, a bounded number at a time.
func main() {
	_ = godotenv.Load()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "enricher", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.GoogleMapsKey == "" {
		log.Fatal().Msg("GOOGLE_MAPS_KEY is required")
	}

	var (
		store domain.Store
		files domain.FileStore = app.Unavailable{Service: "file storage"}
	)
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		sb, err := supabasead.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize supabase client")
		}
		files = sb
		if cfg.StoreDriver == shared.StoreSupabase {
			store = sb
		}
	}
	if store == nil {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("db ping ok")
		store = mysqlrepo.New(db)
	}

	gc, err := google.New(cfg.GoogleBaseURL, cfg.GoogleMapsKey, cfg.GoogleRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize maps client")
	}
	var writer domain.TextGenerator = app.Unavailable{Service: "gemini"}
	if cfg.GeminiKey != "" {
		gm, err := gemini.New(cfg.GeminiBaseURL, cfg.GeminiKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize gemini client")
		}
		writer = gemini.NewWriter(gm)
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	props := app.NewPropertyService(store, cache, cfg.CacheTTL, files, google.NewLocator(gc, files), writer)
	enr := app.NewEnrichmentService(props, store)

	log.Info().
		Int("workers", cfg.EnrichWorkers).
		Int("ids", len(cfg.EnrichIDs)).
		Msg("enricher starting")

	results, err := enr.EnrichAll(ctx, cfg.EnrichIDs, cfg.EnrichWorkers)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Info().Int("total", len(results)).Int("failed", failed).Msg("enrichment completed")
	if err != nil {
		log.Error().Err(err).Msg("enrichment interrupted")
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(2)
	}
}
