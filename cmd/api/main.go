package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"listing_brochure/internal/adapters/gemini"
	"listing_brochure/internal/adapters/google"
	server "listing_brochure/internal/adapters/http_server"
	"listing_brochure/internal/adapters/observability"
	redisad "listing_brochure/internal/adapters/redis"
	supabasead "listing_brochure/internal/adapters/supabase"
	"listing_brochure/internal/app"
	"listing_brochure/internal/brochure"
	"listing_brochure/internal/brochure/pdfdraw"
	"listing_brochure/internal/brochure/pdftree"
	"listing_brochure/internal/domain"
	"listing_brochure/internal/shared"
	mysqlrepo "listing_brochure/internal/storage/mysql"
)

func main() {
	// a missing .env is fine; real deployments use the environment
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, files := openStores(cfg)

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}
	defer cache.Close()

	var locator domain.Locator = app.Unavailable{Service: "google maps"}
	if cfg.GoogleMapsKey != "" {
		gc, err := google.New(cfg.GoogleBaseURL, cfg.GoogleMapsKey, cfg.GoogleRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize maps client")
		}
		locator = google.NewLocator(gc, files)
	}
	var writer domain.TextGenerator = app.Unavailable{Service: "gemini"}
	if cfg.GeminiKey != "" {
		gm, err := gemini.New(cfg.GeminiBaseURL, cfg.GeminiKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize gemini client")
		}
		writer = gemini.NewWriter(gm)
	}

	props := app.NewPropertyService(store, cache, cfg.CacheTTL, files, locator, writer)
	templates := app.NewTemplateService(store, cache, cfg.CacheTTL)
	settings := app.NewSettingsService(store, cache, cfg.CacheTTL)
	loader := brochure.NewImageLoader(brochure.HTTPFetcher{Client: &http.Client{}, Timeout: cfg.ImageTimeout})
	renderer := brochure.NewService(loader, pdfdraw.New(), pdftree.New())
	h := &server.Handlers{
		Properties: props,
		Templates:  templates,
		Settings:   settings,
		Contacts:   app.NewContactService(store, store),
		Brochures:  app.NewBrochureService(props, settings, templates, renderer, files, cache, cfg.ViewerTTL, cfg.PublicBaseURL),
	}

	// http
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(reg))
	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Strs("backends", renderer.Backends()).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// openStores picks the record store by STORE_DRIVER. Supabase Storage serves
// files whenever it is configured, whichever driver holds the records.
func openStores(cfg shared.Config) (domain.Store, domain.FileStore) {
	var files domain.FileStore = app.Unavailable{Service: "file storage"}
	var sb *supabasead.Store
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		var err error
		if sb, err = supabasead.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize supabase client")
		}
		files = sb
	}

	switch cfg.StoreDriver {
	case shared.StoreSupabase:
		if sb == nil {
			log.Fatal().Msg("STORE_DRIVER=supabase needs SUPABASE_URL and SUPABASE_KEY")
		}
		return sb, files
	case shared.StoreMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), files
	}
	log.Fatal().Str("driver", cfg.StoreDriver).Msg("unknown STORE_DRIVER")
	return nil, nil
}
