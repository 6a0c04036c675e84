package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-pg/pg"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	icpa "github.com/Davibfr13/ICPA"
	"github.com/Davibfr13/ICPA/provider/evolution"
	"github.com/Davibfr13/ICPA/storage/disk"
	gopg "github.com/Davibfr13/ICPA/storage/go-pg"
)

type config struct {
	Port        int    `envconfig:"PORT" default:"5000"`
	DatabaseUrl string `envconfig:"DATABASE_URL" required:"true"`

	ApiKey string `envconfig:"API_KEY" required:"true"`

	EvolutionUrl    string `envconfig:"EVOLUTION_URL" required:"true"`
	EvolutionApiKey string `envconfig:"EVOLUTION_API_KEY" required:"true"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"uploads"`
}

const schema = `
CREATE TABLE IF NOT EXISTS delivery_jobs (
    job_id TEXT PRIMARY KEY,
    recipient TEXT NOT NULL,
    media_ref TEXT NOT NULL,
    thumbnail_ref TEXT,
    media_kind TEXT NOT NULL,
    caption TEXT,
    due_at TIMESTAMP WITH TIME ZONE NOT NULL,
    status TEXT NOT NULL,
    last_attempt_at TIMESTAMP WITH TIME ZONE,
    last_error TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL
);
`

func main() {
	logger := logrus.New()

	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	pgOptions, err := pg.ParseURL(cfg.DatabaseUrl)
	if err != nil {
		logger.WithError(err).Fatal("invalid database url")
	}

	db := pg.Connect(pgOptions)
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		logger.WithError(err).Fatal("failed to ensure delivery_jobs table")
	}

	var count int
	if _, err := db.QueryOne(pg.Scan(&count), "SELECT COUNT(*) FROM delivery_jobs"); err != nil {
		logger.WithError(err).Warn("failed to count delivery jobs")
	} else {
		logger.WithField("jobs", count).Info("database ready")
	}

	store, err := disk.NewStore(cfg.UploadDir)
	if err != nil {
		logger.WithError(err).Fatal("failed to prepare upload directory")
	}

	app, err := icpa.NewApplication(
		icpa.SetLogger(logger),
		icpa.SetJobRepo(gopg.NewJobRepository(db)),
		icpa.SetMediaResolver(store),
		icpa.SetMediaStore(store),
		icpa.SetGatewayTransport(evolution.NewEvolutionTransport(cfg.EvolutionUrl, cfg.EvolutionApiKey)),
	)
	if err != nil {
		logger.WithError(err).Fatal("failed to start application")
	}

	handler := app.HttpHandler()

	router := mux.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Api-Key"},
	}))

	router.HandleFunc("/api/health", healthHandler(db, cfg.EvolutionUrl)).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(apiKeyMiddleware(cfg.ApiKey))
	api.HandleFunc("/messages", handler.SubmitMessage).Methods("POST")
	api.HandleFunc("/messages", handler.ListMessages).Methods("GET")
	api.HandleFunc("/messages/{id}", handler.GetMessage).Methods("GET")

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.Shutdown(shutdownCtx)

	go func() {
		<-shutdownCtx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		server.Shutdown(ctx)
	}()

	logger.WithField("port", cfg.Port).Info("icpa media scheduler listening")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("http server failed")
	}
}

func healthHandler(db *pg.DB, evolutionUrl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if _, err := db.Exec("SELECT 1"); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{
			"status":       "healthy",
			"database":     "PostgreSQL",
			"evolutionUrl": evolutionUrl,
		})
	}
}

func apiKeyMiddleware(key string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Api-Key") != key {
				http.Error(w, "Invalid api key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
