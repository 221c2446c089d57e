package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	querygateway "github.com/ferro-labs/query-gateway"
	"github.com/ferro-labs/query-gateway/internal/logging"
	"github.com/ferro-labs/query-gateway/internal/version"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &querygateway.Config{}
	if cfgPath := os.Getenv("GATEWAY_CONFIG"); cfgPath != "" {
		loaded, err := querygateway.LoadConfig(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if err := querygateway.ValidateConfig(*loaded); err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
		cfg = loaded
		log.Printf("Config loaded: audit sink=%s", cfg.Audit.Sink)
	}

	// Environment overrides.
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		cfg.Weather.APIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if cfg.Weather.APIKey == "" {
		log.Fatal("No weather API key configured. Set OPENWEATHER_API_KEY or weather.api_key in the config file")
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}

	gw, err := querygateway.New(*cfg)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	auditWriter, closeAudit, err := querygateway.NewAuditWriter(context.Background(), cfg.Audit)
	if err != nil {
		log.Fatalf("Failed to create audit writer: %v", err)
	}
	defer closeAudit()
	gw.SetAuditWriter(auditWriter)

	r := newRouter(gw)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Println("Shutting down gracefully…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("query-gateway %s listening on :%s (audit sink: %s)", version.Short(), cfg.Server.Port, cfg.Audit.Sink)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stop()
		log.Fatalf("Server error: %v", err) //nolint:gocritic
	}
	log.Println("Server stopped.")
}

// newRouter builds the HTTP router.
func newRouter(gw *querygateway.Gateway) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Raw platform invocation payloads, answered with the unwrapped
	// envelope.
	r.Post("/invoke", func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		writeEnvelope(w, gw, r, payload)
	})

	// Convenience endpoints wrapping the same envelope semantics.
	r.Get("/query", func(w http.ResponseWriter, r *http.Request) {
		payload := []byte(`{"queryStringParameters": ` + mustJSON(map[string]string{
			"query": r.URL.Query().Get("query"),
		}) + `}`)
		writeEnvelope(w, gw, r, payload)
	})

	r.Post("/query", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		payload := []byte(`{"body": ` + mustJSON(string(body)) + `}`)
		writeEnvelope(w, gw, r, payload)
	})

	return r
}

// mustJSON marshals v, which is always a plain string or string map here.
func mustJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func writeEnvelope(w http.ResponseWriter, gw *querygateway.Gateway, r *http.Request, payload []byte) {
	env := gw.Handle(r.Context(), payload)
	for k, v := range env.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(env.StatusCode)
	_, _ = w.Write([]byte(env.Body))
}
