package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"

	"civicid/internal/identity/secrets"
	"civicid/internal/identity/service"
	"civicid/internal/identity/store"
	jwttoken "civicid/internal/jwt_token"
	"civicid/internal/platform/config"
	"civicid/internal/platform/httpserver"
	"civicid/internal/platform/logger"
	"civicid/internal/platform/metrics"
	httptransport "civicid/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the identity service.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		// A missing JWT_SIGNING_KEY lands here: refuse to start rather than
		// run with a weak default.
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	users, cleanup, err := newUserStore(cfg)
	if err != nil {
		log.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	m := metrics.New()
	hasher := secrets.NewHasher(cfg.BcryptCost)
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)
	identity := service.New(users, hasher, tokens, log, m)
	handler := httptransport.NewAuthHandler(identity, log)
	router := httptransport.NewRouter(handler, tokens, log, m, cfg.CORSOrigins)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting civicid", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// newUserStore picks PostgreSQL when DATABASE_URL is set and falls back to
// the in-memory store for local development.
func newUserStore(cfg config.Server) (store.UserStore, func(), error) {
	if cfg.DatabaseURL == "" {
		return store.NewInMemory(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	pg := store.NewPostgres(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return pg, func() { _ = db.Close() }, nil
}
