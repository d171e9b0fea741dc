package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sofiatorres5082/sweettreats/internal/cart"
	"github.com/sofiatorres5082/sweettreats/internal/checkout"
	"github.com/sofiatorres5082/sweettreats/internal/config"
	"github.com/sofiatorres5082/sweettreats/internal/events"
	"github.com/sofiatorres5082/sweettreats/internal/httpapi"
	"github.com/sofiatorres5082/sweettreats/internal/restapi"
	"github.com/sofiatorres5082/sweettreats/internal/session"
)

func main() {
	cfg := config.Load()

	// Redis keeps the cart across restarts
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("redis not reachable, cart will not survive restarts: %v", err)
	}
	cancel()

	cartStore := cart.NewStore(cart.NewRedisStorage(redisClient, cart.DefaultStorageKey))

	// Backend REST client, shared cookie jar carries the session credential
	backend, err := restapi.NewClient(cfg.BackendBaseURL)
	if err != nil {
		log.Fatalf("failed to create backend client: %v", err)
	}

	sessionStore := session.NewStore(backend)

	journal, journalCleanup := newJournal(cfg)
	defer journalCleanup()

	var sink checkout.EventSink
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(cfg.KafkaBrokers...)
		defer publisher.Close()
		sink = publisher
	}

	orchestrator := checkout.NewOrchestrator(
		cartStore,
		sessionStore,
		backend,
		backend,
		checkout.NewHTTPConfirmer(cfg.PaymentConfirmURL),
		journal,
		sink,
	)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Session:  httpapi.NewSessionHandler(sessionStore),
		Cart:     httpapi.NewCartHandler(cartStore),
		Checkout: httpapi.NewCheckoutHandler(orchestrator),
		Orders:   httpapi.NewOrdersHandler(backend),
		Auth:     sessionStore,
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// newJournal picks the durable Postgres journal when a host is configured,
// otherwise the in-memory one.
func newJournal(cfg *config.Config) (checkout.Journal, func()) {
	if cfg.PostgresHost == "" {
		log.Println("no POSTGRES_HOST set, checkout journal is in-memory")
		return checkout.NewMemoryJournal(), func() {}
	}

	cred := &checkout.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsDirPath,
	}

	journal, err := checkout.NewPostgresJournal(cred)
	if err != nil {
		log.Fatalf("failed to connect to checkout journal: %v", err)
	}
	if err := journal.RunMigrations(cred); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	return journal, func() {
		if err := journal.Close(); err != nil {
			log.Printf("failed to close journal: %v", err)
		}
	}
}
