package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"uic-travel-backend/internal/auth"
	"uic-travel-backend/internal/httpapi"
	"uic-travel-backend/internal/issuance"
	"uic-travel-backend/internal/kstream"
	"uic-travel-backend/internal/purchase"
	"uic-travel-backend/internal/quote"
	"uic-travel-backend/internal/records"
	"uic-travel-backend/internal/session"
	"uic-travel-backend/internal/wizard"
)

func main() {
	// joho/godotenv: optional .env for local runs; real deployments
	// set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Archive policy audit events in the background.
	go func() {
		log.Println("Starting audit archiver consumer...")
		if err := kstream.ConsumeAuditTopic(ctx); err != nil {
			log.Printf("Audit archiver error: %v", err)
		}
	}()

	var store wizard.Store
	if getEnv("SESSION_STORE", "redis") == "memory" {
		store = wizard.NewMemoryStore()
	} else {
		store = session.NewRedisStore()
	}

	cfg := wizard.DefaultConfig()
	if getEnv("FORM_VARIANT", "strict") == "lenient" {
		cfg.Validation = purchase.LenientDefaults()
	}
	cfg.PaymentRedirect = getEnv("PAYMENT_REDIRECT", "") == "true"

	recStore := records.NewStore()
	wiz := wizard.New(
		store,
		quote.NewClient(),
		issuance.NewClient(),
		recStore,
		kstream.PublishPolicyEvent,
		cfg,
	)

	authStore := auth.NewStore()

	r := mux.NewRouter()
	httpapi.NewService(wiz, authStore).RegisterRoutes(r)

	// Read-side record query API
	records.RegisterRoutes(r, recStore)

	addr := getEnv("UIC_HTTP_ADDR", ":8080")
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down...")
		authStore.SignOut()
		cancel()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("UIC wizard API listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
