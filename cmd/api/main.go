package main

import (
	"net/http"
	"os"
	"time"

	"med-schedule/internal/adapters/auth/tokenapi"
	"med-schedule/internal/adapters/reminders/pushgw"
	"med-schedule/internal/platform/logger"
	"med-schedule/internal/ports/auth"
	"med-schedule/internal/ports/reminders"
	"med-schedule/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional; en deploy las vars vienen del entorno
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Sin AUTH_VERIFY_URL se corre en modo dev (X-Debug-User-ID)
	var verifier auth.AuthVerifier
	if base := os.Getenv("AUTH_VERIFY_URL"); base != "" {
		v, err := tokenapi.NewVerifier(tokenapi.Config{
			BaseURL: base,
			APIKey:  os.Getenv("AUTH_API_KEY"),
		})
		if err != nil {
			log.Error("token verifier init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = v
	} else {
		log.Warn("no AUTH_VERIFY_URL set, running in dev auth mode", nil)
	}

	var scheduler reminders.Scheduler
	if base := os.Getenv("PUSH_GATEWAY_URL"); base != "" {
		s, err := pushgw.NewScheduler(pushgw.Config{
			BaseURL: base,
			APIKey:  os.Getenv("PUSH_GATEWAY_API_KEY"),
		})
		if err != nil {
			log.Error("push gateway init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		scheduler = s
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Reminders:    scheduler,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
