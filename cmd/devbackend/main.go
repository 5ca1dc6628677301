// Command devbackend serves a local stand-in for the Wash24 REST API so the
// admin shell can be run without the hosted backend.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jrsteele09/wash24-admin/internal/config"
	"github.com/jrsteele09/wash24-admin/internal/devbackend"
	"github.com/jrsteele09/wash24-admin/internal/logging"
	"github.com/jrsteele09/wash24-admin/session"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = config.New() // loads .env
	logging.Setup(config.GetEnv("ENV", "DEV"), config.GetEnv("LOG_LEVEL", "debug"))

	if err := run(); err != nil {
		log.Error().Err(err).Msg("devbackend stopped")
		os.Exit(1)
	}
}

func run() error {
	addr := config.GetEnv("DEVBACKEND_ADDR", ":8081")
	secret := config.GetEnv("DEVBACKEND_SECRET", "wash24-dev-secret")
	expiry := config.GetDuration("DEVBACKEND_TOKEN_EXPIRY", time.Hour)

	backend := devbackend.New(secret, devbackend.WithTokenExpiry(expiry))
	admin, err := backend.Accounts().Add(session.User{
		ID:    "1",
		Name:  config.GetEnv("DEVBACKEND_ADMIN_NAME", "Wash24 Admin"),
		Email: config.GetEnv("DEVBACKEND_ADMIN_EMAIL", "admin@wash24.in"),
		Role:  "admin",
	}, config.GetEnv("DEVBACKEND_ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	log.Info().
		Str("addr", addr).
		Str("base", devbackend.DefaultBasePath).
		Str("admin", admin.Email).
		Dur("token_expiry", expiry).
		Msg("devbackend listening")

	srv := &http.Server{
		Addr:              addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
