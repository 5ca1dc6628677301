package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/wash24-admin/api"
	"github.com/jrsteele09/wash24-admin/internal/config"
	"github.com/jrsteele09/wash24-admin/internal/logging"
	"github.com/jrsteele09/wash24-admin/server"
	"github.com/jrsteele09/wash24-admin/session"
	"github.com/rs/zerolog/log"
)

const janitorInterval = 5 * time.Minute

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("stack", string(debug.Stack())).Msgf("Recovered from panic: %v", r)
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logging.Setup(c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, err := session.OpenStorage(ctx, session.StorageOptions{
		Kind:     c.GetSessionStore(),
		RedisURL: c.GetRedisURL(),
		BoltPath: c.GetBoltPath(),
	})
	if err != nil {
		return fmt.Errorf("session.OpenStorage: %w", err)
	}
	defer closeStorage(storage)
	if mem, ok := storage.(*session.InMemoryStorage); ok {
		go mem.RunJanitor(ctx, janitorInterval)
	}

	client, err := api.New(c.GetAPIBaseURL(), api.WithTimeout(c.GetUpstreamTimeout()))
	if err != nil {
		return fmt.Errorf("api.New: %w", err)
	}

	handler, err := server.New(c, client, storage)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	srv := &http.Server{
		Addr:         c.GetPort(),
		Handler:      handler,
		ReadTimeout:  c.GetReadTimeout(),
		WriteTimeout: c.GetWriteTimeout(),
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv, c.GetShutdownTimeout())
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func closeStorage(storage session.Storage) {
	closer, ok := storage.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close session storage")
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
