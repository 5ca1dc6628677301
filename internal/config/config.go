package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config interface {
	EnvConfig
	UpstreamConfig
	SessionConfig
	CookieConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetReadTimeout() time.Duration
	GetWriteTimeout() time.Duration
	GetShutdownTimeout() time.Duration
}

type UpstreamConfig interface {
	GetAPIBaseURL() string
	GetUpstreamTimeout() time.Duration
	GetLoginRole() string
}

type mainConfig struct {
	EnvVars
	Upstream
	Session
	Cookie
}

// New loads an optional .env file and returns the environment backed config.
// A missing file is fine; a file that cannot be read or parsed is logged.
func New() Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}
	return mainConfig{}
}
