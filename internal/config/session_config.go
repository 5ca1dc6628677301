package config

import "time"

type SessionConfig interface {
	GetSessionStore() string
	GetRedisURL() string
	GetBoltPath() string
	GetSessionTTL() time.Duration
}

type CookieConfig interface {
	GetCookieName() string
	GetCookieSecure() bool
	GetCookieMaxAge() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionStore is one of "auto", "redis", "bolt" or "memory".
func (Session) GetSessionStore() string {
	return GetEnv("SESSION_STORE", "auto")
}

func (Session) GetRedisURL() string {
	return GetEnv("REDIS_URL", "")
}

func (Session) GetBoltPath() string {
	return GetEnv("BOLT_PATH", "")
}

func (Session) GetSessionTTL() time.Duration {
	return GetDuration("SESSION_TTL", 24*time.Hour)
}

type Cookie struct{}

var _ CookieConfig = Cookie{}

func (Cookie) GetCookieName() string {
	return GetEnv("COOKIE_NAME", "wash24")
}

func (Cookie) GetCookieSecure() bool {
	return GetBool("COOKIE_SECURE", true)
}

// GetCookieMaxAge is one day; the token record expires with the cookie.
func (Cookie) GetCookieMaxAge() time.Duration {
	return GetDuration("COOKIE_MAX_AGE", 24*time.Hour)
}
