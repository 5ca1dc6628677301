package config

import (
	"strings"
	"time"
)

type Upstream struct{}

var _ UpstreamConfig = Upstream{}

// GetAPIBaseURL returns the REST backend base, e.g. "https://api.wash24.example/api/v1".
// The trailing slash is trimmed so paths can be appended directly.
func (Upstream) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv("API_BASE_URL", "http://localhost:8081/api/v1"), "/")
}

func (Upstream) GetUpstreamTimeout() time.Duration {
	return GetDuration("UPSTREAM_TIMEOUT", 15*time.Second)
}

// GetLoginRole is the {role} segment of POST /auth/login/{role}.
func (Upstream) GetLoginRole() string {
	return GetEnv("LOGIN_ROLE", "admin")
}
