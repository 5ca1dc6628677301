package server

import (
	"net/http"
)

type healthStatus struct {
	Status         string `json:"status"`
	App            string `json:"app"`
	DurableStorage bool   `json:"durableStorage"`
}

// HealthHandler reports liveness and whether sessions survive a restart.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthStatus{
			Status:         "ok",
			App:            s.appName,
			DurableStorage: s.storage.Durable(),
		})
	}
}
