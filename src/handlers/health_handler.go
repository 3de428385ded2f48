package handlers

import (
	"net/http"
	"time"
)

const (
	serviceName    = "Tally API"
	serviceVersion = "1.0.0"
)

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "UP",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
			"version":   serviceVersion,
		})
	}
}

func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("pong"))
	}
}
