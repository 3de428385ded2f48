package handlers

import (
	"log"
	"net"
	"net/http"
	"strings"

	"tally-server/src/middleware"
	"tally-server/src/models"
	"tally-server/src/services"
)

func Register(svc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		req.Username = strings.TrimSpace(req.Username)

		user, err := svc.Register(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

func Login(svc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		req.Username = strings.TrimSpace(req.Username)

		token, err := svc.Login(r.Context(), req, clientIP(r), r.UserAgent())
		if err != nil {
			log.Printf("INFO: Failed login for %s from %s", req.Username, clientIP(r))
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, token)
	}
}

func Logout(svc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := middleware.TokenFromContext(r.Context())
		if !ok {
			writeError(w, r, services.Unauthorized("Authentication required"))
			return
		}
		if err := svc.Logout(r.Context(), token); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func LogoutAll(svc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		n, err := svc.LogoutAll(r.Context(), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"closedSessions": n})
	}
}

// clientIP is the address chi's RealIP middleware settled on, without a port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
