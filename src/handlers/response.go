package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"tally-server/src/middleware"
	"tally-server/src/models"
	"tally-server/src/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

// writeError maps err onto the standard error body. Internal errors are
// logged and reported without their cause.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := models.ErrorResponse{
		Path:      r.URL.Path,
		Timestamp: time.Now().UTC(),
	}

	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		log.Printf("ERROR: %s %s failed: %v", r.Method, r.URL.Path, err)
		resp.Status = http.StatusInternalServerError
		resp.Error = http.StatusText(resp.Status)
		resp.Message = "An unexpected error occurred"
		writeJSON(w, resp.Status, resp)
		return
	}

	resp.Message = svcErr.Message
	switch svcErr.Kind {
	case services.KindNotFound:
		resp.Status = http.StatusNotFound
	case services.KindValidation:
		resp.Status = http.StatusBadRequest
		resp.Error = "Validation Failed"
		resp.Details = svcErr.Details
	case services.KindBusinessRule:
		resp.Status = http.StatusUnprocessableEntity
		resp.Error = "Business Validation Failed"
	case services.KindUnauthorized:
		resp.Status = http.StatusUnauthorized
	case services.KindForbidden:
		resp.Status = http.StatusForbidden
	default:
		resp.Status = http.StatusBadRequest
	}
	if resp.Error == "" {
		resp.Error = http.StatusText(resp.Status)
	}
	log.Printf("INFO: %s %s -> %d: %s", r.Method, r.URL.Path, resp.Status, resp.Message)
	writeJSON(w, resp.Status, resp)
}

// principal returns the identity set by JWTAuthMiddleware. Routes that call it
// are always mounted behind that middleware.
func principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, services.Unauthorized("Authentication required"))
	}
	return p, ok
}

// NotFound answers unknown routes with the standard error body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, models.ErrorResponse{
		Status:    http.StatusNotFound,
		Error:     http.StatusText(http.StatusNotFound),
		Message:   "No handler found for " + r.Method + " " + r.URL.Path,
		Path:      r.URL.Path,
		Timestamp: time.Now().UTC(),
	})
}
