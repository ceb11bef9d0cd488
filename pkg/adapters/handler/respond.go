package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
)

type errorResponse struct {
	Error       string             `json:"error"`
	FieldErrors domain.FieldErrors `json:"fieldErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps a service error onto a status code. Unexpected
// errors are logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fe domain.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", FieldErrors: fe})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Job not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Status transition not allowed")
	case errors.Is(err, domain.ErrAlreadySubscribed):
		writeError(w, http.StatusConflict, "Already subscribed")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many submissions. Please try again later.")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		log.Printf("[http] %s %s failed (request %s): %v", r.Method, r.URL.Path, RequestIDFrom(r.Context()), err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

// clientIP keys rate limiting: the first X-Forwarded-For entry, else the
// connection's remote host.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// publicJob hides the contact email on public routes
type publicJob struct {
	domain.Job
	ContactEmail string `json:"contactEmail,omitempty"`
}

func toPublic(jobs []domain.Job) []publicJob {
	out := make([]publicJob, len(jobs))
	for i, j := range jobs {
		out[i] = publicJob{Job: j}
	}
	return out
}
