package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/portfolio/backend/internal/models"
)

const requestTimeout = 10 * time.Second

var debug atomic.Bool

// SetDebug makes error responses carry the underlying error text.
func SetDebug(on bool) {
	debug.Store(on)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func contextWithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}

// decodeJSON reads the body into dst. On failure it writes the 400 (or 413
// for an oversized body) and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, models.NewErrorResponse(models.CodeBadRequest, "Request body too large"))
			return false
		}
		writeError(w, http.StatusBadRequest, models.CodeBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// writeError sends an error envelope; err is only exposed in debug mode.
func writeError(w http.ResponseWriter, status int, code, message string, err error) {
	resp := models.NewErrorResponse(code, message)
	if err != nil && debug.Load() {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServerError logs err under tag and sends a generic 500.
func writeServerError(w http.ResponseWriter, tag string, err error) {
	log.Printf("[%s] error=%v", tag, err)
	writeError(w, http.StatusInternalServerError, models.CodeInternal, "Server error", err)
}

func writeValidation(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, models.NewErrorResponse(models.CodeNotFound, message))
}

// NotFound answers unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeNotFound(w, "Route not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, models.NewErrorResponse(models.CodeMethodNotAllowed, "Method not allowed"))
}
