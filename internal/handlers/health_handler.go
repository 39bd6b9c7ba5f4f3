package handlers

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	backend   string
	images    string
	startedAt time.Time
}

func NewHealthHandler(backend, images string) *HealthHandler {
	return &HealthHandler{backend: backend, images: images, startedAt: time.Now()}
}

// Plain is the load balancer probe.
func (h *HealthHandler) Plain(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type healthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Storage   string    `json:"storage"`
	Images    string    `json:"images"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *HealthHandler) API(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   "Portfolio API is running",
		Storage:   h.backend,
		Images:    h.images,
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	})
}
