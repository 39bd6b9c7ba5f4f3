package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type ExperienceHandler struct {
	experience services.ExperienceService
}

func NewExperienceHandler(experience services.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{experience: experience}
}

func (h *ExperienceHandler) ListExperience(w http.ResponseWriter, r *http.Request) {
	typ := models.ExperienceType(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ != "" && !typ.Valid() {
		writeValidation(w, map[string]string{
			"type": "type must be one of: " + strings.Join(typ.Values(), ", "),
		})
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entries, err := h.experience.List(ctx, typ)
	if err != nil {
		writeServerError(w, "ListExperience", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(entries))
}

func (h *ExperienceHandler) GetExperience(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.experience.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, "GetExperience", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(entry))
}

func (h *ExperienceHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	var req models.ExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.experience.Create(ctx, &req)
	if err != nil {
		writeServerError(w, "CreateExperience", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(entry))
}

func (h *ExperienceHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	var req models.ExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entry, err := h.experience.Update(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeErr(w, "UpdateExperience", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(entry))
}

func (h *ExperienceHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.experience.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, "DeleteExperience", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.MessageResponse{Message: "Experience deleted"}))
}

func (h *ExperienceHandler) writeErr(w http.ResponseWriter, tag string, err error) {
	if errors.Is(err, services.ErrExperienceNotFound) {
		writeNotFound(w, "Experience not found")
		return
	}
	writeServerError(w, tag, err)
}
