package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type AchievementHandler struct {
	achievements services.AchievementService
}

func NewAchievementHandler(achievements services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

func (h *AchievementHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	category := models.AchievementCategory(strings.TrimSpace(r.URL.Query().Get("category")))
	if category != "" && !category.Valid() {
		writeValidation(w, map[string]string{
			"category": "category must be one of: " + strings.Join(category.Values(), ", "),
		})
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.achievements.List(ctx, category)
	if err != nil {
		writeServerError(w, "ListAchievements", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(list))
}

func (h *AchievementHandler) GetAchievement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	a, err := h.achievements.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, "GetAchievement", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(a))
}

func (h *AchievementHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var req models.AchievementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	a, err := h.achievements.Create(ctx, &req)
	if err != nil {
		writeServerError(w, "CreateAchievement", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(a))
}

func (h *AchievementHandler) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	var req models.AchievementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	a, err := h.achievements.Update(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeErr(w, "UpdateAchievement", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(a))
}

func (h *AchievementHandler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.achievements.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, "DeleteAchievement", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.MessageResponse{Message: "Achievement deleted"}))
}

func (h *AchievementHandler) writeErr(w http.ResponseWriter, tag string, err error) {
	if errors.Is(err, services.ErrAchievementNotFound) {
		writeNotFound(w, "Achievement not found")
		return
	}
	writeServerError(w, tag, err)
}
