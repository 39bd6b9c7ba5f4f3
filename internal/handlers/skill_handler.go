package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type SkillHandler struct {
	skills services.SkillService
}

func NewSkillHandler(skills services.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

func (h *SkillHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	skills, err := h.skills.List(ctx)
	if err != nil {
		writeServerError(w, "ListSkills", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(skills))
}

func (h *SkillHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	skill, err := h.skills.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErr(w, "GetSkill", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(skill))
}

func (h *SkillHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req models.SkillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	skill, err := h.skills.Create(ctx, &req)
	if err != nil {
		writeServerError(w, "CreateSkill", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(skill))
}

func (h *SkillHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	var req models.SkillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	skill, err := h.skills.Update(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeErr(w, "UpdateSkill", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(skill))
}

func (h *SkillHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.skills.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, "DeleteSkill", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.MessageResponse{Message: "Skill deleted"}))
}

func (h *SkillHandler) writeErr(w http.ResponseWriter, tag string, err error) {
	if errors.Is(err, services.ErrSkillNotFound) {
		writeNotFound(w, "Skill not found")
		return
	}
	writeServerError(w, tag, err)
}
