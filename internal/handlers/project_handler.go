package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type ProjectHandler struct {
	projects services.ProjectService
}

func NewProjectHandler(projects services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ListProjects supports ?featured=true, ?status= and ?limit=.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := models.ProjectQuery{
		Featured: query.Get("featured") == "true",
		Status:   models.ProjectStatus(strings.TrimSpace(query.Get("status"))),
	}

	errs := map[string]string{}
	if q.Status != "" && !q.Status.Valid() {
		errs["status"] = "status must be one of: " + strings.Join(q.Status.Values(), ", ")
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			errs["limit"] = "limit must be a positive integer"
		}
		q.Limit = limit
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	projects, err := h.projects.List(ctx, q)
	if err != nil {
		writeServerError(w, "ListProjects", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(projects))
}

// GetProject looks a project up by slug, then by id.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	project, err := h.projects.GetBySlug(ctx, key)
	if errors.Is(err, services.ErrProjectNotFound) {
		project, err = h.projects.GetByID(ctx, key)
	}
	if err != nil {
		h.writeErr(w, "GetProject", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(project))
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	project, err := h.projects.Create(ctx, &req)
	if err != nil {
		h.writeErr(w, "CreateProject", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(project))
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	project, err := h.projects.Update(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeErr(w, "UpdateProject", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(project))
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.projects.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, "DeleteProject", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.MessageResponse{Message: "Project deleted"}))
}

func (h *ProjectHandler) writeErr(w http.ResponseWriter, tag string, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		writeNotFound(w, "Project not found")
	case errors.Is(err, services.ErrSlugExists):
		writeJSON(w, http.StatusConflict, models.APIResponse{
			Success: false,
			Error:   "A project with this title already exists",
			Code:    models.CodeConflict,
			Errors:  map[string]string{"title": "title must be unique"},
		})
	default:
		writeServerError(w, tag, err)
	}
}
