package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/portfolio/backend/internal/auth"
	"github.com/portfolio/backend/internal/middleware"
	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type AuthHandler struct {
	admins services.AdminService
	tokens *auth.TokenManager
}

func NewAuthHandler(admins services.AdminService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		admins: admins,
		tokens: tokens,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	admin, err := h.admins.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("[Login] failed attempt ip=%s", middleware.ClientIP(r))
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Invalid credentials"))
			return
		}
		writeServerError(w, "Login", err)
		return
	}

	token, err := h.tokens.Issue(admin.ID)
	if err != nil {
		writeServerError(w, "Login", err)
		return
	}

	http.SetCookie(w, h.tokens.SessionCookie(token))
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.AuthResponse{
		Message: "Login successful",
		Token:   token,
		Admin:   admin.Info(),
	}))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.tokens.ClearCookie())
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.MessageResponse{Message: "Logged out successfully"}))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	if admin == nil {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Unauthorized"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(admin.Info()))
}
