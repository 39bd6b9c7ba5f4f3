package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/portfolio/backend/internal/auth"
	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

type contextKey string

const AdminKey contextKey = "admin"

// RequireAdmin accepts a session token from the Authorization header, the
// session cookie, or both. Every token presented must be valid, both must
// name the same admin, and that admin must still exist.
func RequireAdmin(tokens *auth.TokenManager, admins services.AdminService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var presented []string

			if authHeader := strings.TrimSpace(r.Header.Get("Authorization")); authHeader != "" {
				parts := strings.Fields(authHeader)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
					writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Invalid authorization header format"))
					return
				}
				presented = append(presented, parts[1])
			}
			if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
				presented = append(presented, cookie.Value)
			}

			if len(presented) == 0 {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Not authorized, no token"))
				return
			}

			adminID := ""
			for _, tokenString := range presented {
				id, err := tokens.Verify(tokenString)
				if err != nil {
					writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Not authorized, token failed"))
					return
				}
				if adminID != "" && id != adminID {
					writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Not authorized, conflicting tokens"))
					return
				}
				adminID = id
			}

			admin, err := admins.GetByID(r.Context(), adminID)
			if err != nil {
				if errors.Is(err, services.ErrAdminNotFound) {
					writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Not authorized, admin not found"))
					return
				}
				log.Printf("[RequireAdmin] lookup admin=%s: %v", adminID, err)
				writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(models.CodeInternal, "Server error"))
				return
			}

			ctx := context.WithValue(r.Context(), AdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdmin returns the authenticated admin, or nil outside RequireAdmin.
func GetAdmin(ctx context.Context) *models.Admin {
	admin, _ := ctx.Value(AdminKey).(*models.Admin)
	return admin
}
