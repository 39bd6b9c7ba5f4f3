// Package server assembles the HTTP surface of the portfolio API.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/portfolio/backend/internal/auth"
	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/handlers"
	appMiddleware "github.com/portfolio/backend/internal/middleware"
	"github.com/portfolio/backend/internal/services"
	"github.com/portfolio/backend/internal/upload"
)

// maxJSONBody caps every non-upload request body.
const maxJSONBody = 10 << 20

type Deps struct {
	Config   *config.Config
	Backend  *services.Backend
	Tokens   *auth.TokenManager
	Images   upload.ImageStore
	Notifier handlers.ContactNotifier
	Captcha  handlers.CaptchaVerifier
}

// Router is the API handler plus the background work it owns.
type Router struct {
	chi.Router
	limiters []*appMiddleware.RateLimiter
}

// Close stops the rate limiter cleanup loops.
func (rt *Router) Close() {
	for _, l := range rt.limiters {
		l.Stop()
	}
}

func NewRouter(d Deps) *Router {
	cfg := d.Config
	handlers.SetDebug(cfg.IsDevelopment())

	authHandler := handlers.NewAuthHandler(d.Backend.Admins, d.Tokens)
	profileHandler := handlers.NewProfileHandler(d.Backend.Profile)
	skillHandler := handlers.NewSkillHandler(d.Backend.Skills)
	projectHandler := handlers.NewProjectHandler(d.Backend.Projects)
	experienceHandler := handlers.NewExperienceHandler(d.Backend.Experience)
	achievementHandler := handlers.NewAchievementHandler(d.Backend.Achievements)
	messageHandler := handlers.NewMessageHandler(d.Backend.Messages, d.Notifier, d.Captcha)
	imageHandler := handlers.NewImageHandler(d.Images, cfg.MaxUploadSizeMB)
	healthHandler := handlers.NewHealthHandler(d.Backend.Name, d.Images.Name())

	globalLimiter := appMiddleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, "")
	messageLimiter := appMiddleware.NewRateLimiter(cfg.MessageRateLimitRequests, cfg.MessageRateLimitWindow,
		"Too many messages sent, please try again later.")
	requireAdmin := appMiddleware.RequireAdmin(d.Tokens, d.Backend.Admins)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(appMiddleware.TrustProxy)
	}
	r.Use(middleware.Logger)
	r.Use(appMiddleware.Recoverer(cfg.IsDevelopment()))
	r.Use(appMiddleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.ClientOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(notFound(cfg.StaticDir))
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Health check
	r.Get("/health", healthHandler.Plain)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.API)

		r.Group(func(r chi.Router) {
			r.Use(globalLimiter.Limit)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequestSize(maxJSONBody))

				r.Route("/auth", func(r chi.Router) {
					r.Post("/login", authHandler.Login)
					r.Post("/logout", authHandler.Logout)
					r.With(requireAdmin).Get("/me", authHandler.Me)
				})

				r.Route("/profile", func(r chi.Router) {
					r.Get("/", profileHandler.GetProfile)
					r.With(requireAdmin).Put("/", profileHandler.UpdateProfile)
				})

				r.Route("/skills", func(r chi.Router) {
					r.Get("/", skillHandler.ListSkills)
					r.Get("/{id}", skillHandler.GetSkill)
					r.Group(func(r chi.Router) {
						r.Use(requireAdmin)
						r.Post("/", skillHandler.CreateSkill)
						r.Put("/{id}", skillHandler.UpdateSkill)
						r.Delete("/{id}", skillHandler.DeleteSkill)
					})
				})

				r.Route("/projects", func(r chi.Router) {
					r.Get("/", projectHandler.ListProjects)
					r.Get("/{id}", projectHandler.GetProject)
					r.Group(func(r chi.Router) {
						r.Use(requireAdmin)
						r.Post("/", projectHandler.CreateProject)
						r.Put("/{id}", projectHandler.UpdateProject)
						r.Delete("/{id}", projectHandler.DeleteProject)
					})
				})

				r.Route("/experience", func(r chi.Router) {
					r.Get("/", experienceHandler.ListExperience)
					r.Get("/{id}", experienceHandler.GetExperience)
					r.Group(func(r chi.Router) {
						r.Use(requireAdmin)
						r.Post("/", experienceHandler.CreateExperience)
						r.Put("/{id}", experienceHandler.UpdateExperience)
						r.Delete("/{id}", experienceHandler.DeleteExperience)
					})
				})

				r.Route("/achievements", func(r chi.Router) {
					r.Get("/", achievementHandler.ListAchievements)
					r.Get("/{id}", achievementHandler.GetAchievement)
					r.Group(func(r chi.Router) {
						r.Use(requireAdmin)
						r.Post("/", achievementHandler.CreateAchievement)
						r.Put("/{id}", achievementHandler.UpdateAchievement)
						r.Delete("/{id}", achievementHandler.DeleteAchievement)
					})
				})

				r.Route("/messages", func(r chi.Router) {
					r.With(messageLimiter.Limit).Post("/", messageHandler.SubmitMessage)
					r.Group(func(r chi.Router) {
						r.Use(requireAdmin)
						r.Get("/", messageHandler.ListMessages)
						r.Patch("/{id}", messageHandler.UpdateMessageStatus)
						r.Delete("/{id}", messageHandler.DeleteMessage)
					})
				})
			})

			// Image upload bodies are bounded by the upload size instead.
			r.Route("/upload", func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", imageHandler.Upload)
				r.Post("/multiple", imageHandler.UploadMultiple)
				r.Delete("/{id}", imageHandler.Delete)
			})
		})
	})

	// Serve uploaded files
	if local, ok := d.Images.(*upload.LocalImageStore); ok {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(local.Dir())))))
	}

	return &Router{Router: r, limiters: []*appMiddleware.RateLimiter{globalLimiter, messageLimiter}}
}

func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			handlers.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// notFound answers API misses with the JSON envelope. When a client build is
// configured, other GETs get its files, falling back to index.html so client
// side routes resolve.
func notFound(staticDir string) http.HandlerFunc {
	if staticDir == "" {
		return handlers.NotFound
	}
	files := http.FileServer(http.Dir(staticDir))
	index := filepath.Join(staticDir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if r.Method != http.MethodGet || strings.HasPrefix(path, "/api/") || path == "/api" || strings.HasPrefix(path, "/uploads/") {
			handlers.NotFound(w, r)
			return
		}

		clean := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(clean); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}
