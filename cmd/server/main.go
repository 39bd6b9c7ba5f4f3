package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfolio/backend/internal/auth"
	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/notify"
	"github.com/portfolio/backend/internal/server"
	"github.com/portfolio/backend/internal/services"
	"github.com/portfolio/backend/internal/upload"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	log.Printf("config: %s", cfg)

	ctx := context.Background()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	backend, err := services.Open(startCtx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("storage init failed: %v", err)
	}
	if err := services.BootstrapAdmin(startCtx, backend.Admins, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		cancel()
		log.Fatalf("admin bootstrap failed: %v", err)
	}

	images, err := newImageStore(startCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("image storage init failed: %v", err)
	}

	mailer := notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.NotifyFromEmail, cfg.NotifyToEmail)
	if !mailer.Enabled() {
		log.Printf("Warning: SendGrid not configured; contact notifications are disabled")
	}
	captcha := notify.NewRecaptchaVerifier(cfg.RecaptchaSecret)
	if !captcha.Enabled() {
		log.Printf("Warning: RECAPTCHA_SECRET not set; contact form is not spam-checked")
	}

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Backend:  backend,
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration, cfg.IsProduction()),
		Images:   images,
		Notifier: mailer,
		Captcha:  captcha,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Portfolio API listening on %s (storage=%s images=%s)", cfg.ServerAddress, backend.Name, images.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Printf("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := backend.Close(shutdownCtx); err != nil {
		log.Printf("storage close error: %v", err)
	}
}

func newImageStore(ctx context.Context, cfg *config.Config) (upload.ImageStore, error) {
	if cfg.UseFirebaseStorage() {
		return upload.NewFirebaseImageStore(ctx, cfg.FirebaseBucket, cfg.FirebaseCredentialsJSON)
	}
	return upload.NewLocalImageStore(cfg.UploadDir, "/uploads/")
}
