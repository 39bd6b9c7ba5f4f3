package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/middleware"
	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

// ContactNotifier alerts the site owner about a new message.
type ContactNotifier interface {
	Enabled() bool
	SendContactNotification(ctx context.Context, msg *models.Message) error
}

// CaptchaVerifier checks the spam token sent with a submission.
type CaptchaVerifier interface {
	Enabled() bool
	Verify(ctx context.Context, token string, remoteIP string) (bool, string, error)
}

type MessageHandler struct {
	messages services.MessageService
	notifier ContactNotifier
	captcha  CaptchaVerifier
}

// NewMessageHandler wires the inbox. notifier and captcha may be nil.
func NewMessageHandler(messages services.MessageService, notifier ContactNotifier, captcha CaptchaVerifier) *MessageHandler {
	return &MessageHandler{messages: messages, notifier: notifier, captcha: captcha}
}

func (h *MessageHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := req.Validate()
	captchaOn := h.captcha != nil && h.captcha.Enabled()
	if captchaOn && req.RecaptchaToken == "" {
		errs["recaptchaToken"] = "reCAPTCHA token is required"
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	remoteIP := middleware.ClientIP(r)

	ctx, cancel := contextWithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if captchaOn {
		ok, reason, err := h.captcha.Verify(ctx, req.RecaptchaToken, remoteIP)
		if err != nil {
			log.Printf("[SubmitMessage] recaptcha error ip=%s err=%v", remoteIP, err)
			writeError(w, http.StatusBadGateway, models.CodeUpstream, "Failed to verify reCAPTCHA", err)
			return
		}
		if !ok {
			log.Printf("[SubmitMessage] recaptcha failed ip=%s reason=%s", remoteIP, reason)
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse(models.CodeForbidden, "reCAPTCHA verification failed"))
			return
		}
	}

	msg, err := h.messages.Create(ctx, &req)
	if err != nil {
		writeServerError(w, "SubmitMessage", err)
		return
	}

	if h.notifier != nil && h.notifier.Enabled() {
		go h.notify(*msg)
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(models.SubmitMessageResponse{
		Message: "Message sent successfully",
		ID:      msg.ID,
	}))
}

// notify runs detached from the request; a failed alert never fails the
// submission.
func (h *MessageHandler) notify(msg models.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := h.notifier.SendContactNotification(ctx, &msg); err != nil {
		log.Printf("[SubmitMessage] message=%s notification error=%v", msg.ID, err)
	}
}

// ListMessages supports ?status=, ?page= and ?limit=.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := models.MessageQuery{
		Status: models.MessageStatus(strings.TrimSpace(query.Get("status"))),
		Page:   atoiOr(query.Get("page"), 1),
		Limit:  atoiOr(query.Get("limit"), models.DefaultMessagePageSize),
	}
	if q.Status != "" && !q.Status.Valid() {
		writeValidation(w, map[string]string{
			"status": "status must be one of: " + strings.Join(q.Status.Values(), ", "),
		})
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.messages.List(ctx, q)
	if err != nil {
		writeServerError(w, "ListMessages", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(list))
}

func (h *MessageHandler) UpdateMessageStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateMessageStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	msg, err := h.messages.SetStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeErr(w, "UpdateMessageStatus", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(msg))
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.messages.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, "DeleteMessage", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.MessageResponse{Message: "Message deleted"}))
}

func (h *MessageHandler) writeErr(w http.ResponseWriter, tag string, err error) {
	if errors.Is(err, services.ErrMessageNotFound) {
		writeNotFound(w, "Message not found")
		return
	}
	writeServerError(w, tag, err)
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
