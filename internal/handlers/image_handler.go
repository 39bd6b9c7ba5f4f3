package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/upload"
)

type ImageHandler struct {
	images    upload.ImageStore
	maxSizeMB int64
}

func NewImageHandler(images upload.ImageStore, maxSizeMB int64) *ImageHandler {
	return &ImageHandler{
		images:    images,
		maxSizeMB: maxSizeMB,
	}
}

func (h *ImageHandler) maxBytes() int64 {
	return h.maxSizeMB * 1024 * 1024
}

// parseForm limits the body to files plus a small allowance for the
// multipart envelope.
func (h *ImageHandler) parseForm(w http.ResponseWriter, r *http.Request, files int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes()*files+1024*1024)
	if err := r.ParseMultipartForm(h.maxBytes()); err != nil {
		writeError(w, http.StatusBadRequest, models.CodeBadRequest, "File too large or invalid form data", err)
		return false
	}
	return true
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, 1) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["image"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.CodeBadRequest, "No image file provided"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := h.store(ctx, headers[0])
	if err != nil {
		h.writeErr(w, "Upload", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(res))
}

func (h *ImageHandler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, upload.MaxFiles) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.CodeBadRequest, "No image files provided"))
		return
	}
	if len(headers) > upload.MaxFiles {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.CodeBadRequest,
			fmt.Sprintf("At most %d images per upload", upload.MaxFiles)))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	images := make([]models.ImageUploadResponse, 0, len(headers))
	for _, header := range headers {
		res, err := h.store(ctx, header)
		if err != nil {
			// Do not leave the earlier files of a failed batch behind.
			for _, done := range images {
				if derr := h.images.Delete(ctx, done.ID); derr != nil {
					log.Printf("[UploadMultiple] cleanup id=%s error=%v", done.ID, derr)
				}
			}
			h.writeErr(w, "UploadMultiple", err)
			return
		}
		images = append(images, *res)
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(models.MultipleImageUploadResponse{
		Message: fmt.Sprintf("%d images uploaded", len(images)),
		Images:  images,
	}))
}

func (h *ImageHandler) store(ctx context.Context, header *multipart.FileHeader) (*models.ImageUploadResponse, error) {
	if header.Size > h.maxBytes() {
		return nil, errFileTooLarge
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	contentType, body, err := upload.Sniff(file)
	if err != nil {
		return nil, err
	}
	return h.images.Upload(ctx, header.Filename, contentType, body)
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.images.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, "DeleteImage", err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.MessageResponse{Message: "Image deleted successfully"}))
}

var errFileTooLarge = errors.New("file too large")

func (h *ImageHandler) writeErr(w http.ResponseWriter, tag string, err error) {
	switch {
	case errors.Is(err, upload.ErrImageNotFound):
		writeNotFound(w, "Image not found")
	case errors.Is(err, upload.ErrUnsupportedType):
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.CodeBadRequest, upload.ErrUnsupportedType.Error()))
	case errors.Is(err, errFileTooLarge):
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(models.CodeBadRequest,
			fmt.Sprintf("File too large. Maximum size is %dMB", h.maxSizeMB)))
	case errors.Is(err, upload.ErrUpstream):
		log.Printf("[%s] upstream error=%v", tag, err)
		writeError(w, http.StatusBadGateway, models.CodeUpstream, "Image provider request failed", err)
	default:
		writeServerError(w, tag, err)
	}
}
