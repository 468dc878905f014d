package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/food-gallery/internal/apperror"
	"github.com/sakif/food-gallery/internal/media"
	"github.com/sakif/food-gallery/internal/service"
)

// DefaultMaxUploadBytes caps a multipart post body when no limit is configured.
const DefaultMaxUploadBytes = 32 << 20

// PostHandler serves /api/posts.
//
// Create and update take multipart/form-data so photos travel as files:
//
//	title=...&description=...&category=...&media=<file>&media=<file>
type PostHandler struct {
	posts          *service.PostService
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewPostHandler(posts *service.PostService, maxUploadBytes int64, logger *slog.Logger) *PostHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &PostHandler{posts: posts, maxUploadBytes: maxUploadBytes, logger: logger}
}

// HandleCreate
//
// HTTP: POST /api/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := h.parseForm(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("post create requested",
		slog.String("title", in.Title),
		slog.Int("media", len(in.Attachments)),
	)

	post, err := h.posts.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleUpdate
//
// HTTP: PUT /api/posts/{id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, err := h.parseForm(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleGetByID
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleListByCategory returns a JSON array, empty when nothing matches.
//
// HTTP: GET /api/posts/category/{category}
func (h *PostHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleDelete answers 204 whether or not the post existed.
//
// HTTP: DELETE /api/posts/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseForm reads the multipart body into a service.PostInput.
//
// MEMORY:
// http.MaxBytesReader rejects bodies over the limit outright. Within the
// limit, ParseMultipartForm keeps up to maxUploadBytes in memory and spills
// anything larger to temp files, which the server removes after the handler
// returns.
func (h *PostHandler) parseForm(w http.ResponseWriter, r *http.Request) (service.PostInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return service.PostInput{}, apperror.ValidationFailed("media",
				fmt.Sprintf("request body exceeds %d bytes", h.maxUploadBytes))
		}
		return service.PostInput{}, apperror.ValidationFailed("body", "expected a multipart/form-data body")
	}

	in := service.PostInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}
	for _, fh := range r.MultipartForm.File["media"] {
		in.Attachments = append(in.Attachments, attachmentFromHeader(fh))
	}
	return in, nil
}

// attachmentFromHeader defers opening the file until the media processor
// needs it, so validation failures never touch the upload.
func attachmentFromHeader(fh *multipart.FileHeader) media.Attachment {
	return media.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
