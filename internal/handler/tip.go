package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/food-gallery/internal/model"
	"github.com/sakif/food-gallery/internal/service"
)

// TipHandler serves /api/decoration-tips. Bodies are plain JSON tips and
// every field is stored as sent.
type TipHandler struct {
	tips   *service.TipService
	logger *slog.Logger
}

func NewTipHandler(tips *service.TipService, logger *slog.Logger) *TipHandler {
	return &TipHandler{tips: tips, logger: logger}
}

// HTTP: POST /api/decoration-tips
func (h *TipHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var tip model.DecorationTip
	if err := decodeJSON(r, &tip); err != nil {
		h.logger.Warn("invalid decoration tip JSON")
		writeError(w, err)
		return
	}

	created, err := h.tips.Create(r.Context(), &tip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// HTTP: PUT /api/decoration-tips/{id}
func (h *TipHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var tip model.DecorationTip
	if err := decodeJSON(r, &tip); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.tips.Update(r.Context(), chi.URLParam(r, "id"), &tip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HTTP: GET /api/decoration-tips/{id}
func (h *TipHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	tip, err := h.tips.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

// HTTP: GET /api/decoration-tips
func (h *TipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tips, err := h.tips.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tips)
}

// HTTP: GET /api/decoration-tips/category/{category}
func (h *TipHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	tips, err := h.tips.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tips)
}

// HTTP: DELETE /api/decoration-tips/{id}
func (h *TipHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.tips.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
