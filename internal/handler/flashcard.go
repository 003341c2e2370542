package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"recall/internal/domain/services"
	"recall/internal/httputil"
)

// FlashcardHandler handles flashcard HTTP requests
type FlashcardHandler struct {
	cardService services.FlashcardService
	logger      *slog.Logger
}

// NewFlashcardHandler creates a new flashcard handler
func NewFlashcardHandler(cardService services.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	return &FlashcardHandler{
		cardService: cardService,
		logger:      logger,
	}
}

// CreateFlashcard adds a card to a page
// POST /api/pages/{id}/flashcards
func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	pageID := r.PathValue("id")
	if pageID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "page ID is required")
		return
	}

	var req services.CreateFlashcardRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = userID
	req.PageID = pageID

	card, err := h.cardService.CreateFlashcard(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, card)
}

// ListFlashcards lists all cards on a page
// GET /api/pages/{id}/flashcards
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	pageID := r.PathValue("id")
	if pageID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "page ID is required")
		return
	}

	cards, err := h.cardService.ListFlashcards(r.Context(), userID, pageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, cards)
}

// GetFlashcard retrieves a single card
// GET /api/flashcards/{id}
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cardID := r.PathValue("id")
	if cardID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "flashcard ID is required")
		return
	}

	card, err := h.cardService.GetFlashcard(r.Context(), userID, cardID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, card)
}

// UpdateFlashcard updates a card's question/answer
// PATCH /api/flashcards/{id}
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cardID := r.PathValue("id")
	if cardID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "flashcard ID is required")
		return
	}

	var req services.UpdateFlashcardRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := h.cardService.UpdateFlashcard(r.Context(), userID, cardID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, card)
}

// DeleteFlashcard deletes a card
// DELETE /api/flashcards/{id}
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cardID := r.PathValue("id")
	if cardID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "flashcard ID is required")
		return
	}

	if err := h.cardService.DeleteFlashcard(r.Context(), userID, cardID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReviewFlashcard records one review outcome
// POST /api/flashcards/{id}/review
func (h *FlashcardHandler) ReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cardID := r.PathValue("id")
	if cardID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "flashcard ID is required")
		return
	}

	var req services.ReviewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := h.cardService.ReviewFlashcard(r.Context(), userID, cardID, req.Rating, time.Now())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, card)
}

// ListDue returns cards due for review across the user's visible pages
// GET /api/flashcards/due?limit=...
func (h *FlashcardHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	cards, err := h.cardService.ListDue(r.Context(), userID, time.Now(), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, cards)
}
