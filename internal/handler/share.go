package handler

import (
	"log/slog"
	"net/http"

	"recall/internal/domain/services"
	"recall/internal/httputil"
)

// ShareHandler handles page sharing HTTP requests
type ShareHandler struct {
	sharingService services.SharingService
	logger         *slog.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(sharingService services.SharingService, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		sharingService: sharingService,
		logger:         logger,
	}
}

// SharePage grants or updates a permission on a page
// POST /api/pages/{id}/share
func (h *ShareHandler) SharePage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	pageID := r.PathValue("id")
	if pageID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "page ID is required")
		return
	}

	var req services.ShareRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerID = userID
	req.PageID = pageID

	share, err := h.sharingService.Share(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, share)
}

// RevokeShare removes a user's grant on a page
// DELETE /api/pages/{id}/share/{userID}
func (h *ShareHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	pageID := r.PathValue("id")
	targetUserID := r.PathValue("userID")
	if pageID == "" || targetUserID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "page ID and user ID are required")
		return
	}

	if err := h.sharingService.Revoke(r.Context(), userID, pageID, targetUserID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListShares returns all grants on a page
// GET /api/pages/{id}/shares
func (h *ShareHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	pageID := r.PathValue("id")
	if pageID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "page ID is required")
		return
	}

	shares, err := h.sharingService.ListShares(r.Context(), userID, pageID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, shares)
}
