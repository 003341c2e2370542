package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"recall/internal/domain/models"
	"recall/internal/domain/services"
	"recall/internal/httputil"
)

// SearchHandler handles page search HTTP requests
type SearchHandler struct {
	searchService services.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService services.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// SearchPages runs the ranked search over the user's accessible pages
// GET /api/pages/search?q=...&limit=...&offset=...
func (h *SearchHandler) SearchPages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	opts := &models.SearchOptions{
		UserID: userID,
		Query:  query.Get("q"),
	}

	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		opts.Limit = limit
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		opts.Offset = offset
	}

	results, err := h.searchService.SearchPages(r.Context(), opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}
