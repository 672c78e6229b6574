package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/amirhf/clipfeed/services/search-go/catalog"
	"github.com/amirhf/clipfeed/services/search-go/history"
	"github.com/amirhf/clipfeed/services/search-go/models"
	"github.com/amirhf/clipfeed/services/search-go/search"
)

type Handler struct {
	engine    *search.Engine
	history   *history.Store
	refresher *catalog.Refresher
	client    models.ClientConfig
}

func NewHandler(engine *search.Engine, hist *history.Store, refresher *catalog.Refresher, client models.ClientConfig) *Handler {
	return &Handler{engine: engine, history: hist, refresher: refresher, client: client}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Validate
	if !req.SortBy.Valid() {
		http.Error(w, "sortBy must be one of relevance, views, likes, time", http.StatusBadRequest)
		return
	}
	maxResults := h.client.MaxResults
	if req.MaxResults != nil {
		if *req.MaxResults < 0 {
			http.Error(w, "maxResults must not be negative", http.StatusBadRequest)
			return
		}
		maxResults = *req.MaxResults
	}

	results := h.engine.Search(req.Query, models.SearchOptions{
		Category:   req.Category,
		SortBy:     req.SortBy,
		MaxResults: maxResults,
	})

	if req.Record == nil || *req.Record {
		count := len(results)
		category := req.Category
		if category == models.CategoryAll {
			category = ""
		}
		// history must be saved even if the client hangs up
		h.history.AddSearch(context.WithoutCancel(r.Context()), req.Query, category, &count)
	}

	writeJSON(w, models.SearchResponse{
		Query:   strings.TrimSpace(req.Query),
		Total:   len(results),
		Results: results,
	})
}

func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "max", h.client.MaxSuggestions)
	if !ok {
		return
	}
	writeJSON(w, models.SuggestionResponse{
		Suggestions: h.engine.Suggestions(r.URL.Query().Get("q"), limit),
	})
}

func (h *Handler) HotSearches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.HotSearchResponse{Terms: h.engine.HotSearches()})
}

func (h *Handler) RefreshVideos(w http.ResponseWriter, r *http.Request) {
	if err := h.refresher.Refresh(r.Context()); err != nil {
		http.Error(w, "Catalog unavailable: "+err.Error(), http.StatusBadGateway)
		return
	}
	h.Health(w, r)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", 0)
	if !ok {
		return
	}
	writeJSON(w, models.HistoryResponse{Items: h.history.History(limit)})
}

func (h *Handler) HistoryQueries(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", 0)
	if !ok {
		return
	}
	writeJSON(w, models.StringsResponse{Values: h.history.Queries(limit)})
}

func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.history.Clear(context.WithoutCancel(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveHistoryItem(w http.ResponseWriter, r *http.Request) {
	h.history.RemoveSearchByID(context.WithoutCancel(r.Context()), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveHistoryQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}
	h.history.RemoveSearch(context.WithoutCancel(r.Context()), q)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PopularSearches(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", 10)
	if !ok {
		return
	}
	writeJSON(w, models.StringsResponse{Values: h.history.PopularSearches(limit)})
}

func (h *Handler) SearchHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.HistoryResponse{Items: h.history.SearchInHistory(r.URL.Query().Get("q"))})
}

func (h *Handler) RecentCategories(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", 5)
	if !ok {
		return
	}
	writeJSON(w, models.StringsResponse{Values: h.history.RecentCategories(limit)})
}

func (h *Handler) HistoryStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.history.Stats())
}

func (h *Handler) ClientConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.client)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{Status: "ok", Videos: h.engine.Len()}
	if at := h.engine.UpdatedAt(); !at.IsZero() {
		resp.UpdatedAt = at.UTC().Format(time.RFC3339)
	}
	writeJSON(w, resp)
}

// intParam reads a non-negative integer query parameter, writing a 400 on bad input.
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		http.Error(w, name+" must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
