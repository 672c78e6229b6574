package models

import "time"

// Author is the uploader of a video
type Author struct {
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// Music describes the soundtrack attached to a video
type Music struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// Video is a catalog record as consumed by search. It is read-only for the search engine.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	CreatedAt   time.Time `json:"createdAt"`
	Author      Author    `json:"author"`
	Tags        []string  `json:"tags,omitempty"`
	Hashtags    []string  `json:"hashtags,omitempty"`
	Music       *Music    `json:"music,omitempty"`
}

// Field names a video field a query term matched
type Field string

const (
	FieldTitle       Field = "title"
	FieldAuthor      Field = "author"
	FieldCategory    Field = "category"
	FieldDescription Field = "description"
	FieldTags        Field = "tags"
	FieldHashtags    Field = "hashtags"
	FieldMusic       Field = "music"
)

// SearchResult represents a single ranked hit
type SearchResult struct {
	Video          Video   `json:"video"`
	RelevanceScore float64 `json:"relevanceScore"`
	MatchedFields  []Field `json:"matchedFields"`
}

// SortBy selects the result ordering
type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByViews     SortBy = "views"
	SortByLikes     SortBy = "likes"
	SortByTime      SortBy = "time"
)

// Valid reports whether s is a known sort mode. The empty value means relevance.
func (s SortBy) Valid() bool {
	switch s {
	case "", SortByRelevance, SortByViews, SortByLikes, SortByTime:
		return true
	}
	return false
}

// CategoryAll disables category filtering
const CategoryAll = "all"

// SearchOptions configures a search call
type SearchOptions struct {
	Category   string `json:"category,omitempty"`
	SortBy     SortBy `json:"sortBy,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// SuggestionType tells the UI what kind of entity a suggestion is
type SuggestionType string

const (
	SuggestionUser     SuggestionType = "user"
	SuggestionCategory SuggestionType = "category"
	SuggestionHashtag  SuggestionType = "hashtag"
	SuggestionKeyword  SuggestionType = "keyword"
)

// Suggestion is an autocomplete entry
type Suggestion struct {
	Text  string         `json:"text"`
	Type  SuggestionType `json:"type"`
	Count int            `json:"count"`
}

// HistoryItem is one remembered query
type HistoryItem struct {
	ID          string `json:"id"`
	Query       string `json:"query"`
	Timestamp   int64  `json:"timestamp"`
	Category    string `json:"category,omitempty"`
	ResultCount *int   `json:"resultCount,omitempty"`
}

// HistoryStats summarizes the stored history
type HistoryStats struct {
	TotalSearches      int    `json:"totalSearches"`
	UniqueQueries      int    `json:"uniqueQueries"`
	AverageResultCount int    `json:"averageResultCount"`
	MostSearchedQuery  string `json:"mostSearchedQuery,omitempty"`
}

// SearchRequest represents the search request body
type SearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	SortBy   SortBy `json:"sortBy,omitempty"`
	// MaxResults caps the results. Omitted uses the server default; 0 is unbounded.
	MaxResults *int `json:"maxResults,omitempty"`
	// Record defaults to true when omitted
	Record *bool `json:"record,omitempty"`
}

// SearchResponse represents the search response body
type SearchResponse struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
}

// SuggestionResponse wraps autocomplete entries
type SuggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// HotSearchResponse wraps trending terms
type HotSearchResponse struct {
	Terms []string `json:"terms"`
}

// HistoryResponse wraps history items
type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

// StringsResponse wraps a plain list of strings
type StringsResponse struct {
	Values []string `json:"values"`
}

// ClientConfig carries UI timing parameters. The engine itself never debounces.
type ClientConfig struct {
	SearchDebounceMS int64 `json:"searchDebounceMs"`
	SuggestDelayMS   int64 `json:"suggestDelayMs"`
	MaxSuggestions   int   `json:"maxSuggestions"`
	MaxResults       int   `json:"maxResults"`
}

// HealthResponse reports the state of the loaded snapshot
type HealthResponse struct {
	Status    string `json:"status"`
	Videos    int    `json:"videos"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
