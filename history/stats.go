package history

import (
	"math"
	"sort"
	"strings"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

type queryCount struct {
	query string // most recent spelling
	count int
	first int
}

// PopularSearches groups queries case-insensitively and returns the most
// frequent, ties broken by recency.
func (s *Store) PopularSearches(limit int) []string {
	s.mu.RLock()
	groups := groupQueries(s.items)
	s.mu.RUnlock()

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.query
	}
	return out
}

func groupQueries(items []models.HistoryItem) []queryCount {
	index := make(map[string]int)
	groups := make([]queryCount, 0, len(items))
	for _, it := range items {
		key := strings.ToLower(it.Query)
		if i, ok := index[key]; ok {
			groups[i].count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, queryCount{query: it.Query, count: 1, first: len(groups)})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].first < groups[j].first
	})
	return groups
}

// SearchInHistory returns entries whose query contains query, ignoring case
func (s *Store) SearchInHistory(query string) []models.HistoryItem {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.HistoryItem, 0)
	if needle == "" {
		return out
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.Query), needle) {
			out = append(out, it)
		}
	}
	return out
}

// RecentCategories lists distinct categories in first-seen order
func (s *Store) RecentCategories(limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, it := range s.items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Stats summarizes the history. The average only counts entries that
// recorded a result count.
func (s *Store) Stats() models.HistoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.HistoryStats{TotalSearches: len(s.items)}

	unique := make(map[string]struct{}, len(s.items))
	var sum, counted int
	for _, it := range s.items {
		unique[strings.ToLower(it.Query)] = struct{}{}
		if it.ResultCount != nil {
			sum += *it.ResultCount
			counted++
		}
	}
	stats.UniqueQueries = len(unique)
	if counted > 0 {
		stats.AverageResultCount = int(math.Round(float64(sum) / float64(counted)))
	}
	if groups := groupQueries(s.items); len(groups) > 0 {
		stats.MostSearchedQuery = groups[0].query
	}
	return stats
}
