package search

import (
	"sort"
	"strings"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

// HotSearchLimit is the number of trending terms returned by HotSearches
const HotSearchLimit = 10

var suggestionPriority = map[models.SuggestionType]int{
	models.SuggestionUser:     0,
	models.SuggestionCategory: 1,
	models.SuggestionHashtag:  2,
	models.SuggestionKeyword:  3,
}

type suggestionKey struct {
	typ  models.SuggestionType
	text string
}

// Suggestions returns autocomplete entries whose text contains prefix,
// case-insensitively. Users rank first, then categories, hashtags and
// keywords; within a type, more frequent entries come first.
func (e *Engine) Suggestions(prefix string, limit int) []models.Suggestion {
	needle := strings.ToLower(strings.TrimSpace(prefix))
	if needle == "" {
		return []models.Suggestion{}
	}

	snap := e.load()
	counts := make(map[suggestionKey]int)
	order := make([]suggestionKey, 0)
	bump := func(typ models.SuggestionType, text string) {
		if text == "" || !strings.Contains(strings.ToLower(text), needle) {
			return
		}
		k := suggestionKey{typ: typ, text: text}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	for _, v := range snap.videos {
		for _, word := range Tokenize(v.Title) {
			bump(models.SuggestionKeyword, word)
		}
		bump(models.SuggestionUser, v.Author.Name)
		bump(models.SuggestionCategory, v.Category)
		for _, tag := range v.Hashtags {
			bump(models.SuggestionHashtag, tag)
		}
	}

	out := make([]models.Suggestion, 0, len(order))
	for _, k := range order {
		out = append(out, models.Suggestion{Text: k.text, Type: k.typ, Count: counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := suggestionPriority[out[i].Type], suggestionPriority[out[j].Type]
		if pi != pj {
			return pi < pj
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// HotSearches ranks hashtags, categories and verified authors by the views
// of the videos they appear on and returns the top HotSearchLimit keys.
func (e *Engine) HotSearches() []string {
	snap := e.load()
	weights := make(map[string]int64)
	for _, v := range snap.videos {
		for _, tag := range v.Hashtags {
			if tag != "" {
				weights[tag] += v.Views
			}
		}
		if v.Category != "" {
			weights[v.Category] += v.Views
		}
		if v.Author.Verified && v.Author.Name != "" {
			weights[v.Author.Name] += v.Views
		}
	}

	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		wi, wj := weights[keys[i]], weights[keys[j]]
		if wi != wj {
			return wi > wj
		}
		return keys[i] < keys[j]
	})

	if len(keys) > HotSearchLimit {
		keys = keys[:HotSearchLimit]
	}
	return keys
}
