package search

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

// snapshot is an immutable view of the catalog. It is replaced wholesale, never edited.
type snapshot struct {
	videos    []models.Video
	docs      []document
	updatedAt time.Time
}

// Engine is the in-memory video search engine. All methods are safe for
// concurrent use; readers always see one complete snapshot.
type Engine struct {
	current atomic.Pointer[snapshot]
	now     func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the clock used to stamp snapshots
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine over an initial snapshot. videos may be nil.
func NewEngine(videos []models.Video, opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if videos != nil {
		e.UpdateVideos(videos)
	}
	return e
}

// UpdateVideos atomically replaces the snapshot. The slice is copied.
func (e *Engine) UpdateVideos(videos []models.Video) {
	snap := &snapshot{
		videos:    make([]models.Video, len(videos)),
		docs:      make([]document, len(videos)),
		updatedAt: e.clock()(),
	}
	copy(snap.videos, videos)
	for i, v := range snap.videos {
		snap.docs[i] = newDocument(v)
	}
	e.current.Store(snap)
}

func (e *Engine) clock() func() time.Time {
	if e.now == nil {
		return time.Now
	}
	return e.now
}

// Len returns the number of videos in the current snapshot
func (e *Engine) Len() int {
	return len(e.load().videos)
}

// UpdatedAt returns when the current snapshot was installed; zero if never.
func (e *Engine) UpdatedAt() time.Time {
	return e.load().updatedAt
}

func (e *Engine) load() *snapshot {
	if snap := e.current.Load(); snap != nil {
		return snap
	}
	return &snapshot{}
}

// Search ranks the snapshot against query. It never fails: blank queries and
// empty snapshots produce an empty result.
func (e *Engine) Search(query string, opts models.SearchOptions) []models.SearchResult {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return []models.SearchResult{}
	}

	snap := e.load()
	filter := opts.Category != "" && opts.Category != models.CategoryAll

	results := make([]models.SearchResult, 0)
	for i, doc := range snap.docs {
		v := snap.videos[i]
		if filter && v.Category != opts.Category {
			continue
		}
		score, fields := doc.score(terms)
		if score <= 0 {
			continue
		}
		results = append(results, models.SearchResult{
			Video:          v,
			RelevanceScore: score,
			MatchedFields:  fields,
		})
	}

	sortResults(results, opts.SortBy)

	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results
}

// sortResults orders results in place. The sort is stable, so ties keep
// snapshot order and repeated calls agree.
func sortResults(results []models.SearchResult, by models.SortBy) {
	var less func(a, b models.SearchResult) bool
	switch by {
	case models.SortByViews:
		less = func(a, b models.SearchResult) bool { return a.Video.Views > b.Video.Views }
	case models.SortByLikes:
		less = func(a, b models.SearchResult) bool { return a.Video.Likes > b.Video.Likes }
	case models.SortByTime:
		less = func(a, b models.SearchResult) bool { return a.Video.CreatedAt.After(b.Video.CreatedAt) }
	default:
		less = func(a, b models.SearchResult) bool { return a.RelevanceScore > b.RelevanceScore }
	}
	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })
}
