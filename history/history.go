// Package history keeps the user's recent search queries, deduplicated and
// persisted through a key-value store.
package history

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

const (
	// StorageKey identifies the history blob in the key-value store
	StorageKey = "search_history"
	// MaxItems is the number of queries retained
	MaxItems = 20
	// MaxAge is how long an entry survives across loads
	MaxAge = 30 * 24 * time.Hour
)

// KVStore is the persistence contract for history. Get reports a missing key
// with ok=false and a nil error.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store holds search history, most recent first.
type Store struct {
	mu     sync.RWMutex
	items  []models.HistoryItem
	kv     KVStore
	log    logrus.FieldLogger
	now    func() time.Time
	newID  func() string
	maxAge time.Duration
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for load and persistence failures
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how item IDs are minted
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New loads history from kv. Load problems never fail construction: a
// missing or unreadable blob starts an empty history.
func New(ctx context.Context, kv KVStore, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		log:    logrus.StandardLogger().WithField("component", "history"),
		now:    time.Now,
		newID:  uuid.NewString,
		maxAge: MaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	if s.kv == nil {
		return
	}
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.log.WithError(err).Warn("failed to read search history, starting empty")
		return
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}

	var loaded []models.HistoryItem
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.log.WithError(err).Warn("discarding unreadable search history")
		return
	}

	cutoff := s.now().Add(-s.maxAge).UnixMilli()
	changed := false
	fresh := make([]models.HistoryItem, 0, len(loaded))
	for _, it := range loaded {
		if q := strings.TrimSpace(it.Query); q != it.Query {
			it.Query = q
			changed = true
		}
		if it.Query == "" || it.Timestamp < cutoff {
			continue
		}
		fresh = append(fresh, it)
	}

	byNewest := func(i, j int) bool { return fresh[i].Timestamp > fresh[j].Timestamp }
	if !sort.SliceIsSorted(fresh, byNewest) {
		sort.SliceStable(fresh, byNewest)
		changed = true
	}

	// one entry per query, the most recent wins
	seen := make(map[string]struct{}, len(fresh))
	kept := make([]models.HistoryItem, 0, len(fresh))
	for _, it := range fresh {
		if _, dup := seen[it.Query]; dup {
			continue
		}
		seen[it.Query] = struct{}{}
		kept = append(kept, it)
		if len(kept) == MaxItems {
			break
		}
	}
	s.items = kept

	if changed || len(kept) != len(loaded) {
		s.log.WithField("dropped", len(loaded)-len(kept)).Debug("cleaned search history")
		s.persist(ctx)
	}
}

// persist writes the full list. Callers hold s.mu. Failures are logged only.
func (s *Store) persist(ctx context.Context) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(s.items)
	if err != nil {
		s.log.WithError(err).Error("failed to encode search history")
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		s.log.WithError(err).Warn("failed to save search history")
	}
}

// AddSearch records query at the head of the history. A previous entry with
// the same trimmed query is replaced. Blank queries are ignored.
func (s *Store) AddSearch(ctx context.Context, query, category string, resultCount *int) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	item := models.HistoryItem{
		ID:        s.newID(),
		Query:     query,
		Timestamp: s.now().UnixMilli(),
		Category:  category,
	}
	if resultCount != nil && *resultCount >= 0 {
		n := *resultCount
		item.ResultCount = &n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.HistoryItem, 0, len(s.items)+1)
	items = append(items, item)
	for _, it := range s.items {
		if it.Query != query {
			items = append(items, it)
		}
	}
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	s.items = items
	s.persist(ctx)
}

// History returns up to limit items, most recent first. limit <= 0 returns all.
func (s *Store) History(limit int) []models.HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.HistoryItem, n)
	copy(out, s.items[:n])
	return out
}

// Queries is History projected to the query strings
func (s *Store) Queries(limit int) []string {
	items := s.History(limit)
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Query
	}
	return out
}

// RemoveSearch deletes the entry whose query equals query exactly
func (s *Store) RemoveSearch(ctx context.Context, query string) {
	s.removeWhere(ctx, func(it models.HistoryItem) bool { return it.Query == query })
}

// RemoveSearchByID deletes the entry with the given ID
func (s *Store) RemoveSearchByID(ctx context.Context, id string) {
	s.removeWhere(ctx, func(it models.HistoryItem) bool { return it.ID == id })
}

func (s *Store) removeWhere(ctx context.Context, match func(models.HistoryItem) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.HistoryItem, 0, len(s.items))
	for _, it := range s.items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(s.items) {
		return
	}
	s.items = kept
	s.persist(ctx)
}

// Clear empties the history and deletes the stored blob. A failed delete is
// logged; the in-memory history is empty either way.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []models.HistoryItem{}
	if s.kv == nil {
		return
	}
	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		s.log.WithError(err).Warn("failed to delete search history")
	}
}
