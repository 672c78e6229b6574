// Package catalog keeps the search engine's snapshot in step with the
// video catalog.
package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/amirhf/clipfeed/services/search-go/models"
	"github.com/amirhf/clipfeed/services/search-go/storage"
)

// Updater receives fresh snapshots
type Updater interface {
	UpdateVideos(videos []models.Video)
}

// Refresher loads the catalog from a provider and installs it in the engine.
type Refresher struct {
	provider storage.VideoProvider
	target   Updater
	limiter  *rate.Limiter
	debounce time.Duration
	log      logrus.FieldLogger
}

type Option func(*Refresher)

// WithMinInterval bounds how often the provider is hit. 0 disables the limit.
func WithMinInterval(d time.Duration) Option {
	return func(r *Refresher) { r.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithDebounce sets the quiet period after a file event before reloading
func WithDebounce(d time.Duration) Option {
	return func(r *Refresher) { r.debounce = d }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Refresher) { r.log = l }
}

func NewRefresher(provider storage.VideoProvider, target Updater, opts ...Option) *Refresher {
	r := &Refresher{
		provider: provider,
		target:   target,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		debounce: 300 * time.Millisecond,
		log:      logrus.StandardLogger().WithField("component", "catalog"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh loads the catalog once. On failure the current snapshot stays in
// place and the error is returned to the caller.
func (r *Refresher) Refresh(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}

	started := time.Now()
	videos, err := r.provider.ListVideos(ctx)
	if err != nil {
		r.log.WithError(err).Warn("catalog unavailable, keeping current snapshot")
		return fmt.Errorf("load catalog: %w", err)
	}
	r.target.UpdateVideos(videos)
	r.log.WithFields(logrus.Fields{
		"videos":      len(videos),
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("catalog snapshot updated")
	return nil
}

// Run refreshes on every tick until ctx is done
func (r *Refresher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// failures are logged in Refresh; the next tick retries
			_ = r.Refresh(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Watch reloads the catalog whenever the file at path is written or replaced.
// It blocks until ctx is done.
func (r *Refresher) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Watch the directory so atomic rename-into-place is seen
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(r.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				_ = r.Refresh(ctx)
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.WithError(err).Warn("catalog watcher error")
		}
	}
}
