// Package storage provides catalog snapshot providers and the key-value
// stores backing search history.
package storage

import (
	"context"

	"github.com/amirhf/clipfeed/services/search-go/history"
	"github.com/amirhf/clipfeed/services/search-go/models"
)

// VideoProvider returns the full current catalog or fails
type VideoProvider interface {
	ListVideos(ctx context.Context) ([]models.Video, error)
}

var (
	_ VideoProvider   = (*PostgresStore)(nil)
	_ VideoProvider   = (*FileVideoProvider)(nil)
	_ history.KVStore = (*PostgresStore)(nil)
	_ history.KVStore = (*FileKV)(nil)
	_ history.KVStore = (*MemoryKV)(nil)
)
