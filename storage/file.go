package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

// FileVideoProvider reads the catalog from a JSON array on disk
type FileVideoProvider struct {
	path string
}

func NewFileVideoProvider(path string) *FileVideoProvider {
	return &FileVideoProvider{path: path}
}

// Path returns the catalog file location
func (p *FileVideoProvider) Path() string {
	return p.path
}

func (p *FileVideoProvider) ListVideos(ctx context.Context) ([]models.Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var videos []models.Video
	if err := json.Unmarshal(b, &videos); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", p.path, err)
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

// FileKV persists key-value pairs as a single JSON object. Writes are atomic.
type FileKV struct {
	mu   sync.Mutex
	path string
}

func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (f *FileKV) readAll() (map[string]string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	data := map[string]string{}
	if len(b) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return data, nil
}

// writeAll saves to a temp file then renames over the target
func (f *FileKV) writeAll(data map[string]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.readAll()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.readAll()
	if err != nil {
		// an unreadable file is replaced
		data = map[string]string{}
	}
	data[key] = value
	return f.writeAll(data)
}

func (f *FileKV) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.readAll()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.writeAll(data)
}
