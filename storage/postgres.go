package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the key-value table used for search history.
// The videos table is owned by the catalog and is only read here.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS search_kv (
			key        text PRIMARY KEY,
			value      text NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create search_kv: %w", err)
	}
	return nil
}

// ListVideos returns the full catalog snapshot
func (s *PostgresStore) ListVideos(ctx context.Context) ([]models.Video, error) {
	const query = `
		SELECT
			id,
			title,
			COALESCE(description, ''),
			COALESCE(category, ''),
			views,
			likes,
			created_at,
			COALESCE(author_name, ''),
			COALESCE(author_verified, false),
			COALESCE(tags, '{}'),
			COALESCE(hashtags, '{}'),
			music_name,
			music_artist
		FROM videos
		ORDER BY created_at DESC, id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	videos := make([]models.Video, 0)
	for rows.Next() {
		var (
			v           models.Video
			musicName   *string
			musicArtist *string
		)
		err := rows.Scan(
			&v.ID,
			&v.Title,
			&v.Description,
			&v.Category,
			&v.Views,
			&v.Likes,
			&v.CreatedAt,
			&v.Author.Name,
			&v.Author.Verified,
			&v.Tags,
			&v.Hashtags,
			&musicName,
			&musicArtist,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		if musicName != nil || musicArtist != nil {
			v.Music = &models.Music{}
			if musicName != nil {
				v.Music.Name = *musicName
			}
			if musicArtist != nil {
				v.Music.Artist = *musicArtist
			}
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read videos: %w", err)
	}
	return videos, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM search_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO search_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM search_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
