package search

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleVideos() []models.Video {
	return []models.Video{
		{ID: "1", Title: "Cute Cats Dancing", Category: "Music", Views: 100, Likes: 10, CreatedAt: epoch},
		{ID: "2", Title: "Dog Tricks", Category: "Sports", Views: 50, Likes: 5, CreatedAt: epoch.Add(time.Hour)},
	}
}

func TestSearchExample(t *testing.T) {
	e := NewEngine(sampleVideos())

	results := e.Search("cat", models.SearchOptions{})
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].Video.ID)
	assert.Greater(t, results[0].RelevanceScore, 0.0)
	assert.Contains(t, results[0].MatchedFields, models.FieldTitle)
}

func TestSearchBlankQuery(t *testing.T) {
	e := NewEngine(sampleVideos())

	for _, q := range []string{"", "   ", "\t\n", "!!!"} {
		assert.Empty(t, e.Search(q, models.SearchOptions{}), "query %q", q)
	}
}

func TestSearchExcludesNonMatchingPopularVideo(t *testing.T) {
	e := NewEngine([]models.Video{
		{ID: "viral", Title: "Sunset timelapse", Views: 1_000_000_000, Likes: 50_000_000},
		{ID: "quiet", Title: "Cat nap"},
	})

	results := e.Search("cat", models.SearchOptions{})
	require.Len(t, results, 1)
	assert.Equal(t, "quiet", results[0].Video.ID)
}

func TestSearchTitlePrefixOutranksSubstring(t *testing.T) {
	e := NewEngine([]models.Video{
		{ID: "substring", Title: "Funny cats", Views: 10, Likes: 1},
		{ID: "prefix", Title: "Cats are funny", Views: 10, Likes: 1},
	})

	results := e.Search("cat", models.SearchOptions{})
	require.Len(t, results, 2)
	assert.Equal(t, "prefix", results[0].Video.ID)
	assert.GreaterOrEqual(t, results[0].RelevanceScore, results[1].RelevanceScore)
}

func TestSearchFieldWeightOrdering(t *testing.T) {
	e := NewEngine([]models.Video{
		{ID: "music", Title: "x", Music: &models.Music{Name: "zebra song"}},
		{ID: "description", Title: "x", Description: "a zebra"},
		{ID: "category", Title: "x", Category: "zebra"},
		{ID: "author", Title: "x", Author: models.Author{Name: "zebra"}},
		{ID: "title", Title: "the zebra"},
	})

	results := e.Search("zebra", models.SearchOptions{})
	require.Len(t, results, 5)
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Video.ID
	}
	assert.Equal(t, []string{"title", "author", "category", "description", "music"}, ids)
}

func TestSearchSortModes(t *testing.T) {
	videos := []models.Video{
		{ID: "a", Title: "cat one", Views: 10, Likes: 300, CreatedAt: epoch.Add(2 * time.Hour)},
		{ID: "b", Title: "cat two", Views: 500, Likes: 1, CreatedAt: epoch},
		{ID: "c", Title: "cat three", Views: 70, Likes: 40, CreatedAt: epoch.Add(5 * time.Hour)},
	}
	e := NewEngine(videos)

	byViews := e.Search("cat", models.SearchOptions{SortBy: models.SortByViews})
	require.Len(t, byViews, 3)
	for i := 1; i < len(byViews); i++ {
		assert.GreaterOrEqual(t, byViews[i-1].Video.Views, byViews[i].Video.Views)
	}

	byLikes := e.Search("cat", models.SearchOptions{SortBy: models.SortByLikes})
	assert.Equal(t, "a", byLikes[0].Video.ID)
	assert.Equal(t, "b", byLikes[2].Video.ID)

	byTime := e.Search("cat", models.SearchOptions{SortBy: models.SortByTime})
	assert.Equal(t, "c", byTime[0].Video.ID)
	assert.Equal(t, "a", byTime[1].Video.ID)
	assert.Equal(t, "b", byTime[2].Video.ID)

	byScore := e.Search("cat", models.SearchOptions{})
	for i := 1; i < len(byScore); i++ {
		assert.GreaterOrEqual(t, byScore[i-1].RelevanceScore, byScore[i].RelevanceScore)
	}
}

func TestSearchStableAcrossCalls(t *testing.T) {
	videos := make([]models.Video, 0, 20)
	for i := 0; i < 20; i++ {
		videos = append(videos, models.Video{ID: fmt.Sprintf("v%d", i), Title: "same cat", Views: 5, Likes: 5})
	}
	e := NewEngine(videos)

	first := e.Search("cat", models.SearchOptions{})
	for n := 0; n < 5; n++ {
		assert.Equal(t, first, e.Search("cat", models.SearchOptions{}))
	}
	assert.Equal(t, "v0", first[0].Video.ID)
}

func TestSearchCategoryFilter(t *testing.T) {
	e := NewEngine([]models.Video{
		{ID: "1", Title: "cat video", Category: "Pets"},
		{ID: "2", Title: "cat song", Category: "Music"},
		{ID: "3", Title: "cat run", Category: "Pets"},
	})

	results := e.Search("cat", models.SearchOptions{Category: "Pets"})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "Pets", r.Video.Category)
	}

	assert.Len(t, e.Search("cat", models.SearchOptions{Category: models.CategoryAll}), 3)
	assert.Len(t, e.Search("cat", models.SearchOptions{Category: ""}), 3)
	assert.Empty(t, e.Search("cat", models.SearchOptions{Category: "pets"}))
}

func TestSearchMaxResults(t *testing.T) {
	videos := make([]models.Video, 0, 10)
	for i := 0; i < 10; i++ {
		videos = append(videos, models.Video{ID: fmt.Sprint(i), Title: "cat"})
	}
	e := NewEngine(videos)

	assert.Len(t, e.Search("cat", models.SearchOptions{MaxResults: 3}), 3)
	assert.Len(t, e.Search("cat", models.SearchOptions{}), 10)
	assert.Len(t, e.Search("cat", models.SearchOptions{MaxResults: 50}), 10)
}

func TestEmptyEngine(t *testing.T) {
	e := NewEngine(nil)

	assert.Empty(t, e.Search("cat", models.SearchOptions{}))
	assert.Empty(t, e.Suggestions("cat", 5))
	assert.Empty(t, e.HotSearches())
	assert.Zero(t, e.Len())
	assert.True(t, e.UpdatedAt().IsZero())

	var zero Engine
	assert.Empty(t, zero.Search("cat", models.SearchOptions{}))
}

func TestZeroEngineAcceptsUpdates(t *testing.T) {
	var e Engine
	before := time.Now()

	e.UpdateVideos([]models.Video{{ID: "1", Title: "cat"}})

	results := e.Search("cat", models.SearchOptions{})
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].Video.ID)
	assert.Equal(t, 1, e.Len())
	assert.False(t, e.UpdatedAt().Before(before))
}

func TestUpdateVideosReplacesSnapshot(t *testing.T) {
	now := epoch
	e := NewEngine(sampleVideos(), WithClock(func() time.Time { return now }))
	require.Len(t, e.Search("dog", models.SearchOptions{}), 1)
	assert.Equal(t, epoch, e.UpdatedAt())

	now = epoch.Add(time.Minute)
	e.UpdateVideos([]models.Video{{ID: "3", Title: "Bird song"}})
	assert.Empty(t, e.Search("dog", models.SearchOptions{}))
	assert.Len(t, e.Search("bird", models.SearchOptions{}), 1)
	assert.Equal(t, 1, e.Len())
	assert.Equal(t, epoch.Add(time.Minute), e.UpdatedAt())
}

func TestUpdateVideosCopiesInput(t *testing.T) {
	videos := sampleVideos()
	e := NewEngine(videos)

	videos[0].Title = "Changed"
	results := e.Search("cat", models.SearchOptions{})
	require.Len(t, results, 1)
	assert.Equal(t, "Cute Cats Dancing", results[0].Video.Title)
}

func TestConcurrentSearchAndUpdate(t *testing.T) {
	a := []models.Video{{ID: "a1", Title: "cat"}, {ID: "a2", Title: "cat"}}
	b := []models.Video{{ID: "b1", Title: "cat"}, {ID: "b2", Title: "cat"}, {ID: "b3", Title: "cat"}}
	e := NewEngine(a)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				e.UpdateVideos(b)
			} else {
				e.UpdateVideos(a)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			results := e.Search("cat", models.SearchOptions{})
			// a snapshot is either all "a" or all "b"
			if !assert.Contains(t, []int{2, 3}, len(results)) {
				return
			}
			prefix := results[0].Video.ID[0]
			for _, r := range results {
				assert.Equal(t, prefix, r.Video.ID[0])
			}
		}
	}()
	wg.Wait()
}
