package search

import (
	"math"
	"strings"

	"github.com/amirhf/clipfeed/services/search-go/models"
)

// Field weights. Only their relative order matters:
// title > author > category > hashtags ≈ tags ≈ description > music.
const (
	weightTitle       = 10.0
	weightTitlePrefix = 5.0
	weightAuthor      = 8.0
	weightCategory    = 6.0
	weightHashtag     = 4.0
	weightTag         = 3.0
	weightDescription = 2.0
	weightMusic       = 1.0

	// Each half of the quality bonus approaches this value but never reaches it,
	// so the total stays below weightMusic.
	qualityCeiling = 0.25
)

// document is a video with its searchable text lower-cased once.
type document struct {
	title       string
	author      string
	category    string
	description string
	tags        []string
	hashtags    []string
	musicName   string
	musicArtist string
	views       int64
	likes       int64
}

func newDocument(v models.Video) document {
	d := document{
		title:       strings.ToLower(v.Title),
		author:      strings.ToLower(v.Author.Name),
		category:    strings.ToLower(v.Category),
		description: strings.ToLower(v.Description),
		tags:        lowerAll(v.Tags),
		hashtags:    lowerAll(v.Hashtags),
		views:       v.Views,
		likes:       v.Likes,
	}
	if v.Music != nil {
		d.musicName = strings.ToLower(v.Music.Name)
		d.musicArtist = strings.ToLower(v.Music.Artist)
	}
	return d
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// Score computes the relevance of v for the given terms along with the fields
// that matched. Terms are expected to be lower-case, as produced by Tokenize.
// A video matching no field scores 0 with no fields.
func Score(v models.Video, terms []string) (float64, []models.Field) {
	return newDocument(v).score(terms)
}

func (d document) score(terms []string) (float64, []models.Field) {
	var (
		total   float64
		matched fieldSet
	)

	for _, term := range terms {
		if term == "" {
			continue
		}

		if strings.Contains(d.title, term) {
			total += weightTitle
			if strings.HasPrefix(d.title, term) {
				total += weightTitlePrefix
			}
			matched.add(models.FieldTitle)
		}
		if d.author != "" && strings.Contains(d.author, term) {
			total += weightAuthor
			matched.add(models.FieldAuthor)
		}
		if d.category != "" && strings.Contains(d.category, term) {
			total += weightCategory
			matched.add(models.FieldCategory)
		}
		if d.description != "" && strings.Contains(d.description, term) {
			total += weightDescription
			matched.add(models.FieldDescription)
		}
		for _, tag := range d.tags {
			if strings.Contains(tag, term) {
				total += weightTag
				matched.add(models.FieldTags)
			}
		}
		for _, tag := range d.hashtags {
			if strings.Contains(tag, term) {
				total += weightHashtag
				matched.add(models.FieldHashtags)
			}
		}
		if d.musicName != "" && strings.Contains(d.musicName, term) {
			total += weightMusic
			matched.add(models.FieldMusic)
		}
		if d.musicArtist != "" && strings.Contains(d.musicArtist, term) {
			total += weightMusic
			matched.add(models.FieldMusic)
		}
	}

	if total == 0 {
		return 0, nil
	}
	return total + qualityBonus(d.views, d.likes), matched.fields
}

// qualityBonus grows with popularity but is bounded by 2*qualityCeiling.
func qualityBonus(views, likes int64) float64 {
	return dampen(views) + dampen(likes)
}

func dampen(n int64) float64 {
	if n <= 0 {
		return 0
	}
	l := math.Log10(1 + float64(n))
	return qualityCeiling * (1 - 1/(1+l))
}

// fieldSet keeps first-touch order without duplicates.
type fieldSet struct {
	fields []models.Field
}

func (s *fieldSet) add(f models.Field) {
	for _, existing := range s.fields {
		if existing == f {
			return
		}
	}
	s.fields = append(s.fields, f)
}
