package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalGUID(t *testing.T) {
	tests := []struct {
		name string
		ids  map[string]string
		want string
	}{
		{"nil", nil, ""},
		{"imdb preferred", map[string]string{"Tmdb": "603", "Imdb": "tt0133093"}, "imdb://tt0133093"},
		{"tmdb fallback", map[string]string{"Tmdb": "603"}, "tmdb://603"},
		{"tvdb episode", map[string]string{"Tvdb": "349232"}, "tvdb://349232"},
		{"blank ignored", map[string]string{"Imdb": " ", "Tvdb": "1"}, "tvdb://1"},
		{"unknown provider", map[string]string{"AniDb": "5"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalGUID(tt.ids))
		})
	}
}

func TestItemCategoryTags_EpisodeUsesSeries(t *testing.T) {
	ep := Item{Kind: KindEpisode, Genres: []string{"Drama"}, SeriesGenres: []string{"Family"}}
	assert.Equal(t, []string{"Family"}, ep.CategoryTags())

	movie := Item{Kind: KindMovie, Genres: []string{"Action"}, SeriesGenres: []string{"Family"}}
	assert.Equal(t, []string{"Action"}, movie.CategoryTags())
}

func TestItemDisplayName(t *testing.T) {
	season, episode := 2, 5
	ep := Item{Kind: KindEpisode, Title: "Pilot", SeriesTitle: "Silo", SeasonNumber: &season, EpisodeIndex: &episode}
	assert.Equal(t, "Silo S02E05 Pilot", ep.DisplayName())

	movie := Item{Kind: KindMovie, Title: "The Matrix", Year: 1999}
	assert.Equal(t, "The Matrix (1999)", movie.DisplayName())
}

func TestVariantHasAudioLanguage(t *testing.T) {
	v := Variant{Parts: []Part{{AudioLanguages: []string{"nor"}}, {AudioLanguages: []string{"ENG"}}}}
	assert.True(t, v.HasAudioLanguage("eng"))
	assert.False(t, v.HasAudioLanguage("swe"))
	assert.Equal(t, int64(0), v.Size())
}

func TestNewSectionKinds(t *testing.T) {
	kinds := NewSectionKinds()
	assert.True(t, kinds.Has(SectionMovie))
	assert.True(t, kinds.Has(SectionShow))

	kinds = NewSectionKinds("movie")
	assert.True(t, kinds.Has(SectionMovie))
	assert.False(t, kinds.Has(SectionShow))

	kinds = NewSectionKinds("tvshows,bogus")
	assert.True(t, kinds.Has(SectionShow))
	assert.False(t, kinds.Has(SectionMovie))
}
