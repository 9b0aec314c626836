package jellyfin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
)

func intPtr(v int) *int { return &v }

func TestToCatalogItem_Episode(t *testing.T) {
	it := Item{
		ID:                "ep-1",
		Name:              "Pilot",
		Type:              "Episode",
		SeriesID:          "series-1",
		SeriesName:        "Lost",
		ParentIndexNumber: intPtr(1),
		IndexNumber:       intPtr(2),
		ProviderIDs:       map[string]string{"Tvdb": "127131", "Imdb": "tt0636289"},
		UserData:          &UserData{Played: true, PlayCount: 3},
		MediaSources: []MediaSource{
			{
				ID:        "ep-1",
				Path:      "/tv/Lost/S01E02.mkv",
				Container: "mkv",
				Size:      1000,
				MediaStreams: []MediaStream{
					{Type: "Video"},
					{Type: "Audio", Language: "eng"},
					{Type: "Audio", Language: "jpn"},
					{Type: "Subtitle", Language: "fre"},
				},
			},
		},
	}

	item := ToCatalogItem(it, "home")

	assert.Equal(t, catalog.KindEpisode, item.Kind)
	assert.Equal(t, "imdb://tt0636289", item.GUID)
	assert.Equal(t, "S01E02", item.SeasonEpisode())
	assert.Equal(t, "Lost", item.SeriesTitle)
	assert.Equal(t, "home", item.Server)
	assert.True(t, item.Played)
	assert.Equal(t, 3, item.PlayCount)
	require.Len(t, item.Variants, 1)
	assert.Equal(t, "Pilot", item.Variants[0].Name)
	require.Len(t, item.Variants[0].Parts, 1)
	assert.Equal(t, []string{"eng", "jpn"}, item.Variants[0].Parts[0].AudioLanguages)
	assert.Equal(t, int64(1000), item.Variants[0].Size())
}

func TestToCatalogItem_MultipleSourcesIsDuplicate(t *testing.T) {
	item := ToCatalogItem(Item{
		ID:   "m1",
		Name: "Heat",
		Type: "Movie",
		MediaSources: []MediaSource{
			{ID: "m1", Name: "1080p", Size: 10},
			{ID: "m2", Name: "2160p", Size: 40},
		},
	}, "home")

	assert.True(t, item.IsDuplicate())
	assert.Equal(t, "2160p", item.Variants[1].Name)
	assert.False(t, item.Played)
}

func TestToSectionAndSession(t *testing.T) {
	section := ToSection(Item{ID: "v1", Name: "Shows", CollectionType: "tvshows"})
	assert.Equal(t, catalog.SectionShow, section.Kind)

	session := ToSession(Session{
		ID:             "s1",
		UserName:       "bob",
		NowPlayingItem: &NowPlaying{Name: "Pilot", SeriesName: "Lost", Type: "Episode"},
		PlayState:      &PlayState{IsPaused: true},
	})
	assert.Equal(t, "Lost - Pilot", session.ItemTitle)
	assert.True(t, session.Paused)
	assert.True(t, session.Playing())

	idle := ToSession(Session{ID: "s2", UserName: "amy"})
	assert.False(t, idle.Playing())
}
