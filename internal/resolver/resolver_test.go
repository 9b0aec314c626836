package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEpisodes struct {
	bySeries map[string][]catalog.Item
	calls    []string
	err      error
}

func (f *fakeEpisodes) Episodes(_ context.Context, series catalog.Item) ([]catalog.Item, error) {
	f.calls = append(f.calls, series.ID)
	if f.err != nil {
		return nil, f.err
	}
	return f.bySeries[series.ID], nil
}

func episodesOf(seriesID, seriesTitle string, n int) []catalog.Item {
	items := make([]catalog.Item, n)
	for i := range items {
		season, ep := 1, i+1
		items[i] = catalog.Item{
			ID:           fmt.Sprintf("%s-e%d", seriesID, ep),
			Kind:         catalog.KindEpisode,
			Title:        fmt.Sprintf("Episode %d", ep),
			SeriesID:     seriesID,
			SeriesTitle:  seriesTitle,
			SeasonNumber: &season,
			EpisodeIndex: &ep,
		}
	}
	return items
}

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestResolve_SeriesExpandedInPlace(t *testing.T) {
	results := []catalog.Item{
		{ID: "show", Kind: catalog.KindSeries, Title: "Silo"},
		{ID: "movie", Kind: catalog.KindMovie, Title: "The Matrix"},
	}
	src := &fakeEpisodes{bySeries: map[string][]catalog.Item{"show": episodesOf("show", "Silo", 5)}}

	var out bytes.Buffer
	p := selector.NewPrompter(strings.NewReader("0,1\n3,1\n"), &out)

	got, err := New(p, src).Resolve(context.Background(), results)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"show-e4", "show-e2", "movie"}, ids(got))
	assert.Equal(t, []string{"show"}, src.calls)
	assert.Contains(t, out.String(), "0 Silo S01E01 Episode 1")
}

func TestResolve_MovieBeforeSeriesKeepsOrder(t *testing.T) {
	results := []catalog.Item{
		{ID: "movie", Kind: catalog.KindMovie, Title: "Alien"},
		{ID: "show", Kind: catalog.KindSeries, Title: "Severance"},
	}
	src := &fakeEpisodes{bySeries: map[string][]catalog.Item{"show": episodesOf("show", "Severance", 3)}}
	p := selector.NewPrompter(strings.NewReader(":\n:2\n"), &bytes.Buffer{})

	got, err := New(p, src).Resolve(context.Background(), results)
	require.NoError(t, err)
	assert.Equal(t, []string{"movie", "show-e1", "show-e2"}, ids(got))
}

func TestResolve_NonSeriesNeverPromptsTwice(t *testing.T) {
	results := []catalog.Item{
		{ID: "m1", Kind: catalog.KindMovie, Title: "One"},
		{ID: "e1", Kind: catalog.KindEpisode, Title: "Two", SeriesTitle: "Show"},
	}
	src := &fakeEpisodes{}
	var out bytes.Buffer
	p := selector.NewPrompter(strings.NewReader("0,1\n"), &out)

	got, err := New(p, src).Resolve(context.Background(), results)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "e1"}, ids(got))
	assert.Empty(t, src.calls)
	assert.Equal(t, 1, strings.Count(out.String(), "Choose"))
}

func TestResolve_EpisodeFetchError(t *testing.T) {
	results := []catalog.Item{{ID: "show", Kind: catalog.KindSeries, Title: "Silo"}}
	src := &fakeEpisodes{err: errors.New("boom")}
	p := selector.NewPrompter(strings.NewReader("0\n"), &bytes.Buffer{})

	_, err := New(p, src).Resolve(context.Background(), results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching episodes of Silo")
}

func TestResultLabel(t *testing.T) {
	long := strings.Repeat("x", 80)
	label := ResultLabel(catalog.Item{Kind: catalog.KindMovie, Title: long, Server: "home"})
	assert.Equal(t, "(Movie) "+strings.Repeat("x", 60)+" home", label)

	assert.Equal(t, "(Series) Silo", ResultLabel(catalog.Item{Kind: catalog.KindSeries, Title: "Silo"}))
}
