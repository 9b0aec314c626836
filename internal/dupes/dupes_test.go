package dupes

import (
	"testing"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variant(id string, size int64, langs ...string) catalog.Variant {
	return catalog.Variant{
		ID: id,
		Parts: []catalog.Part{{
			ID:             id + "-p",
			Path:           "/media/" + id + ".mkv",
			Size:           size,
			AudioLanguages: langs,
		}},
	}
}

func variantIDs(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Variant.ID
	}
	return out
}

func TestFindDeletions_KeepsLargest(t *testing.T) {
	item := catalog.Item{
		ID:       "movie",
		Kind:     catalog.KindMovie,
		Variants: []catalog.Variant{variant("small", 10), variant("big", 100), variant("mid", 50)},
	}

	cands := FindDeletions([]catalog.Item{item}, Rules{})
	require.Len(t, cands, 2)
	assert.Equal(t, []string{"mid", "small"}, variantIDs(cands))
	for _, c := range cands {
		assert.Equal(t, "big", c.KeepVariantID)
	}
}

func TestFindDeletions_LanguageExemption(t *testing.T) {
	item := catalog.Item{
		ID:       "movie",
		Kind:     catalog.KindMovie,
		Variants: []catalog.Variant{variant("big", 100), variant("mid", 50, "eng"), variant("small", 10, "nor")},
	}

	cands := FindDeletions([]catalog.Item{item}, Rules{Language: "eng"})
	assert.Equal(t, []string{"small"}, variantIDs(cands))
}

func TestFindDeletions_LanguageOfLargestDoesNotMatter(t *testing.T) {
	item := catalog.Item{
		ID:       "movie",
		Kind:     catalog.KindMovie,
		Variants: []catalog.Variant{variant("big", 100, "eng"), variant("mid", 50)},
	}

	cands := FindDeletions([]catalog.Item{item}, Rules{Language: "eng"})
	assert.Equal(t, []string{"mid"}, variantIDs(cands))
}

func TestFindDeletions_CategoryExemption(t *testing.T) {
	family := catalog.Item{
		ID:       "family",
		Kind:     catalog.KindMovie,
		Genres:   []string{"Animation", "Family"},
		Variants: []catalog.Variant{variant("a", 100), variant("b", 50), variant("c", 10)},
	}
	other := catalog.Item{
		ID:       "other",
		Kind:     catalog.KindMovie,
		Genres:   []string{"Horror"},
		Variants: []catalog.Variant{variant("d", 100), variant("e", 50)},
	}

	cands := FindDeletions([]catalog.Item{family, other}, Rules{Categories: []string{"Family"}})
	assert.Equal(t, []string{"e"}, variantIDs(cands))
}

func TestFindDeletions_EpisodeUsesSeriesGenres(t *testing.T) {
	ep := catalog.Item{
		ID:           "ep",
		Kind:         catalog.KindEpisode,
		Genres:       []string{"Family"},
		SeriesGenres: []string{"Comedy"},
		Variants:     []catalog.Variant{variant("a", 100), variant("b", 50)},
	}

	assert.Equal(t, []string{"b"}, variantIDs(FindDeletions([]catalog.Item{ep}, Rules{Categories: []string{"Family"}})))

	ep.SeriesGenres = []string{"family"}
	assert.Empty(t, FindDeletions([]catalog.Item{ep}, Rules{Categories: []string{"Family"}}))
}

func TestFindDeletions_StableTieBreak(t *testing.T) {
	item := catalog.Item{
		ID:       "movie",
		Kind:     catalog.KindMovie,
		Variants: []catalog.Variant{variant("first", 50), variant("second", 50), variant("third", 50)},
	}

	cands := FindDeletions([]catalog.Item{item}, Rules{})
	assert.Equal(t, []string{"second", "third"}, variantIDs(cands))
	assert.Equal(t, "first", cands[0].KeepVariantID)
}

func TestFindDeletions_GroupOrderAndSingles(t *testing.T) {
	single := catalog.Item{ID: "single", Variants: []catalog.Variant{variant("only", 10)}}
	g1 := catalog.Item{ID: "g1", Variants: []catalog.Variant{variant("g1a", 1), variant("g1b", 2)}}
	g2 := catalog.Item{ID: "g2", Variants: []catalog.Variant{variant("g2a", 5), variant("g2b", 3)}}

	cands := FindDeletions([]catalog.Item{g1, single, g2}, Rules{})
	assert.Equal(t, []string{"g1a", "g2b"}, variantIDs(cands))
}

func TestFindDeletions_MultiPartVariants(t *testing.T) {
	multi := catalog.Variant{ID: "multi", Parts: []catalog.Part{{ID: "cd1", Size: 70}, {ID: "cd2", Size: 60}}}
	item := catalog.Item{ID: "movie", Variants: []catalog.Variant{multi, variant("single", 80)}}

	cands := FindDeletions([]catalog.Item{item}, Rules{})
	require.Len(t, cands, 2)
	assert.Equal(t, "cd1", cands[0].Part.ID)
	assert.Equal(t, "cd2", cands[1].Part.ID)
	assert.Equal(t, "single", cands[0].KeepVariantID)
}

func TestFindDeletions_KeeperPartsAreNeverCandidates(t *testing.T) {
	keeper := catalog.Variant{ID: "keeper", Parts: []catalog.Part{{ID: "k1", Size: 100}, {ID: "k2", Size: 5}}}
	item := catalog.Item{ID: "movie", Variants: []catalog.Variant{keeper, variant("other", 50)}}

	cands := FindDeletions([]catalog.Item{item}, Rules{})
	assert.Equal(t, []string{"other"}, variantIDs(cands))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Candidate{
		{Variant: variant("b", 50), Part: variant("b", 50).Parts[0], KeepVariantID: "a"},
		{Variant: variant("c", 10), Part: variant("c", 10).Parts[0], KeepVariantID: "a"},
	})
	assert.Equal(t, Summary{Files: 2, Bytes: 60}, s)
}

func TestSummarize_CountsWholeVariants(t *testing.T) {
	multi := catalog.Variant{ID: "multi", Parts: []catalog.Part{{ID: "cd1", Size: 70}, {ID: "cd2", Size: 60}}}
	item := catalog.Item{ID: "movie", Variants: []catalog.Variant{multi, variant("single", 80)}}
	cands := FindDeletions([]catalog.Item{item}, Rules{})

	// Picking one part deletes the whole variant.
	assert.Equal(t, Summary{Files: 2, Bytes: 130}, Summarize(cands[:1]))
	assert.Equal(t, Summary{Files: 2, Bytes: 130}, Summarize(cands))
}
