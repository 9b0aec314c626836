// Package dupes decides which file variants of duplicated library items can
// be removed, and removes them.
package dupes

import (
	"sort"
	"strings"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
)

// Rules protect variants from deletion.
type Rules struct {
	// Language keeps any variant with an audio stream in this language code.
	Language string
	// Categories keeps every variant of items tagged with one of these genres.
	Categories []string
}

func (r Rules) exemptLanguage(v catalog.Variant) bool {
	return r.Language != "" && v.HasAudioLanguage(r.Language)
}

func (r Rules) exemptCategory(item catalog.Item) bool {
	if len(r.Categories) == 0 {
		return false
	}
	for _, tag := range item.CategoryTags() {
		for _, c := range r.Categories {
			if strings.EqualFold(tag, c) {
				return true
			}
		}
	}
	return false
}

// Candidate is a file proposed for deletion.
type Candidate struct {
	Item    catalog.Item
	Variant catalog.Variant
	Part    catalog.Part

	// KeepVariantID is the variant retained for the item.
	KeepVariantID string
}

type pair struct {
	variant catalog.Variant
	part    catalog.Part
}

// FindDeletions ranks the (variant, part) pairs of every group by part size,
// largest first, keeps the variant of the largest pair and returns the parts
// of the other variants minus those protected by rules. Equal sizes keep
// discovery order. Items with fewer than two variants are skipped.
func FindDeletions(groups []catalog.Item, rules Rules) []Candidate {
	var candidates []Candidate

	for _, item := range groups {
		if !item.IsDuplicate() {
			continue
		}

		var pairs []pair
		for _, v := range item.Variants {
			for _, p := range v.Parts {
				pairs = append(pairs, pair{variant: v, part: p})
			}
		}
		if len(pairs) == 0 {
			continue
		}

		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].part.Size > pairs[j].part.Size
		})

		keep := pairs[0].variant.ID
		for _, p := range pairs[1:] {
			if p.variant.ID == keep {
				continue
			}
			if rules.exemptLanguage(p.variant) {
				continue
			}
			if rules.exemptCategory(item) {
				continue
			}
			candidates = append(candidates, Candidate{
				Item:          item,
				Variant:       p.variant,
				Part:          p.part,
				KeepVariantID: keep,
			})
		}
	}

	return candidates
}

// Summary aggregates a set of candidates.
type Summary struct {
	Files int
	Bytes int64
}

// Summarize counts what deleting candidates removes. A variant is deleted
// as a whole, so every part of a picked variant counts once.
func Summarize(candidates []Candidate) Summary {
	var s Summary
	seen := make(map[string]bool)
	for _, c := range candidates {
		if c.Variant.ID == c.KeepVariantID || seen[c.Variant.ID] {
			continue
		}
		seen[c.Variant.ID] = true
		s.Files += len(c.Variant.Parts)
		s.Bytes += c.Variant.Size()
	}
	return s
}
