// Package resolver turns search results into a flat list of playable items,
// asking a second time for the episodes of every selected series.
package resolver

import (
	"context"
	"fmt"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
	"github.com/Nomadcxx/jellyctl/internal/selector"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxTitleWidth = 60

// EpisodeSource fetches the episodes of a series.
type EpisodeSource interface {
	Episodes(ctx context.Context, series catalog.Item) ([]catalog.Item, error)
}

// Resolver runs the two level pick.
type Resolver struct {
	prompter *selector.Prompter
	episodes EpisodeSource
}

// New creates a resolver.
func New(p *selector.Prompter, episodes EpisodeSource) *Resolver {
	return &Resolver{prompter: p, episodes: episodes}
}

// Resolve asks the operator to pick among results. Each chosen series is
// replaced in place by the episodes picked in a second prompt.
func (r *Resolver) Resolve(ctx context.Context, results []catalog.Item) ([]catalog.Item, error) {
	chosen, err := selector.Select(ctx, r.prompter, "Choose result", results, ResultLabel)
	if err != nil {
		return nil, err
	}

	final := make([]catalog.Item, 0, len(chosen))
	for _, item := range chosen {
		if !item.Kind.IsContainer() {
			final = append(final, item)
			continue
		}

		episodes, err := r.episodes.Episodes(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("fetching episodes of %s: %w", item.Title, err)
		}
		picked, err := selector.Select(ctx, r.prompter, "Choose episode", episodes, EpisodeLabel)
		if err != nil {
			return nil, err
		}
		final = append(final, picked...)
	}

	return final, nil
}

var titleCaser = cases.Title(language.English)

// ResultLabel renders a first level candidate as "(Kind) title server".
func ResultLabel(item catalog.Item) string {
	label := fmt.Sprintf("(%s) %s", titleCaser.String(string(item.Kind)), truncate(item.Title, maxTitleWidth))
	if item.Server != "" {
		label += " " + item.Server
	}
	return label
}

// EpisodeLabel renders an episode as "series S01E02 title".
func EpisodeLabel(item catalog.Item) string {
	return fmt.Sprintf("%s %s %s", item.SeriesTitle, item.SeasonEpisode(), item.Title)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
