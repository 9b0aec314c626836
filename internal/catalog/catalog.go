// Package catalog defines the read-only projections of remote library state
// that jellyctl works with: items, their file variants, library sections and
// playback sessions.
package catalog

import (
	"fmt"
	"strings"
)

// Kind discriminates catalog items.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindEpisode Kind = "episode"
	KindSeries  Kind = "series"
	KindOther   Kind = "other"
)

// ParseKind maps a server item type onto a Kind.
func ParseKind(s string) Kind {
	switch strings.ToLower(s) {
	case "movie":
		return KindMovie
	case "episode":
		return KindEpisode
	case "series", "show":
		return KindSeries
	default:
		return KindOther
	}
}

// IsContainer reports whether selecting an item of this kind requires a
// second pick among its children.
func (k Kind) IsContainer() bool {
	return k == KindSeries
}

// Part is a physical file backing a variant.
type Part struct {
	ID             string
	Path           string
	Container      string
	Size           int64
	AudioLanguages []string
}

// Variant is one encoded version of an item.
type Variant struct {
	ID    string
	Name  string
	Parts []Part
}

// Size returns the summed size of all parts.
func (v Variant) Size() int64 {
	var total int64
	for _, p := range v.Parts {
		total += p.Size
	}
	return total
}

// HasAudioLanguage reports whether any part of the variant carries an audio
// stream tagged with lang.
func (v Variant) HasAudioLanguage(lang string) bool {
	for _, p := range v.Parts {
		for _, l := range p.AudioLanguages {
			if strings.EqualFold(l, lang) {
				return true
			}
		}
	}
	return false
}

// Item is a movie, episode or series in a remote library.
type Item struct {
	ID    string
	GUID  string
	Kind  Kind
	Title string
	Year  int

	// Episode hierarchy.
	SeriesID     string
	SeriesTitle  string
	SeasonNumber *int
	EpisodeIndex *int

	Genres       []string
	SeriesGenres []string

	Played    bool
	PlayCount int

	Variants []Variant

	// Server is the friendly name of the server the item was fetched from.
	Server string
}

// SeasonEpisode renders the episode position as S01E02. Unknown components
// are rendered as zero.
func (i Item) SeasonEpisode() string {
	season, episode := 0, 0
	if i.SeasonNumber != nil {
		season = *i.SeasonNumber
	}
	if i.EpisodeIndex != nil {
		episode = *i.EpisodeIndex
	}
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

// CategoryTags returns the genre tags that apply to the item. Episodes
// inherit the tags of their series.
func (i Item) CategoryTags() []string {
	if i.Kind == KindEpisode {
		return i.SeriesGenres
	}
	return i.Genres
}

// IsDuplicate reports whether the item has more than one variant.
func (i Item) IsDuplicate() bool {
	return len(i.Variants) > 1
}

// DisplayName renders a human readable name, including the series and
// episode position for episodes.
func (i Item) DisplayName() string {
	if i.Kind == KindEpisode && i.SeriesTitle != "" {
		return fmt.Sprintf("%s %s %s", i.SeriesTitle, i.SeasonEpisode(), i.Title)
	}
	if i.Year > 0 {
		return fmt.Sprintf("%s (%d)", i.Title, i.Year)
	}
	return i.Title
}

// SectionKind is the kind of a library section.
type SectionKind string

const (
	SectionMovie SectionKind = "movie"
	SectionShow  SectionKind = "show"
	SectionOther SectionKind = "other"
)

// ParseSectionKind accepts both the short names used on the command line and
// the collection types reported by the server.
func ParseSectionKind(s string) SectionKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return SectionMovie
	case "show", "shows", "tvshows", "tv":
		return SectionShow
	default:
		return SectionOther
	}
}

// ItemTypes returns the item types fetched when walking a section of this kind.
func (k SectionKind) ItemTypes() []string {
	switch k {
	case SectionMovie:
		return []string{"Movie"}
	case SectionShow:
		return []string{"Episode"}
	default:
		return nil
	}
}

// SectionKinds is a set of section kinds.
type SectionKinds map[SectionKind]bool

// NewSectionKinds builds a set from names such as "movie" or "show". Unknown
// names are ignored. An empty input yields movie and show.
func NewSectionKinds(names ...string) SectionKinds {
	kinds := SectionKinds{}
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if k := ParseSectionKind(part); k != SectionOther {
				kinds[k] = true
			}
		}
	}
	if len(kinds) == 0 {
		kinds[SectionMovie] = true
		kinds[SectionShow] = true
	}
	return kinds
}

// Has reports whether k is in the set.
func (s SectionKinds) Has(k SectionKind) bool {
	return s[k]
}

// Section is a library section on a server.
type Section struct {
	ID    string
	Title string
	Kind  SectionKind
}

// Session is an active playback session.
type Session struct {
	ID         string
	UserName   string
	Client     string
	DeviceName string
	ItemTitle  string
	ItemType   string
	Paused     bool
}

// Playing reports whether the session currently has media attached.
func (s Session) Playing() bool {
	return s.ItemTitle != ""
}
