package jellyfin

import (
	"github.com/Nomadcxx/jellyctl/internal/catalog"
)

// ToCatalogItem converts a server item into its catalog projection. Each
// media source becomes one variant backed by a single part.
func ToCatalogItem(it Item, server string) catalog.Item {
	item := catalog.Item{
		ID:           it.ID,
		GUID:         catalog.CanonicalGUID(it.ProviderIDs),
		Kind:         catalog.ParseKind(it.Type),
		Title:        it.Name,
		Year:         it.ProductionYear,
		SeriesID:     it.SeriesID,
		SeriesTitle:  it.SeriesName,
		SeasonNumber: it.ParentIndexNumber,
		EpisodeIndex: it.IndexNumber,
		Genres:       it.Genres,
		Server:       server,
	}
	if it.UserData != nil {
		item.Played = it.UserData.Played
		item.PlayCount = it.UserData.PlayCount
	}

	for _, ms := range it.MediaSources {
		part := catalog.Part{
			ID:        ms.ID,
			Path:      ms.Path,
			Container: ms.Container,
			Size:      ms.Size,
		}
		for _, stream := range ms.MediaStreams {
			if stream.Type == "Audio" && stream.Language != "" {
				part.AudioLanguages = append(part.AudioLanguages, stream.Language)
			}
		}
		name := ms.Name
		if name == "" {
			name = it.Name
		}
		item.Variants = append(item.Variants, catalog.Variant{
			ID:    ms.ID,
			Name:  name,
			Parts: []catalog.Part{part},
		})
	}

	return item
}

// ToSection converts a user view into a library section.
func ToSection(view Item) catalog.Section {
	return catalog.Section{
		ID:    view.ID,
		Title: view.Name,
		Kind:  catalog.ParseSectionKind(view.CollectionType),
	}
}

// ToSession converts an active session.
func ToSession(s Session) catalog.Session {
	session := catalog.Session{
		ID:         s.ID,
		UserName:   s.UserName,
		Client:     s.Client,
		DeviceName: s.DeviceName,
	}
	if s.NowPlayingItem != nil {
		session.ItemType = s.NowPlayingItem.Type
		session.ItemTitle = s.NowPlayingItem.Name
		if s.NowPlayingItem.SeriesName != "" {
			session.ItemTitle = s.NowPlayingItem.SeriesName + " - " + s.NowPlayingItem.Name
		}
	}
	if s.PlayState != nil {
		session.Paused = s.PlayState.IsPaused
	}
	return session
}
