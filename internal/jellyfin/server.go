package jellyfin

import (
	"context"
	"fmt"
	"sync"

	"github.com/Nomadcxx/jellyctl/internal/catalog"
)

const defaultPageSize = 200

// Server binds a client to an authenticated user and exposes the server's
// library in catalog terms.
type Server struct {
	client   *Client
	name     string
	userID   string
	pageSize int

	mu           sync.Mutex
	seriesGenres map[string][]string
}

// NewServer wraps an authenticated client. pageSize bounds each item page
// fetched while walking a section.
func NewServer(name string, client *Client, userID string, pageSize int) *Server {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Server{
		client:       client,
		name:         name,
		userID:       userID,
		pageSize:     pageSize,
		seriesGenres: make(map[string][]string),
	}
}

func (s *Server) Name() string {
	return s.name
}

func (s *Server) UserID() string {
	return s.userID
}

func (s *Server) Client() *Client {
	return s.client
}

func (s *Server) convert(items []Item) []catalog.Item {
	out := make([]catalog.Item, 0, len(items))
	for _, it := range items {
		out = append(out, ToCatalogItem(it, s.name))
	}
	return out
}

// Search finds movies, series and episodes by title.
func (s *Server) Search(ctx context.Context, query string) ([]catalog.Item, error) {
	items, err := s.client.SearchItems(ctx, s.userID, query, "Movie", "Series", "Episode")
	if err != nil {
		return nil, err
	}
	return s.convert(items), nil
}

// Episodes lists the episodes of a series.
func (s *Server) Episodes(ctx context.Context, series catalog.Item) ([]catalog.Item, error) {
	items, err := s.client.GetEpisodes(ctx, s.userID, series.ID)
	if err != nil {
		return nil, err
	}
	return s.convert(items), nil
}

// Sections lists the libraries visible to the user.
func (s *Server) Sections(ctx context.Context) ([]catalog.Section, error) {
	views, err := s.client.GetViews(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	sections := make([]catalog.Section, 0, len(views))
	for _, v := range views {
		sections = append(sections, ToSection(v))
	}
	return sections, nil
}

// WalkSection streams every playable item in a section to fn, one page at a
// time. Walking stops at the first error returned by fn.
func (s *Server) WalkSection(ctx context.Context, section catalog.Section, fn func(catalog.Item) error) error {
	start := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := s.client.GetUserItems(ctx, s.userID, ItemQuery{
			ParentID:   section.ID,
			Types:      section.Kind.ItemTypes(),
			StartIndex: start,
			Limit:      s.pageSize,
		})
		if err != nil {
			return fmt.Errorf("walking section %s: %w", section.Title, err)
		}

		for _, it := range resp.Items {
			if err := fn(ToCatalogItem(it, s.name)); err != nil {
				return err
			}
		}

		start += len(resp.Items)
		if len(resp.Items) == 0 || start >= resp.TotalRecordCount {
			return nil
		}
	}
}

// Duplicates returns every item with more than one variant in sections of
// the given kinds. Episodes carry the genres of their series.
func (s *Server) Duplicates(ctx context.Context, kinds catalog.SectionKinds) ([]catalog.Item, error) {
	sections, err := s.Sections(ctx)
	if err != nil {
		return nil, err
	}

	var groups []catalog.Item
	for _, section := range sections {
		if !kinds.Has(section.Kind) {
			continue
		}
		err := s.WalkSection(ctx, section, func(item catalog.Item) error {
			if !item.IsDuplicate() {
				return nil
			}
			if item.Kind == catalog.KindEpisode && item.SeriesID != "" {
				genres, err := s.genresOf(ctx, item.SeriesID)
				if err != nil {
					return err
				}
				item.SeriesGenres = genres
			}
			groups = append(groups, item)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (s *Server) genresOf(ctx context.Context, seriesID string) ([]string, error) {
	s.mu.Lock()
	genres, ok := s.seriesGenres[seriesID]
	s.mu.Unlock()
	if ok {
		return genres, nil
	}

	series, err := s.client.GetItem(ctx, s.userID, seriesID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.seriesGenres[seriesID] = series.Genres
	s.mu.Unlock()
	return series.Genres, nil
}

// MarkWatched marks an item played for the user.
func (s *Server) MarkWatched(ctx context.Context, item catalog.Item) error {
	return s.client.MarkPlayed(ctx, s.userID, item.ID)
}

// MarkUnwatched clears the played flag.
func (s *Server) MarkUnwatched(ctx context.Context, item catalog.Item) error {
	return s.client.MarkUnplayed(ctx, s.userID, item.ID)
}

func (s *Server) Refresh(ctx context.Context, item catalog.Item) error {
	return s.client.RefreshItem(ctx, item.ID)
}

// DeleteItem removes an item with all of its variants.
func (s *Server) DeleteItem(ctx context.Context, item catalog.Item) error {
	return s.client.DeleteItem(ctx, item.ID)
}

// DeleteVariant removes one version of an item.
func (s *Server) DeleteVariant(ctx context.Context, item catalog.Item, variant catalog.Variant) error {
	if variant.ID == "" {
		return fmt.Errorf("variant of %s has no id", item.Title)
	}
	return s.client.DeleteItem(ctx, variant.ID)
}

// OpenDownload streams the original file of a variant.
func (s *Server) OpenDownload(ctx context.Context, variant catalog.Variant) (*Download, error) {
	return s.client.OpenDownload(ctx, variant.ID)
}

// Sessions lists active playback sessions.
func (s *Server) Sessions(ctx context.Context) ([]catalog.Session, error) {
	raw, err := s.client.GetSessions(ctx)
	if err != nil {
		return nil, err
	}
	sessions := make([]catalog.Session, 0, len(raw))
	for _, r := range raw {
		sessions = append(sessions, ToSession(r))
	}
	return sessions, nil
}

// StopSession stops playback, showing reason on the client first when given.
func (s *Server) StopSession(ctx context.Context, session catalog.Session, reason string) error {
	if reason != "" {
		if err := s.client.SendMessage(ctx, session.ID, "Playback stopped", reason); err != nil {
			return err
		}
	}
	return s.client.StopPlayback(ctx, session.ID)
}

// Share grants a user access to the given sections, creating the user with
// password when it does not exist yet. It reports whether a user was created.
func (s *Server) Share(ctx context.Context, username, password string, sections []catalog.Section) (bool, error) {
	user, err := s.client.FindUser(ctx, username)
	if err != nil {
		return false, err
	}

	created := false
	if user == nil {
		if user, err = s.client.CreateUser(ctx, username, password); err != nil {
			return false, err
		}
		created = true
	}

	ids := make([]string, 0, len(sections))
	for _, section := range sections {
		ids = append(ids, section.ID)
	}
	if err := s.client.SetLibraryAccess(ctx, user.ID, ids); err != nil {
		return created, err
	}
	return created, nil
}

// Unshare deletes a user. It reports whether the user existed.
func (s *Server) Unshare(ctx context.Context, username string) (bool, error) {
	user, err := s.client.FindUser(ctx, username)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	if err := s.client.DeleteUser(ctx, user.ID); err != nil {
		return false, err
	}
	return true, nil
}
