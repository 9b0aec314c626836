package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// itemFields are the optional fields every catalog query asks for.
const itemFields = "Path,ProviderIds,Genres,MediaSources,MediaStreams,ParentId,SeriesId"

// ItemQuery narrows GET /Users/{id}/Items.
type ItemQuery struct {
	SearchTerm string
	ParentID   string
	Types      []string
	StartIndex int
	Limit      int
}

func (q ItemQuery) values() url.Values {
	query := url.Values{}
	query.Set("Recursive", "true")
	query.Set("Fields", itemFields)
	query.Set("EnableUserData", "true")
	if q.SearchTerm != "" {
		query.Set("SearchTerm", q.SearchTerm)
	}
	if q.ParentID != "" {
		query.Set("ParentId", q.ParentID)
	}
	if len(q.Types) > 0 {
		query.Set("IncludeItemTypes", strings.Join(q.Types, ","))
	}
	if q.Limit > 0 {
		query.Set("StartIndex", strconv.Itoa(q.StartIndex))
		query.Set("Limit", strconv.Itoa(q.Limit))
		query.Set("SortBy", "SortName")
	}
	return query
}

// GetUserItems lists items visible to a user.
func (c *Client) GetUserItems(ctx context.Context, userID string, q ItemQuery) (*ItemsResponse, error) {
	var resp ItemsResponse
	endpoint := fmt.Sprintf("/Users/%s/Items?%s", url.PathEscape(userID), q.values().Encode())
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return &resp, nil
}

// SearchItems searches a user's library by name.
func (c *Client) SearchItems(ctx context.Context, userID, searchTerm string, itemTypes ...string) ([]Item, error) {
	resp, err := c.GetUserItems(ctx, userID, ItemQuery{SearchTerm: searchTerm, Types: itemTypes})
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	return resp.Items, nil
}

// GetItem returns full metadata for a specific item as seen by a user.
func (c *Client) GetItem(ctx context.Context, userID, itemID string) (*Item, error) {
	var item Item
	endpoint := fmt.Sprintf("/Users/%s/Items/%s", url.PathEscape(userID), url.PathEscape(itemID))
	if err := c.get(ctx, endpoint, &item); err != nil {
		return nil, fmt.Errorf("getting item %s: %w", itemID, err)
	}
	return &item, nil
}

// GetEpisodes returns every episode of a series in airing order.
func (c *Client) GetEpisodes(ctx context.Context, userID, seriesID string) ([]Item, error) {
	query := url.Values{}
	query.Set("UserId", userID)
	query.Set("Fields", itemFields)
	query.Set("EnableUserData", "true")

	var resp ItemsResponse
	endpoint := fmt.Sprintf("/Shows/%s/Episodes?%s", url.PathEscape(seriesID), query.Encode())
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("getting episodes of %s: %w", seriesID, err)
	}
	return resp.Items, nil
}

// DeleteItem removes an item and its files from the server. Alternate
// versions are items of their own, so a media source id deletes one version.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	if err := c.delete(ctx, "/Items/"+url.PathEscape(itemID)); err != nil {
		return fmt.Errorf("deleting item %s: %w", itemID, err)
	}
	return nil
}

// MarkPlayed sets the played flag for a user.
func (c *Client) MarkPlayed(ctx context.Context, userID, itemID string) error {
	endpoint := fmt.Sprintf("/Users/%s/PlayedItems/%s", url.PathEscape(userID), url.PathEscape(itemID))
	if err := c.post(ctx, endpoint, nil, nil); err != nil {
		return fmt.Errorf("marking %s played: %w", itemID, err)
	}
	return nil
}

// MarkUnplayed clears the played flag for a user.
func (c *Client) MarkUnplayed(ctx context.Context, userID, itemID string) error {
	endpoint := fmt.Sprintf("/Users/%s/PlayedItems/%s", url.PathEscape(userID), url.PathEscape(itemID))
	if err := c.call(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("marking %s unplayed: %w", itemID, err)
	}
	return nil
}
