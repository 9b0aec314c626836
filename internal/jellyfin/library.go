package jellyfin

import (
	"context"
	"fmt"
	"net/url"
)

// RefreshLibrary triggers a full library scan.
func (c *Client) RefreshLibrary(ctx context.Context) error {
	if err := c.post(ctx, "/Library/Refresh", nil, nil); err != nil {
		return fmt.Errorf("refreshing library: %w", err)
	}
	return nil
}

// RefreshItem triggers a metadata refresh for a specific item.
func (c *Client) RefreshItem(ctx context.Context, itemID string) error {
	payload := map[string]interface{}{
		"Recursive":          true,
		"ReplaceAllMetadata": false,
		"ReplaceAllImages":   false,
	}
	if err := c.post(ctx, "/Items/"+url.PathEscape(itemID)+"/Refresh", payload, nil); err != nil {
		return fmt.Errorf("refreshing item %s: %w", itemID, err)
	}
	return nil
}

// GetViews returns the top-level libraries visible to a user.
func (c *Client) GetViews(ctx context.Context, userID string) ([]Item, error) {
	var resp ItemsResponse
	if err := c.get(ctx, fmt.Sprintf("/Users/%s/Views", url.PathEscape(userID)), &resp); err != nil {
		return nil, fmt.Errorf("getting views: %w", err)
	}
	return resp.Items, nil
}
