package jellyfin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned when the server rejects credentials.
var ErrUnauthorized = errors.New("invalid username or password")

// AuthenticateByName logs in with a username and password. On success the
// client keeps the returned access token.
func (c *Client) AuthenticateByName(ctx context.Context, username, password string) (*AuthenticationResult, error) {
	payload := map[string]string{
		"Username": username,
		"Pw":       password,
	}

	var result AuthenticationResult
	if err := c.post(ctx, "/Users/AuthenticateByName", payload, &result); err != nil {
		if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden) {
			return nil, fmt.Errorf("authenticating %s: %w", username, ErrUnauthorized)
		}
		return nil, fmt.Errorf("authenticating %s: %w", username, err)
	}
	if result.AccessToken == "" || result.User == nil {
		return nil, fmt.Errorf("authenticating %s: empty authentication result", username)
	}

	c.SetToken(result.AccessToken)
	return &result, nil
}
