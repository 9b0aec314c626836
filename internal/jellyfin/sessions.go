package jellyfin

import (
	"context"
	"fmt"
	"net/url"
)

// GetSessions returns all active sessions.
func (c *Client) GetSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := c.get(ctx, "/Sessions", &sessions); err != nil {
		return nil, fmt.Errorf("getting sessions: %w", err)
	}
	return sessions, nil
}

// GetActiveStreams returns sessions currently playing media.
func (c *Client) GetActiveStreams(ctx context.Context) ([]Session, error) {
	sessions, err := c.GetSessions(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]Session, 0, len(sessions))
	for _, session := range sessions {
		if session.NowPlayingItem != nil {
			active = append(active, session)
		}
	}

	return active, nil
}

// SendMessage shows a message on the session's client.
func (c *Client) SendMessage(ctx context.Context, sessionID, header, text string) error {
	payload := map[string]interface{}{
		"Header":    header,
		"Text":      text,
		"TimeoutMs": 10000,
	}
	if err := c.post(ctx, "/Sessions/"+url.PathEscape(sessionID)+"/Message", payload, nil); err != nil {
		return fmt.Errorf("messaging session %s: %w", sessionID, err)
	}
	return nil
}

// StopPlayback stops whatever the session is playing.
func (c *Client) StopPlayback(ctx context.Context, sessionID string) error {
	if err := c.post(ctx, "/Sessions/"+url.PathEscape(sessionID)+"/Playing/Stop", nil, nil); err != nil {
		return fmt.Errorf("stopping session %s: %w", sessionID, err)
	}
	return nil
}
