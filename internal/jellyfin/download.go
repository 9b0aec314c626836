package jellyfin

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// Download is an open original-file stream.
type Download struct {
	Body     io.ReadCloser
	Size     int64
	Filename string
}

// OpenDownload streams the original file of an item or media source. The
// caller closes Body.
func (c *Client) OpenDownload(ctx context.Context, itemID string) (*Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/Items/"+url.PathEscape(itemID)+"/Download", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.do(c.streamClient, req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", itemID, err)
	}

	dl := &Download{Body: resp.Body, Size: resp.ContentLength}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		dl.Filename = params["filename"]
	}
	return dl, nil
}
