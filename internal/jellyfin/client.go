package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	clientName    = "jellyctl"
	clientVersion = "1.0.0"
)

type Config struct {
	URL        string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	streamClient *http.Client
	deviceID     string
	hostname     string
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = clientName
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	} else if httpClient.Timeout == 0 {
		httpClient.Timeout = timeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.APIKey,
		httpClient: httpClient,
		// Downloads run for as long as the context allows.
		streamClient: &http.Client{Transport: httpClient.Transport},
		hostname:     hostname,
		deviceID:     fmt.Sprintf("%s-%s", clientName, uuid.NewString()),
	}
}

// SetToken replaces the access token, e.g. after AuthenticateByName.
func (c *Client) SetToken(token string) {
	c.token = token
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) authHeader() string {
	header := fmt.Sprintf(`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
		clientName, c.hostname, c.deviceID, clientVersion)
	if c.token != "" {
		header += fmt.Sprintf(`, Token="%s"`, c.token)
	}
	return header
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	rel, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	fullURL := base.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, fullURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(httpClient *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{
			Method:     req.Method,
			Endpoint:   req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	return resp, nil
}

func (c *Client) request(ctx context.Context, method, endpoint string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding payload: %w", err)
		}
		body = bytes.NewReader(jsonBytes)
	}

	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	return c.do(c.httpClient, req)
}

func (c *Client) call(ctx context.Context, method, endpoint string, payload, result interface{}) error {
	resp, err := c.request(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, result interface{}) error {
	return c.call(ctx, http.MethodGet, endpoint, nil, result)
}

func (c *Client) post(ctx context.Context, endpoint string, payload, result interface{}) error {
	return c.call(ctx, http.MethodPost, endpoint, payload, result)
}

func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.call(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.GetSystemInfo(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (c *Client) GetSystemInfo(ctx context.Context) (*SystemInfo, error) {
	var info SystemInfo
	if err := c.get(ctx, "/System/Info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}
