// Package github is a minimal client for the repository contents API.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client talks to the GitHub REST API with a token.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer from GitHub.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("github API error (status %d): %s", e.StatusCode, e.Message)
}

// IsConflict reports whether err is GitHub rejecting a write because the
// supplied SHA no longer matches the file.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// GetContents fetches a file. An empty ref reads the default branch.
func (c *Client) GetContents(ctx context.Context, owner, repo, path, ref string) (*FileContent, error) {
	endpoint := c.contentsURL(owner, repo, path)
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}

	var fc FileContent
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// UpdateContents creates or replaces a file with a single commit.
func (c *Client) UpdateContents(ctx context.Context, owner, repo, path string, req *UpdateFileRequest) (*UpdateFileResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var out UpdateFileResponse
	if err := c.do(ctx, http.MethodPut, c.contentsURL(owner, repo, path), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeContent returns the raw bytes of a base64-encoded file. GitHub
// wraps the payload at 60 columns.
func DecodeContent(fc *FileContent) ([]byte, error) {
	if fc.Encoding != "" && fc.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported content encoding %q", fc.Encoding)
	}
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(fc.Content)
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return data, nil
}

func (c *Client) contentsURL(owner, repo, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strings.Join(segments, "/"))
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq, body != nil)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(respBody, &er) == nil && er.Message != "" {
			apiErr.Message = er.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}
