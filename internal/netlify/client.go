// Package netlify is a minimal client for the Netlify deploy and build API.
package netlify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultBaseURL = "https://api.netlify.com/api/v1"

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

// Client talks to the Netlify API with a personal access token.
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

// APIError is a non-2xx answer from Netlify.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("netlify API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("netlify API error (status %d): %s", e.StatusCode, e.Message)
}

// ListDeploys returns the site's deploys, most recent first.
func (c *Client) ListDeploys(ctx context.Context, siteID string) ([]Deploy, error) {
	var out []Deploy
	err := c.doJSON(ctx, http.MethodGet, "/sites/"+url.PathEscape(siteID)+"/deploys", nil, &out)
	return out, err
}

// ListDeployFiles returns the file manifest of a deploy.
func (c *Client) ListDeployFiles(ctx context.Context, deployID string) ([]DeployFile, error) {
	var out []DeployFile
	err := c.doJSON(ctx, http.MethodGet, "/deploys/"+url.PathEscape(deployID)+"/files", nil, &out)
	return out, err
}

// CreateDeploy starts a file-digest deploy.
func (c *Client) CreateDeploy(ctx context.Context, siteID string, req *CreateDeployRequest) (*Deploy, error) {
	var out Deploy
	if err := c.doJSON(ctx, http.MethodPost, "/sites/"+url.PathEscape(siteID)+"/deploys", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadDeployFile uploads the body of one file of a deploy. path is the
// site path without a leading slash.
func (c *Client) UploadDeployFile(ctx context.Context, deployID, path, contentType string, body []byte) (*DeployFile, error) {
	endpoint := "/deploys/" + url.PathEscape(deployID) + "/files/" + escapePath(path)

	var out DeployFile
	if err := c.do(ctx, http.MethodPut, endpoint, contentType, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDeploy returns the current state of a deploy.
func (c *Client) GetDeploy(ctx context.Context, deployID string) (*Deploy, error) {
	var out Deploy
	if err := c.doJSON(ctx, http.MethodGet, "/deploys/"+url.PathEscape(deployID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TriggerBuild starts a build of the site from its linked repository.
func (c *Client) TriggerBuild(ctx context.Context, siteID string) (*Build, error) {
	var out Build
	if err := c.doJSON(ctx, http.MethodPost, "/sites/"+url.PathEscape(siteID)+"/builds", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func escapePath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out any) error {
	if in == nil {
		return c.do(ctx, method, endpoint, "", nil, out)
	}
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, method, endpoint, "application/json", body, out)
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

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

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
