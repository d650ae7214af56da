package netlify

import "time"

// Deploy states reported by the API that end a deploy's lifecycle.
const (
	StateReady = "ready"
	StateError = "error"
)

// Deploy is a site deploy.
type Deploy struct {
	ID            string    `json:"id"`
	SiteID        string    `json:"site_id"`
	State         string    `json:"state"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	Required      []string  `json:"required,omitempty"` // SHA-1 digests the API still needs
	DeploySSLURL  string    `json:"deploy_ssl_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	PublishedAt   time.Time `json:"published_at,omitempty"`
	CommitRef     string    `json:"commit_ref,omitempty"`
	Branch        string    `json:"branch,omitempty"`
	Title         string    `json:"title,omitempty"`
	Context       string    `json:"context,omitempty"`
	Locked        bool      `json:"locked,omitempty"`
	Draft         bool      `json:"draft,omitempty"`
	SkippedReason string    `json:"skipped_reason,omitempty"`
}

// DeployFile is one entry of a deploy's file manifest. ID is the site path,
// e.g. "/catalog.json".
type DeployFile struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	MimeType string `json:"mime_type,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// CreateDeployRequest declares the full file manifest of a new deploy as
// path → SHA-1.
type CreateDeployRequest struct {
	Files map[string]string `json:"files"`
	Title string            `json:"title,omitempty"`
}

// Build is a site build started from the linked repository.
type Build struct {
	ID       string    `json:"id"`
	DeployID string    `json:"deploy_id"`
	SHA      string    `json:"sha,omitempty"`
	Done     bool      `json:"done"`
	Error    string    `json:"error,omitempty"`
	Created  time.Time `json:"created_at"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
