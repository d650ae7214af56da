package catalog

// Catalog maps a category to its brands, and each brand to a Telegram URL.
// It is always read and written as a whole document.
type Catalog map[string]map[string]string

// Clone returns a deep copy. Cloning a nil catalog yields an empty one.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for category, brands := range c {
		copied := make(map[string]string, len(brands))
		for brand, url := range brands {
			copied[brand] = url
		}
		out[category] = copied
	}
	return out
}

type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
)

// Request is the inbound payload of both catalog endpoints.
type Request struct {
	Action   string `json:"action"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	URL      string `json:"url,omitempty"`
}

// Change is a validated Request.
type Change struct {
	Action   Action
	Category string
	Brand    string
	URL      string // empty for deletes
}

// Document is a catalog together with the backing store's version token.
// Version is empty when the store has no versioning.
type Document struct {
	Catalog Catalog
	Version string
}

type DeployState string

const (
	DeployReady     DeployState = "ready"
	DeployPending   DeployState = "pending"
	DeployFailed    DeployState = "error"
	DeployTriggered DeployState = "triggered"
)

// Publication describes what a Store.Publish call achieved. It is
// meaningful even when Publish returns an error: a commit can land while
// the build trigger fails.
type Publication struct {
	Version         string // new content hash or commit SHA
	DeployID        string // deploy or build id on the site host
	DeployState     DeployState
	CatalogUpdated  bool
	DeployTriggered bool
}
