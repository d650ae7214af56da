package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/sundayezeilo/brandcatalog/internal/catalog"
	"github.com/sundayezeilo/brandcatalog/internal/github"
	"github.com/sundayezeilo/brandcatalog/internal/netlify"
)

// contentsAPI is the subset of *github.Client used by the Commit store.
type contentsAPI interface {
	GetContents(ctx context.Context, owner, repo, path, ref string) (*github.FileContent, error)
	UpdateContents(ctx context.Context, owner, repo, path string, req *github.UpdateFileRequest) (*github.UpdateFileResponse, error)
}

// buildAPI starts a site build after a commit.
type buildAPI interface {
	TriggerBuild(ctx context.Context, siteID string) (*netlify.Build, error)
}

// CommitConfig configures the Commit store.
type CommitConfig struct {
	Owner  string
	Repo   string
	Path   string
	Branch string // empty means the repository default branch
	SiteID string
	Logger *slog.Logger
}

// Commit keeps the catalog in a repository file. The file's blob SHA is the
// version token: a write against a stale SHA fails with ErrConflict.
type Commit struct {
	contents contentsAPI
	builds   buildAPI
	cfg      CommitConfig
	log      *slog.Logger
}

var _ catalog.Store = (*Commit)(nil)

func NewCommit(contents contentsAPI, builds buildAPI, cfg CommitConfig) *Commit {
	if cfg.Path == "" {
		cfg.Path = "catalog.json"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Commit{contents: contents, builds: builds, cfg: cfg, log: logger}
}

func (s *Commit) Fetch(ctx context.Context) (catalog.Document, error) {
	const op = "store.Commit.Fetch"
	const msg = "Failed to fetch catalog data from GitHub"

	fc, err := s.contents.GetContents(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Path, s.cfg.Branch)
	if err != nil {
		return catalog.Document{}, catalog.E(op, catalog.ErrFetch, msg, err)
	}

	raw, err := github.DecodeContent(fc)
	if err != nil {
		return catalog.Document{}, catalog.E(op, catalog.ErrFetch, msg, err)
	}

	c, err := decodeCatalog(raw)
	if err != nil {
		return catalog.Document{}, catalog.E(op, catalog.ErrFetch, msg, fmt.Errorf("parse %s: %w", s.cfg.Path, err))
	}
	return catalog.Document{Catalog: c, Version: fc.SHA}, nil
}

func (s *Commit) Publish(ctx context.Context, doc catalog.Document, change catalog.Change) (catalog.Publication, error) {
	const op = "store.Commit.Publish"

	var pub catalog.Publication

	body, err := encodeCatalog(doc.Catalog, "  ")
	if err != nil {
		return pub, catalog.E(op, catalog.ErrPublish, "Failed to update catalog on GitHub", err)
	}

	resp, err := s.contents.UpdateContents(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Path, &github.UpdateFileRequest{
		Message: CommitMessage(change),
		Content: base64.StdEncoding.EncodeToString(body),
		SHA:     doc.Version,
		Branch:  s.cfg.Branch,
	})
	if github.IsConflict(err) {
		return pub, catalog.E(op, catalog.ErrConflict,
			"Catalog was modified concurrently; fetch it again and retry", err)
	}
	if err != nil {
		return pub, catalog.E(op, catalog.ErrPublish, "Failed to update catalog on GitHub", err)
	}

	pub.Version = resp.Commit.SHA
	pub.CatalogUpdated = true

	s.log.InfoContext(ctx, "catalog committed",
		"commit", resp.Commit.SHA,
		"blob_sha", resp.Content.SHA,
		"previous_blob_sha", doc.Version,
		"path", s.cfg.Path,
	)

	build, err := s.builds.TriggerBuild(ctx, s.cfg.SiteID)
	if err != nil {
		return pub, catalog.E(op, catalog.ErrDeployTrigger,
			"Catalog updated but failed to trigger Netlify deploy", err)
	}

	pub.DeployID = build.ID
	pub.DeployState = catalog.DeployTriggered
	pub.DeployTriggered = true

	s.log.InfoContext(ctx, "build triggered", "build_id", build.ID, "commit", resp.Commit.SHA)
	return pub, nil
}

// CommitMessage describes change as a one-line commit subject.
func CommitMessage(change catalog.Change) string {
	return fmt.Sprintf("Update catalog: %s %s in %s", change.Action, change.Brand, change.Category)
}
