package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sundayezeilo/brandcatalog/internal/catalog"
	"github.com/sundayezeilo/brandcatalog/internal/netlify"
)

// deployAPI is the subset of *netlify.Client used to publish a deploy.
type deployAPI interface {
	ListDeploys(ctx context.Context, siteID string) ([]netlify.Deploy, error)
	ListDeployFiles(ctx context.Context, deployID string) ([]netlify.DeployFile, error)
	CreateDeploy(ctx context.Context, siteID string, req *netlify.CreateDeployRequest) (*netlify.Deploy, error)
	UploadDeployFile(ctx context.Context, deployID, path, contentType string, body []byte) (*netlify.DeployFile, error)
	GetDeploy(ctx context.Context, deployID string) (*netlify.Deploy, error)
}

// RedeployConfig configures the Redeploy store.
type RedeployConfig struct {
	SiteID      string
	CatalogURL  string // public URL of the published catalog
	CatalogPath string // site path, defaults to /catalog.json

	// The deploy is polled every PollInterval until ready, failed or
	// PollTimeout. A zero PollTimeout reports the deploy as pending
	// without polling.
	PollInterval time.Duration
	PollTimeout  time.Duration

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Redeploy reads the catalog from the live site and publishes it by creating
// a new deploy that differs from the current one only in the catalog file.
// It has no version token: concurrent writers are last-write-wins.
type Redeploy struct {
	api  deployAPI
	cfg  RedeployConfig
	http *http.Client
	log  *slog.Logger
}

var _ catalog.Store = (*Redeploy)(nil)

func NewRedeploy(api deployAPI, cfg RedeployConfig) *Redeploy {
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "/catalog.json"
	}
	if !strings.HasPrefix(cfg.CatalogPath, "/") {
		cfg.CatalogPath = "/" + cfg.CatalogPath
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Redeploy{api: api, cfg: cfg, http: httpClient, log: logger}
}

func (s *Redeploy) Fetch(ctx context.Context) (catalog.Document, error) {
	const op = "store.Redeploy.Fetch"
	const msg = "Failed to fetch current catalog"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.CatalogURL, nil)
	if err != nil {
		return catalog.Document{}, catalog.E(op, catalog.ErrFetch, msg, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.http.Do(req)
	if err != nil {
		return catalog.Document{}, catalog.E(op, catalog.ErrFetch, msg, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return catalog.Document{}, catalog.E(op, catalog.ErrFetch, msg, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return catalog.Document{}, catalog.E(op, catalog.ErrFetch, msg,
			fmt.Errorf("GET %s: status %d", s.cfg.CatalogURL, resp.StatusCode))
	}

	c, err := decodeCatalog(body)
	if err != nil {
		return catalog.Document{}, catalog.E(op, catalog.ErrFetch, msg, err)
	}
	return catalog.Document{Catalog: c}, nil
}

func (s *Redeploy) Publish(ctx context.Context, doc catalog.Document, change catalog.Change) (catalog.Publication, error) {
	const op = "store.Redeploy.Publish"
	const msg = "Failed to publish catalog"

	var pub catalog.Publication

	body, err := encodeCatalog(doc.Catalog, "")
	if err != nil {
		return pub, catalog.E(op, catalog.ErrPublish, msg, err)
	}
	sum := sha1.Sum(body)
	pub.Version = hex.EncodeToString(sum[:])

	deploys, err := s.api.ListDeploys(ctx, s.cfg.SiteID)
	if err != nil {
		return pub, catalog.E(op, catalog.ErrPublish, msg, fmt.Errorf("list deploys: %w", err))
	}
	if len(deploys) == 0 {
		return pub, catalog.E(op, catalog.ErrNoDeploys, "No deploys found.", nil)
	}
	current := deploys[0].ID

	files, err := s.api.ListDeployFiles(ctx, current)
	if err != nil {
		return pub, catalog.E(op, catalog.ErrPublish, msg, fmt.Errorf("list files of deploy %s: %w", current, err))
	}

	manifest := make(map[string]string, len(files)+1)
	for _, f := range files {
		path := f.ID
		if path == "" {
			path = f.Path
		}
		manifest[path] = f.SHA
	}
	manifest[s.cfg.CatalogPath] = pub.Version

	created, err := s.api.CreateDeploy(ctx, s.cfg.SiteID, &netlify.CreateDeployRequest{
		Files: manifest,
		Title: fmt.Sprintf("Catalog: %s %s in %s", change.Action, change.Brand, change.Category),
	})
	if err != nil {
		return pub, catalog.E(op, catalog.ErrPublish, msg, fmt.Errorf("create deploy: %w", err))
	}
	pub.DeployID = created.ID
	pub.DeployTriggered = true

	s.log.InfoContext(ctx, "deploy created",
		"current_deploy_id", current,
		"new_deploy_id", created.ID,
		"catalog_sha1", pub.Version,
		"files", len(manifest),
	)

	if _, err := s.api.UploadDeployFile(ctx, created.ID, s.cfg.CatalogPath, "application/json", body); err != nil {
		return pub, catalog.E(op, catalog.ErrPublish, msg, fmt.Errorf("upload %s: %w", s.cfg.CatalogPath, err))
	}
	pub.CatalogUpdated = true

	s.log.InfoContext(ctx, "catalog uploaded",
		"deploy_id", created.ID,
		"path", s.cfg.CatalogPath,
		"bytes", len(body),
	)

	state, err := s.await(ctx, created.ID)
	pub.DeployState = state
	if err != nil {
		if state == catalog.DeployFailed {
			return pub, catalog.E(op, catalog.ErrPublish, "Deploy failed", err)
		}
		return pub, catalog.E(op, catalog.ErrPublish, msg, fmt.Errorf("poll deploy %s: %w", created.ID, err))
	}
	return pub, nil
}

// await polls the deploy until it reaches a terminal state. Running out of
// time is not an error: the deploy is reported as pending.
func (s *Redeploy) await(ctx context.Context, deployID string) (catalog.DeployState, error) {
	if s.cfg.PollTimeout <= 0 {
		return catalog.DeployPending, nil
	}

	pollCtx, cancel := context.WithTimeout(ctx, s.cfg.PollTimeout)
	defer cancel()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		d, err := s.api.GetDeploy(pollCtx, deployID)
		switch {
		case err != nil && ctx.Err() == nil && errors.Is(pollCtx.Err(), context.DeadlineExceeded):
			return s.pending(ctx, deployID), nil
		case err != nil:
			return "", err
		case d.State == netlify.StateReady:
			s.log.InfoContext(ctx, "deploy ready", "deploy_id", deployID)
			return catalog.DeployReady, nil
		case d.State == netlify.StateError:
			return catalog.DeployFailed, fmt.Errorf("deploy %s: %s", deployID, d.ErrorMessage)
		}

		select {
		case <-pollCtx.Done():
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return s.pending(ctx, deployID), nil
		case <-ticker.C:
		}
	}
}

func (s *Redeploy) pending(ctx context.Context, deployID string) catalog.DeployState {
	s.log.WarnContext(ctx, "deploy not ready before poll timeout",
		"deploy_id", deployID,
		"poll_timeout", s.cfg.PollTimeout.String(),
	)
	return catalog.DeployPending
}
