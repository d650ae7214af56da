package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/brandcatalog/internal/errx"
	"github.com/sundayezeilo/brandcatalog/internal/httpx"
)

// DeployInfo identifies the deploy created by the redeploy workflow.
type DeployInfo struct {
	ID    string      `json:"id"`
	State DeployState `json:"state"`
}

// RedeployResponse is the success body of the redeploy endpoint.
type RedeployResponse struct {
	Message string     `json:"message"`
	Catalog Catalog    `json:"catalog"`
	Deploy  DeployInfo `json:"deploy"`
}

// BuildInfo identifies the build triggered by the commit workflow.
type BuildInfo struct {
	ID string `json:"id"`
}

// CommitResponse is the success body of the commit endpoint.
type CommitResponse struct {
	Message string    `json:"message"`
	Commit  string    `json:"commit"`
	Build   BuildInfo `json:"build"`
}

// PartialDetails accompanies failures that happen after the catalog was
// written: a commit whose build was never started, or an uploaded deploy that
// failed or could not be polled.
type PartialDetails struct {
	CatalogUpdated  bool   `json:"catalog_updated"`
	DeployTriggered bool   `json:"deploy_triggered"`
	Commit          string `json:"commit,omitempty"`
	DeployID        string `json:"deploy_id,omitempty"`
}

// Handler serves one catalog endpoint. Only POST is accepted.
type Handler struct {
	service  Service
	workflow Workflow
	logger   *slog.Logger
	post     http.Handler
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service  Service
	Workflow Workflow
	Logger   *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		service:  cfg.Service,
		workflow: cfg.Workflow,
		logger:   logger,
	}
	h.post = httpx.AllowMethods(http.MethodPost)(http.HandlerFunc(h.update))
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.post.ServeHTTP(w, r)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.Handler.update"
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"workflow", h.workflow,
		"method", r.Method,
		"path", r.URL.Path,
	)

	req, err := httpx.DecodeJSON[Request](r)
	if err != nil {
		h.writeError(ctx, w, logger, E(op, ErrValidation, err.Error(), nil), Result{})
		return
	}

	res, err := h.service.Apply(ctx, req)
	if err != nil {
		h.writeError(ctx, w, logger, err, res)
		return
	}

	logger.InfoContext(ctx, "catalog updated",
		"action", res.Change.Action,
		"category", res.Change.Category,
		"brand", res.Change.Brand,
		"version", res.Publication.Version,
		"deploy_id", res.Publication.DeployID,
		"deploy_state", res.Publication.DeployState,
	)

	switch h.workflow {
	case WorkflowCommit:
		httpx.WriteJSON(w, http.StatusOK, CommitResponse{
			Message: "Catalog updated and deploy triggered",
			Commit:  res.Publication.Version,
			Build:   BuildInfo{ID: res.Publication.DeployID},
		})
	default:
		httpx.WriteJSON(w, http.StatusOK, RedeployResponse{
			Message: successMessage(res.Change.Action),
			Catalog: res.Catalog,
			Deploy: DeployInfo{
				ID:    res.Publication.DeployID,
				State: res.Publication.DeployState,
			},
		})
	}
}

// writeError answers every workflow failure with 500. The code field and
// the log level follow the error kind.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error, res Result) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	var details any
	switch {
	case kind == errx.Invalid || kind == errx.NotFound:
		logger.WarnContext(ctx, "catalog request rejected", logAttrs...)

	case errors.Is(err, ErrDeployTrigger):
		logger.ErrorContext(ctx, "catalog committed but deploy not triggered",
			append(logAttrs, "commit", res.Publication.Version)...)
		details = PartialDetails{
			CatalogUpdated:  res.Publication.CatalogUpdated,
			DeployTriggered: false,
			Commit:          res.Publication.Version,
		}

	case res.Publication.CatalogUpdated:
		logger.ErrorContext(ctx, "catalog uploaded but deploy not confirmed",
			append(logAttrs, "deploy_id", res.Publication.DeployID)...)
		details = PartialDetails{
			CatalogUpdated:  true,
			DeployTriggered: res.Publication.DeployTriggered,
			DeployID:        res.Publication.DeployID,
		}

	case kind == errx.Conflict:
		logger.WarnContext(ctx, "catalog changed concurrently", logAttrs...)

	default:
		logger.ErrorContext(ctx, "catalog update failed", logAttrs...)
	}

	httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorKindToCode(kind), MessageOf(err), details)
}

func successMessage(action Action) string {
	if action == ActionDelete {
		return "Brand deleted successfully."
	}
	return "Brand added successfully."
}
