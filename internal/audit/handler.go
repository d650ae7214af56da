package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sundayezeilo/brandcatalog/internal/errx"
	"github.com/sundayezeilo/brandcatalog/internal/httpx"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListResponse is the body of GET /api/catalog/changes.
type ListResponse struct {
	Changes []Entry `json:"changes"`
}

// Handler serves the change history.
type Handler struct {
	lister Lister
	logger *slog.Logger
}

func NewHandler(lister Lister, logger *slog.Logger) *Handler {
	if lister == nil {
		lister = Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{lister: lister, logger: logger}
}

// ListChanges handles GET /api/catalog/changes?limit=N.
func (h *Handler) ListChanges(w http.ResponseWriter, r *http.Request) {
	const op = "audit.Handler.ListChanges"
	ctx := r.Context()

	limit, ok := parseLimit(r.URL.Query().Get("limit"))
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest,
			httpx.ErrorKindToCode(errx.Invalid),
			"limit must be a positive integer",
			nil)
		return
	}

	entries, err := h.lister.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list catalog changes",
			"request_id", httpx.GetRequestID(ctx),
			"error", err.Error(),
			"error_kind", errx.KindOf(err),
			"operation", op,
		)
		httpx.WriteError(w, http.StatusInternalServerError,
			httpx.ErrorKindToCode(errx.KindOf(err)),
			"Failed to list catalog changes",
			nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ListResponse{Changes: entries})
}

func parseLimit(raw string) (int, bool) {
	if raw == "" {
		return DefaultListLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return min(n, MaxListLimit), true
}
