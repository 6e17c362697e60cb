package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/nine9188/livescore-api/internal/domain/mediaasset"
	"github.com/nine9188/livescore-api/internal/platform/logging"
	"github.com/nine9188/livescore-api/internal/usecase"
)

const (
	maxFixturesLimit = 50
	maxPreviewLast   = 20
)

type Handler struct {
	fixturesService *usecase.PlayerFixturesService
	previewService  *usecase.MatchPreviewService
	imageService    *usecase.ImageService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	fixturesService *usecase.PlayerFixturesService,
	previewService *usecase.MatchPreviewService,
	imageService *usecase.ImageService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		fixturesService: fixturesService,
		previewService:  previewService,
		imageService:    imageService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type playerFixturesParams struct {
	PlayerID int64 `validate:"required,gt=0"`
	Limit    int   `validate:"gte=0,lte=50"`
}

// GetPlayerFixtures serves the completed-match list for one player. The
// result body carries its own status field, so upstream degradation is
// reported inside a 200 response rather than as a transport error.
func (h *Handler) GetPlayerFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerFixtures")
	defer span.End()

	playerID, err := strconv.ParseInt(r.PathValue("playerID"), 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: player id must be numeric", usecase.ErrInvalidInput))
		return
	}

	limit, err := parseQueryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}

	params := playerFixturesParams{PlayerID: playerID, Limit: limit}
	if err := h.validator.Struct(params); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}

	result := h.fixturesService.GetPlayerFixtures(ctx, params.PlayerID, params.Limit)
	if result.Status == usecase.FixturesStatusError {
		h.logger.WarnContext(ctx, "player fixtures degraded",
			"player_id", params.PlayerID,
			"message", result.Message,
		)
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

type matchPreviewParams struct {
	TeamA int64 `validate:"required,gt=0"`
	TeamB int64 `validate:"required,gt=0,nefield=TeamA"`
	Last  int   `validate:"gte=0,lte=20"`
}

// GetMatchPreview serves the head-to-head aggregation for two teams. The
// body uses the success/error wrapper, so only malformed query input maps
// to a non-200 status.
func (h *Handler) GetMatchPreview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchPreview")
	defer span.End()

	teamA, err := parseQueryInt64(r, "teamA")
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}
	teamB, err := parseQueryInt64(r, "teamB")
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}
	last, err := parseQueryInt(r, "last", 0)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}

	params := matchPreviewParams{TeamA: teamA, TeamB: teamB, Last: last}
	if err := h.validator.Struct(params); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}

	result := h.previewService.GetMatchPreview(ctx, params.TeamA, params.TeamB, params.Last)
	if !result.Success {
		h.logger.WarnContext(ctx, "match preview failed",
			"team_a", params.TeamA,
			"team_b", params.TeamB,
			"error", result.Error,
		)
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

// GetImage proxies a player portrait or team badge, serving stored asset
// overrides ahead of the upstream CDN.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetImage")
	defer span.End()

	kind, err := mediaasset.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}
	refID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || refID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: image id must be a positive number", usecase.ErrInvalidInput))
		return
	}

	image, err := h.imageService.GetImage(ctx, kind, refID)
	if err != nil {
		h.logger.WarnContext(ctx, "image proxy failed",
			"kind", string(kind),
			"ref_id", refID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image.Bytes)
}

func parseQueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", name)
	}
	return value, nil
}

func parseQueryInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", name)
	}
	return value, nil
}
