package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nine9188/livescore-api/internal/domain/mediaasset"
	"github.com/nine9188/livescore-api/internal/platform/cache"
	"github.com/nine9188/livescore-api/internal/platform/logging"
)

const defaultImageCacheTTL = 24 * time.Hour

// ImageFetcher downloads a single image from an upstream CDN.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// ImageData is a fetched image ready to serve.
type ImageData struct {
	Bytes       []byte
	ContentType string
	SourceURL   string
}

type ImageServiceConfig struct {
	CacheTTL time.Duration
}

// ImageService proxies player and team artwork. Stored asset overrides win
// over the upstream CDN URL scheme, and fetched bytes are cached so repeat
// badge or portrait hits do not refetch.
type ImageService struct {
	fetcher ImageFetcher
	media   mediaasset.Repository
	store   *cache.Store
	ttl     time.Duration
	logger  *logging.Logger
}

func NewImageService(
	fetcher ImageFetcher,
	media mediaasset.Repository,
	store *cache.Store,
	logger *logging.Logger,
	cfg ImageServiceConfig,
) *ImageService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultImageCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ImageService{
		fetcher: fetcher,
		media:   media,
		store:   store,
		ttl:     ttl,
		logger:  logger,
	}
}

func (s *ImageService) GetImage(ctx context.Context, kind mediaasset.Kind, refID int64) (ImageData, error) {
	ctx, span := startUsecaseSpan(ctx, "ImageService.GetImage")
	defer span.End()

	if _, err := mediaasset.ParseKind(string(kind)); err != nil {
		return ImageData{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if refID <= 0 {
		return ImageData{}, fmt.Errorf("%w: image id must be greater than zero", ErrInvalidInput)
	}

	key := fmt.Sprintf("image:%s:%d", kind, refID)
	value, err := s.store.GetOrLoad(ctx, key, s.ttl, func(ctx context.Context) (any, error) {
		return s.fetchImage(ctx, kind, refID)
	})
	if err != nil {
		return ImageData{}, err
	}

	data, ok := value.(ImageData)
	if !ok {
		return ImageData{}, fmt.Errorf("unexpected cache payload for %s", key)
	}
	return data, nil
}

func (s *ImageService) fetchImage(ctx context.Context, kind mediaasset.Kind, refID int64) (ImageData, error) {
	url := s.resolveURL(ctx, kind, refID)

	body, contentType, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.WarnContext(ctx, "image fetch failed",
			"kind", string(kind),
			"ref_id", refID,
			"url", url,
			"error", err,
		)
		return ImageData{}, fmt.Errorf("%w: fetch %s image %d", ErrDependencyUnavailable, kind, refID)
	}

	return ImageData{
		Bytes:       body,
		ContentType: contentType,
		SourceURL:   url,
	}, nil
}

func (s *ImageService) resolveURL(ctx context.Context, kind mediaasset.Kind, refID int64) string {
	if s.media != nil {
		urls, err := s.media.FindURLs(ctx, kind, []int64{refID})
		if err != nil {
			s.logger.WarnContext(ctx, "media asset lookup failed, using CDN fallback",
				"kind", string(kind),
				"ref_id", refID,
				"error", err,
			)
		} else if url, ok := urls[refID]; ok && url != "" {
			return url
		}
	}
	return mediaasset.FallbackURL(kind, refID)
}

// InvalidateImage drops the cached bytes for one asset, e.g. after an
// asset override upsert.
func (s *ImageService) InvalidateImage(ctx context.Context, kind mediaasset.Kind, refID int64) {
	s.store.Delete(ctx, fmt.Sprintf("image:%s:%d", kind, refID))
}
