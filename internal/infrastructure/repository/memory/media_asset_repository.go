package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/nine9188/livescore-api/internal/domain/mediaasset"
)

type MediaAssetRepository struct {
	mu   sync.RWMutex
	urls map[string]string
}

func NewMediaAssetRepository() *MediaAssetRepository {
	return &MediaAssetRepository{urls: make(map[string]string)}
}

func assetKey(kind mediaasset.Kind, refID int64) string {
	return fmt.Sprintf("%s:%d", kind, refID)
}

func (r *MediaAssetRepository) FindURLs(_ context.Context, kind mediaasset.Kind, refIDs []int64) (map[int64]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]string, len(refIDs))
	for _, id := range refIDs {
		if url, ok := r.urls[assetKey(kind, id)]; ok {
			out[id] = url
		}
	}

	return out, nil
}

func (r *MediaAssetRepository) Upsert(_ context.Context, assets []mediaasset.Asset) error {
	for _, asset := range assets {
		if err := asset.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, asset := range assets {
		r.urls[assetKey(asset.Kind, asset.RefID)] = asset.URL
	}

	return nil
}
