package mediaasset

import "context"

// Repository describes image-url lookups needed by use cases.
type Repository interface {
	// FindURLs returns stored urls keyed by ref id. Unmapped ids are absent.
	FindURLs(ctx context.Context, kind Kind, refIDs []int64) (map[int64]string, error)
	Upsert(ctx context.Context, assets []Asset) error
}
