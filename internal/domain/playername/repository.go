package playername

import "context"

// Repository describes localized-name lookups needed by use cases.
type Repository interface {
	// FindByPlayerIDs returns a map keyed by player id. Unmapped ids are
	// simply absent, never an error.
	FindByPlayerIDs(ctx context.Context, playerIDs []int64) (map[int64]string, error)
	Upsert(ctx context.Context, names []LocalizedName) error
}
