package memory

import (
	"context"
	"sync"

	"github.com/nine9188/livescore-api/internal/domain/playername"
)

type PlayerNameRepository struct {
	mu    sync.RWMutex
	names map[int64]string
}

func NewPlayerNameRepository() *PlayerNameRepository {
	return &PlayerNameRepository{names: make(map[int64]string)}
}

func (r *PlayerNameRepository) FindByPlayerIDs(_ context.Context, playerIDs []int64) (map[int64]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]string, len(playerIDs))
	for _, id := range playerIDs {
		if name, ok := r.names[id]; ok {
			out[id] = name
		}
	}

	return out, nil
}

func (r *PlayerNameRepository) Upsert(_ context.Context, names []playername.LocalizedName) error {
	for _, name := range names {
		if err := name.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.names[name.PlayerID] = name.Name
	}

	return nil
}
