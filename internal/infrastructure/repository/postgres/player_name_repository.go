package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nine9188/livescore-api/internal/domain/playername"
	qb "github.com/nine9188/livescore-api/internal/platform/querybuilder"
)

type PlayerNameRepository struct {
	db *sqlx.DB
}

func NewPlayerNameRepository(db *sqlx.DB) *PlayerNameRepository {
	return &PlayerNameRepository{db: db}
}

func (r *PlayerNameRepository) FindByPlayerIDs(ctx context.Context, playerIDs []int64) (map[int64]string, error) {
	if len(playerIDs) == 0 {
		return map[int64]string{}, nil
	}

	ids := make([]any, 0, len(playerIDs))
	for _, id := range playerIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select("player_id", "korean_name", "created_at", "updated_at").
		From("player_korean_names").
		Where(qb.In("player_id", ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player names query: %w", err)
	}

	var rows []playerNameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player names: %w", err)
	}

	out := make(map[int64]string, len(rows))
	for _, row := range rows {
		out[row.PlayerID] = row.Name
	}

	return out, nil
}

func (r *PlayerNameRepository) Upsert(ctx context.Context, names []playername.LocalizedName) error {
	for _, name := range names {
		if err := name.Validate(); err != nil {
			return fmt.Errorf("validate localized name: %w", err)
		}

		query, args, err := qb.InsertInto("player_korean_names").
			Columns("player_id", "korean_name").
			Values(name.PlayerID, name.Name).
			Suffix("ON CONFLICT (player_id) DO UPDATE SET korean_name = EXCLUDED.korean_name, updated_at = NOW()").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert player name query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player name player_id=%d: %w", name.PlayerID, err)
		}
	}

	return nil
}
