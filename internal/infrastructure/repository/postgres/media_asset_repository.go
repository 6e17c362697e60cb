package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nine9188/livescore-api/internal/domain/mediaasset"
	qb "github.com/nine9188/livescore-api/internal/platform/querybuilder"
)

type MediaAssetRepository struct {
	db *sqlx.DB
}

func NewMediaAssetRepository(db *sqlx.DB) *MediaAssetRepository {
	return &MediaAssetRepository{db: db}
}

func (r *MediaAssetRepository) FindURLs(ctx context.Context, kind mediaasset.Kind, refIDs []int64) (map[int64]string, error) {
	if len(refIDs) == 0 {
		return map[int64]string{}, nil
	}

	ids := make([]any, 0, len(refIDs))
	for _, id := range refIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select("kind", "ref_id", "url", "created_at", "updated_at").
		From("media_assets").
		Where(
			qb.Eq("kind", string(kind)),
			qb.In("ref_id", ids),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select media assets query: %w", err)
	}

	var rows []mediaAssetTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select media assets: %w", err)
	}

	out := make(map[int64]string, len(rows))
	for _, row := range rows {
		out[row.RefID] = row.URL
	}

	return out, nil
}

func (r *MediaAssetRepository) Upsert(ctx context.Context, assets []mediaasset.Asset) error {
	for _, asset := range assets {
		if err := asset.Validate(); err != nil {
			return fmt.Errorf("validate media asset: %w", err)
		}

		query, args, err := qb.InsertInto("media_assets").
			Columns("kind", "ref_id", "url").
			Values(string(asset.Kind), asset.RefID, asset.URL).
			Suffix("ON CONFLICT (kind, ref_id) DO UPDATE SET url = EXCLUDED.url, updated_at = NOW()").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert media asset query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert media asset %s/%d: %w", asset.Kind, asset.RefID, err)
		}
	}

	return nil
}
