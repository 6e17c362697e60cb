package postgres

import "time"

type mediaAssetTableModel struct {
	Kind      string    `db:"kind"`
	RefID     int64     `db:"ref_id"`
	URL       string    `db:"url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
