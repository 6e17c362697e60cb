package postgres

import "time"

type playerNameTableModel struct {
	PlayerID  int64     `db:"player_id"`
	Name      string    `db:"korean_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
