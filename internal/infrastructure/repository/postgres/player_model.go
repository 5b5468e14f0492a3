package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	ExternalID    sql.NullInt64 `db:"external_id"`
	Name          string        `db:"name"`
	Nationality   string        `db:"nationality"`
	Position      string        `db:"position"`
	Age           int           `db:"age"`
	Height        string        `db:"height"`
	Weight        string        `db:"weight"`
	TeamName      string        `db:"team_name"`
	StatsTeamName string        `db:"stats_team_name"`
	Goals         int           `db:"goals"`
	Assists       int           `db:"assists"`
	Appearances   int           `db:"appearances"`
	MinutesPlayed int           `db:"minutes_played"`
	Rating        string        `db:"rating"`
	ImageURL      string        `db:"image_url"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type playerInsertModel struct {
	PublicID      string        `db:"public_id"`
	ExternalID    sql.NullInt64 `db:"external_id"`
	Name          string        `db:"name"`
	Nationality   string        `db:"nationality"`
	Position      string        `db:"position"`
	Age           int           `db:"age"`
	Height        string        `db:"height"`
	Weight        string        `db:"weight"`
	TeamName      string        `db:"team_name"`
	StatsTeamName string        `db:"stats_team_name"`
	Goals         int           `db:"goals"`
	Assists       int           `db:"assists"`
	Appearances   int           `db:"appearances"`
	MinutesPlayed int           `db:"minutes_played"`
	Rating        string        `db:"rating"`
	ImageURL      string        `db:"image_url"`
}
