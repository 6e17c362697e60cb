package usecase

import (
	"context"
	"time"
)

// ExternalTeam is a team reference as reported by the football data provider.
type ExternalTeam struct {
	ID     int64
	Name   string
	Logo   string
	Winner *bool
}

// ExternalFixture is a single match from the provider. PlayerStats is only
// populated on batched fixture hydration.
type ExternalFixture struct {
	ID          int64
	Date        time.Time
	StatusShort string
	StatusLong  string
	VenueName   string
	LeagueID    int64
	LeagueName  string
	LeagueLogo  string
	Season      int
	Round       string
	HomeTeam    ExternalTeam
	AwayTeam    ExternalTeam
	GoalsHome   *int
	GoalsAway   *int
	PlayerStats []ExternalFixturePlayerStats
}

// ExternalFixturePlayerStats is one player's line from a hydrated fixture.
type ExternalFixturePlayerStats struct {
	TeamID        int64
	PlayerID      int64
	PlayerName    string
	PlayerPhoto   string
	Minutes       int
	Position      string
	Rating        string
	Goals         int
	Assists       int
	Shots         int
	ShotsOnTarget int
	Passes        int
	KeyPasses     int
	YellowCards   int
	RedCards      int
	Saves         int
}

// ExternalPlayerSeason is a player's aggregated season line for one team.
type ExternalPlayerSeason struct {
	PlayerID    int64
	Name        string
	Photo       string
	TeamID      int64
	TeamName    string
	Goals       int
	Assists     int
	Appearances int
}

// ExternalSquadMember is one roster entry.
type ExternalSquadMember struct {
	PlayerID int64
	Name     string
	Photo    string
	Position string
	Number   *int
}

// FootballDataProvider is the outbound port to the football statistics API.
type FootballDataProvider interface {
	// PlayerSeason resolves a player's season line; found is false when the
	// provider has no data for that player and season.
	PlayerSeason(ctx context.Context, playerID int64, season int) (ExternalPlayerSeason, bool, error)
	TeamSeasonFixtures(ctx context.Context, teamID int64, season int, from, to string) ([]ExternalFixture, error)
	// FixturesByIDs hydrates fixtures including per-player statistics. The
	// provider caps batch size; callers chunk accordingly.
	FixturesByIDs(ctx context.Context, ids []int64) ([]ExternalFixture, error)
	HeadToHead(ctx context.Context, teamA, teamB int64, last int) ([]ExternalFixture, error)
	TeamRecentFixtures(ctx context.Context, teamID int64, last int) ([]ExternalFixture, error)
	TeamPlayerStats(ctx context.Context, teamID int64, season int) ([]ExternalPlayerSeason, error)
	TeamSquad(ctx context.Context, teamID int64) ([]ExternalSquadMember, error)
}
