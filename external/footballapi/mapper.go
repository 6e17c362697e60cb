package footballapi

import (
	"context"
	"time"

	"github.com/nine9188/livescore-api/internal/usecase"
)

// Client implements usecase.FootballDataProvider by mapping the provider's
// wire shapes onto the use-case types.
var _ usecase.FootballDataProvider = (*Client)(nil)

func (c *Client) PlayerSeason(ctx context.Context, playerID int64, season int) (usecase.ExternalPlayerSeason, bool, error) {
	items, err := c.fetchPlayerSeason(ctx, playerID, season)
	if err != nil {
		return usecase.ExternalPlayerSeason{}, false, err
	}
	if len(items) == 0 {
		return usecase.ExternalPlayerSeason{}, false, nil
	}

	line := mapPlayerSeason(items[0])
	if line.TeamID <= 0 {
		return usecase.ExternalPlayerSeason{}, false, nil
	}
	return line, true, nil
}

func (c *Client) TeamSeasonFixtures(ctx context.Context, teamID int64, season int, from, to string) ([]usecase.ExternalFixture, error) {
	items, err := c.fetchTeamSeasonFixtures(ctx, teamID, season, from, to)
	if err != nil {
		return nil, err
	}
	return mapFixtures(items), nil
}

func (c *Client) FixturesByIDs(ctx context.Context, ids []int64) ([]usecase.ExternalFixture, error) {
	items, err := c.fetchFixturesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return mapFixtures(items), nil
}

func (c *Client) HeadToHead(ctx context.Context, teamA, teamB int64, last int) ([]usecase.ExternalFixture, error) {
	items, err := c.fetchHeadToHead(ctx, teamA, teamB, last)
	if err != nil {
		return nil, err
	}
	return mapFixtures(items), nil
}

func (c *Client) TeamRecentFixtures(ctx context.Context, teamID int64, last int) ([]usecase.ExternalFixture, error) {
	items, err := c.fetchTeamRecentFixtures(ctx, teamID, last)
	if err != nil {
		return nil, err
	}
	return mapFixtures(items), nil
}

func (c *Client) TeamPlayerStats(ctx context.Context, teamID int64, season int) ([]usecase.ExternalPlayerSeason, error) {
	items, err := c.fetchTeamPlayerStats(ctx, teamID, season)
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalPlayerSeason, 0, len(items))
	for _, item := range items {
		line := mapPlayerSeason(item)
		if line.PlayerID <= 0 {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

func (c *Client) TeamSquad(ctx context.Context, teamID int64) ([]usecase.ExternalSquadMember, error) {
	items, err := c.fetchTeamSquad(ctx, teamID)
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalSquadMember, 0, 32)
	for _, item := range items {
		for _, member := range item.Players {
			out = append(out, usecase.ExternalSquadMember{
				PlayerID: member.ID,
				Name:     member.Name,
				Photo:    member.Photo,
				Position: strOrEmpty(member.Position),
				Number:   member.Number,
			})
		}
	}
	return out, nil
}

func mapFixtures(items []FixtureItem) []usecase.ExternalFixture {
	out := make([]usecase.ExternalFixture, 0, len(items))
	for _, item := range items {
		out = append(out, mapFixture(item))
	}
	return out
}

func mapFixture(item FixtureItem) usecase.ExternalFixture {
	fixture := usecase.ExternalFixture{
		ID:          item.Fixture.ID,
		Date:        parseFixtureDate(item.Fixture),
		StatusShort: item.Fixture.Status.Short,
		StatusLong:  item.Fixture.Status.Long,
		VenueName:   strOrEmpty(item.Fixture.Venue.Name),
		LeagueID:    item.League.ID,
		LeagueName:  item.League.Name,
		LeagueLogo:  item.League.Logo,
		Season:      item.League.Season,
		Round:       item.League.Round,
		HomeTeam:    mapTeamRef(item.Teams.Home),
		AwayTeam:    mapTeamRef(item.Teams.Away),
		GoalsHome:   item.Goals.Home,
		GoalsAway:   item.Goals.Away,
	}

	for _, teamBlock := range item.Players {
		for _, entry := range teamBlock.Players {
			if len(entry.Statistics) == 0 {
				continue
			}
			fixture.PlayerStats = append(fixture.PlayerStats, mapFixturePlayerLine(teamBlock.Team.ID, entry))
		}
	}

	return fixture
}

func mapTeamRef(team TeamRef) usecase.ExternalTeam {
	return usecase.ExternalTeam{
		ID:     team.ID,
		Name:   team.Name,
		Logo:   team.Logo,
		Winner: team.Winner,
	}
}

func mapFixturePlayerLine(teamID int64, entry PlayerStatsEntry) usecase.ExternalFixturePlayerStats {
	stats := entry.Statistics[0]
	return usecase.ExternalFixturePlayerStats{
		TeamID:        teamID,
		PlayerID:      entry.Player.ID,
		PlayerName:    entry.Player.Name,
		PlayerPhoto:   entry.Player.Photo,
		Minutes:       intOrZero(stats.Games.Minutes),
		Position:      strOrEmpty(stats.Games.Position),
		Rating:        strOrEmpty(stats.Games.Rating),
		Goals:         intOrZero(stats.Goals.Total),
		Assists:       intOrZero(stats.Goals.Assists),
		Shots:         intOrZero(stats.Shots.Total),
		ShotsOnTarget: intOrZero(stats.Shots.On),
		Passes:        intOrZero(stats.Passes.Total),
		KeyPasses:     intOrZero(stats.Passes.Key),
		YellowCards:   intOrZero(stats.Cards.Yellow),
		RedCards:      intOrZero(stats.Cards.Red),
		Saves:         intOrZero(stats.Goals.Saves),
	}
}

// mapPlayerSeason picks the statistics line with the most appearances when a
// player has entries for several competitions.
func mapPlayerSeason(item PlayerSeasonItem) usecase.ExternalPlayerSeason {
	out := usecase.ExternalPlayerSeason{
		PlayerID: item.Player.ID,
		Name:     item.Player.Name,
		Photo:    item.Player.Photo,
	}

	best := -1
	for _, stats := range item.Statistics {
		if stats.Team.ID <= 0 {
			continue
		}
		appearances := intOrZero(stats.Games.Appearences)
		if appearances > best {
			best = appearances
			out.TeamID = stats.Team.ID
			out.TeamName = stats.Team.Name
			out.Appearances = appearances
		}
		out.Goals += intOrZero(stats.Goals.Total)
		out.Assists += intOrZero(stats.Goals.Assists)
	}

	return out
}

func parseFixtureDate(fixture FixtureCore) time.Time {
	if parsed, err := time.Parse(time.RFC3339, fixture.Date); err == nil {
		return parsed
	}
	if fixture.Timestamp > 0 {
		return time.Unix(fixture.Timestamp, 0).UTC()
	}
	return time.Time{}
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
