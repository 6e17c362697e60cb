package footballapi

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestParseFixtureDate_FallsBackToTimestamp(t *testing.T) {
	t.Parallel()

	parsed := parseFixtureDate(FixtureCore{Date: "2026-03-01T12:00:00+00:00"})
	if parsed.IsZero() || parsed.UTC().Hour() != 12 {
		t.Fatalf("unexpected parsed date %s", parsed)
	}

	fallback := parseFixtureDate(FixtureCore{Date: "not-a-date", Timestamp: 1756700000})
	if fallback.IsZero() {
		t.Fatal("expected timestamp fallback")
	}
	if got := parseFixtureDate(FixtureCore{}); !got.IsZero() {
		t.Fatalf("expected zero time, got %s", got)
	}
}

func TestMapPlayerSeason_PicksTeamWithMostAppearances(t *testing.T) {
	t.Parallel()

	item := PlayerSeasonItem{
		Player: PlayerProfile{ID: 9, Name: "Nine"},
		Statistics: []PlayerStatistics{
			{
				Team:  TeamRef{ID: 40, Name: "Cup Side"},
				Games: GamesStats{Appearences: intPtr(2)},
				Goals: GoalStats{Total: intPtr(1)},
			},
			{
				Team:  TeamRef{ID: 50, Name: "League Side"},
				Games: GamesStats{Appearences: intPtr(20)},
				Goals: GoalStats{Total: intPtr(10), Assists: intPtr(4)},
			},
		},
	}

	line := mapPlayerSeason(item)
	if line.TeamID != 50 || line.TeamName != "League Side" {
		t.Fatalf("picked team %d %q", line.TeamID, line.TeamName)
	}
	if line.Goals != 11 || line.Assists != 4 {
		t.Fatalf("totals = %d goals %d assists, want cross-competition sums", line.Goals, line.Assists)
	}
	if line.Appearances != 20 {
		t.Fatalf("appearances = %d", line.Appearances)
	}
}

func TestMapFixture_FlattensPlayerBlocks(t *testing.T) {
	t.Parallel()

	item := FixtureItem{
		Fixture: FixtureCore{ID: 7, Date: time.Now().UTC().Format(time.RFC3339), Status: FixtureStatus{Short: "FT"}},
		Teams: FixtureTeams{
			Home: TeamRef{ID: 1, Name: "Home"},
			Away: TeamRef{ID: 2, Name: "Away"},
		},
		Players: []FixtureTeamPlayers{
			{
				Team: TeamRef{ID: 1},
				Players: []PlayerStatsEntry{
					{
						Player: PlayerRef{ID: 11, Name: "Keeper"},
						Statistics: []PlayerStatistics{
							{Games: GamesStats{Minutes: intPtr(90)}, Goals: GoalStats{Saves: intPtr(3)}},
						},
					},
					{Player: PlayerRef{ID: 12, Name: "Unused"}}, // no statistics block
				},
			},
			{
				Team: TeamRef{ID: 2},
				Players: []PlayerStatsEntry{
					{
						Player:     PlayerRef{ID: 21, Name: "Striker"},
						Statistics: []PlayerStatistics{{Goals: GoalStats{Total: intPtr(2)}}},
					},
				},
			},
		},
	}

	fixture := mapFixture(item)
	if len(fixture.PlayerStats) != 2 {
		t.Fatalf("expected 2 player lines, got %d", len(fixture.PlayerStats))
	}
	if fixture.PlayerStats[0].TeamID != 1 || fixture.PlayerStats[0].Saves != 3 {
		t.Fatalf("home line = %+v", fixture.PlayerStats[0])
	}
	if fixture.PlayerStats[1].TeamID != 2 || fixture.PlayerStats[1].Goals != 2 {
		t.Fatalf("away line = %+v", fixture.PlayerStats[1])
	}
}
