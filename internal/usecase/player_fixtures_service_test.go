package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nine9188/livescore-api/internal/platform/cache"
)

type stubProvider struct {
	playerSeason       func(ctx context.Context, playerID int64, season int) (ExternalPlayerSeason, bool, error)
	teamSeasonFixtures func(ctx context.Context, teamID int64, season int, from, to string) ([]ExternalFixture, error)
	fixturesByIDs      func(ctx context.Context, ids []int64) ([]ExternalFixture, error)
	headToHead         func(ctx context.Context, teamA, teamB int64, last int) ([]ExternalFixture, error)
	teamRecentFixtures func(ctx context.Context, teamID int64, last int) ([]ExternalFixture, error)
	teamPlayerStats    func(ctx context.Context, teamID int64, season int) ([]ExternalPlayerSeason, error)
	teamSquad          func(ctx context.Context, teamID int64) ([]ExternalSquadMember, error)
}

func (s *stubProvider) PlayerSeason(ctx context.Context, playerID int64, season int) (ExternalPlayerSeason, bool, error) {
	if s.playerSeason == nil {
		return ExternalPlayerSeason{}, false, nil
	}
	return s.playerSeason(ctx, playerID, season)
}

func (s *stubProvider) TeamSeasonFixtures(ctx context.Context, teamID int64, season int, from, to string) ([]ExternalFixture, error) {
	if s.teamSeasonFixtures == nil {
		return nil, nil
	}
	return s.teamSeasonFixtures(ctx, teamID, season, from, to)
}

func (s *stubProvider) FixturesByIDs(ctx context.Context, ids []int64) ([]ExternalFixture, error) {
	if s.fixturesByIDs == nil {
		return nil, nil
	}
	return s.fixturesByIDs(ctx, ids)
}

func (s *stubProvider) HeadToHead(ctx context.Context, teamA, teamB int64, last int) ([]ExternalFixture, error) {
	if s.headToHead == nil {
		return nil, nil
	}
	return s.headToHead(ctx, teamA, teamB, last)
}

func (s *stubProvider) TeamRecentFixtures(ctx context.Context, teamID int64, last int) ([]ExternalFixture, error) {
	if s.teamRecentFixtures == nil {
		return nil, nil
	}
	return s.teamRecentFixtures(ctx, teamID, last)
}

func (s *stubProvider) TeamPlayerStats(ctx context.Context, teamID int64, season int) ([]ExternalPlayerSeason, error) {
	if s.teamPlayerStats == nil {
		return nil, nil
	}
	return s.teamPlayerStats(ctx, teamID, season)
}

func (s *stubProvider) TeamSquad(ctx context.Context, teamID int64) ([]ExternalSquadMember, error) {
	if s.teamSquad == nil {
		return nil, nil
	}
	return s.teamSquad(ctx, teamID)
}

func fixtureWithLine(id int64, date time.Time, playerID int64, minutes int) ExternalFixture {
	goalsHome, goalsAway := 2, 1
	return ExternalFixture{
		ID:          id,
		Date:        date,
		StatusShort: "FT",
		LeagueID:    39,
		LeagueName:  "Premier League",
		Season:      2025,
		HomeTeam:    ExternalTeam{ID: 50, Name: "Home FC"},
		AwayTeam:    ExternalTeam{ID: 51, Name: "Away FC"},
		GoalsHome:   &goalsHome,
		GoalsAway:   &goalsAway,
		PlayerStats: []ExternalFixturePlayerStats{
			{TeamID: 50, PlayerID: playerID, PlayerName: "Tracked", Minutes: minutes, Goals: 1},
		},
	}
}

func newFixturesService(provider FootballDataProvider, clock clockwork.Clock) *PlayerFixturesService {
	return NewPlayerFixturesService(provider, cache.NewStore(time.Minute), clock, nil, PlayerFixturesConfig{
		CacheTTL:     6 * time.Hour,
		StatsWorkers: 2,
		BatchSize:    2,
	})
}

func TestGetPlayerFixtures_FiltersSortsAndCaches(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC))
	base := time.Date(2025, 8, 1, 15, 0, 0, 0, time.UTC)

	var seasonCalls, fixtureCalls, statsCalls atomic.Int32
	provider := &stubProvider{
		playerSeason: func(_ context.Context, playerID int64, season int) (ExternalPlayerSeason, bool, error) {
			seasonCalls.Add(1)
			return ExternalPlayerSeason{PlayerID: playerID, TeamID: 50}, true, nil
		},
		teamSeasonFixtures: func(_ context.Context, teamID int64, season int, from, to string) ([]ExternalFixture, error) {
			fixtureCalls.Add(1)
			if from != "2025-07-01" || to != "2026-06-30" {
				return nil, fmt.Errorf("unexpected window %s..%s", from, to)
			}
			notFinished := fixtureWithLine(4, base.Add(72*time.Hour), 9, 90)
			notFinished.StatusShort = "NS"
			return []ExternalFixture{
				fixtureWithLine(1, base, 9, 90),
				fixtureWithLine(2, base.Add(24*time.Hour), 9, 0),  // unused sub
				fixtureWithLine(3, base.Add(48*time.Hour), 9, 60), // newest
				notFinished,
			}, nil
		},
		fixturesByIDs: func(_ context.Context, ids []int64) ([]ExternalFixture, error) {
			statsCalls.Add(1)
			out := make([]ExternalFixture, 0, len(ids))
			for _, id := range ids {
				switch id {
				case 1:
					out = append(out, fixtureWithLine(1, base, 9, 90))
				case 2:
					out = append(out, fixtureWithLine(2, base.Add(24*time.Hour), 9, 0))
				case 3:
					out = append(out, fixtureWithLine(3, base.Add(48*time.Hour), 9, 60))
				}
			}
			return out, nil
		},
	}

	service := newFixturesService(provider, clock)
	result := service.GetPlayerFixtures(context.Background(), 9, 10)

	if result.Status != FixturesStatusSuccess {
		t.Fatalf("status = %s message = %s", result.Status, result.Message)
	}
	if result.Cached {
		t.Fatal("first call must not be cached")
	}
	if result.SeasonUsed != 2025 {
		t.Fatalf("season used = %d", result.SeasonUsed)
	}
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 fixtures after filters, got %d", len(result.Data))
	}
	if result.Data[0].FixtureID != 3 || result.Data[1].FixtureID != 1 {
		t.Fatalf("expected newest first, got %d then %d", result.Data[0].FixtureID, result.Data[1].FixtureID)
	}

	second := service.GetPlayerFixtures(context.Background(), 9, 1)
	if !second.Cached {
		t.Fatal("second call should be served from cache")
	}
	if len(second.Data) != 1 {
		t.Fatalf("limit not applied on cached read, got %d items", len(second.Data))
	}
	if got := seasonCalls.Load(); got != 1 {
		t.Fatalf("expected no outbound calls on cache hit, player season called %d times", got)
	}
	if got := fixtureCalls.Load(); got != 1 {
		t.Fatalf("team fixtures called %d times", got)
	}
	if got := statsCalls.Load(); got != 2 {
		t.Fatalf("expected 2 stat batches of size 2, got %d", got)
	}
}

func TestGetPlayerFixtures_FallsBackToPreviousSeason(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	provider := &stubProvider{
		playerSeason: func(_ context.Context, playerID int64, season int) (ExternalPlayerSeason, bool, error) {
			if season == 2024 {
				return ExternalPlayerSeason{PlayerID: playerID, TeamID: 60}, true, nil
			}
			return ExternalPlayerSeason{}, false, nil
		},
		teamSeasonFixtures: func(_ context.Context, teamID int64, season int, from, to string) ([]ExternalFixture, error) {
			if season != 2024 {
				return nil, fmt.Errorf("unexpected season %d", season)
			}
			return nil, nil
		},
	}

	result := newFixturesService(provider, clock).GetPlayerFixtures(context.Background(), 9, 5)
	if result.Status != FixturesStatusSuccess {
		t.Fatalf("status = %s message = %s", result.Status, result.Message)
	}
	if result.SeasonUsed != 2024 {
		t.Fatalf("season used = %d, want previous season fallback", result.SeasonUsed)
	}
	if len(result.Data) != 0 {
		t.Fatalf("expected empty data, got %d", len(result.Data))
	}
}

func TestGetPlayerFixtures_NoTeamIsErrorAndNotCached(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	var tried []int
	provider := &stubProvider{
		playerSeason: func(_ context.Context, _ int64, season int) (ExternalPlayerSeason, bool, error) {
			tried = append(tried, season)
			return ExternalPlayerSeason{}, false, nil
		},
	}

	service := newFixturesService(provider, clock)
	result := service.GetPlayerFixtures(context.Background(), 9, 5)
	if result.Status != FixturesStatusError {
		t.Fatalf("status = %s, want error when no team resolves", result.Status)
	}
	if result.Message == "" {
		t.Fatal("expected an explanatory message")
	}
	if len(result.Data) != 0 {
		t.Fatalf("expected empty data, got %d items", len(result.Data))
	}
	if len(tried) != 2 || tried[0] != 2025 || tried[1] != 2024 {
		t.Fatalf("season attempts = %v, want current then one previous-season retry", tried)
	}

	// A no-team outcome must not occupy the cache for the full TTL.
	second := service.GetPlayerFixtures(context.Background(), 9, 5)
	if second.Cached || second.Status != FixturesStatusError {
		t.Fatalf("second call cached=%t status=%s, want fresh error", second.Cached, second.Status)
	}
	if len(tried) != 4 {
		t.Fatalf("expected team re-resolution on second call, %d season attempts total", len(tried))
	}
}

func TestGetPlayerFixtures_PartialOnFailedStatsBatch(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	base := time.Date(2025, 8, 1, 15, 0, 0, 0, time.UTC)

	provider := &stubProvider{
		playerSeason: func(_ context.Context, playerID int64, _ int) (ExternalPlayerSeason, bool, error) {
			return ExternalPlayerSeason{PlayerID: playerID, TeamID: 50}, true, nil
		},
		teamSeasonFixtures: func(context.Context, int64, int, string, string) ([]ExternalFixture, error) {
			return []ExternalFixture{
				fixtureWithLine(1, base, 9, 90),
				fixtureWithLine(2, base.Add(24*time.Hour), 9, 90),
				fixtureWithLine(3, base.Add(48*time.Hour), 9, 90),
			}, nil
		},
		fixturesByIDs: func(_ context.Context, ids []int64) ([]ExternalFixture, error) {
			for _, id := range ids {
				if id == 3 {
					return nil, fmt.Errorf("provider status=500")
				}
			}
			out := make([]ExternalFixture, 0, len(ids))
			for _, id := range ids {
				out = append(out, fixtureWithLine(id, base.Add(time.Duration(id)*time.Hour), 9, 90))
			}
			return out, nil
		},
	}

	result := newFixturesService(provider, clock).GetPlayerFixtures(context.Background(), 9, 10)
	if result.Status != FixturesStatusPartial {
		t.Fatalf("status = %s, want partial", result.Status)
	}
	if result.Completeness == nil {
		t.Fatal("expected completeness block")
	}
	if result.Completeness.RequestedFixtures != 3 || result.Completeness.ResolvedFixtures != 2 {
		t.Fatalf("completeness = %+v", result.Completeness)
	}
	if len(result.Completeness.FailedFixtureIDs) != 1 || result.Completeness.FailedFixtureIDs[0] != 3 {
		t.Fatalf("failed ids = %v", result.Completeness.FailedFixtureIDs)
	}
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 hydrated fixtures, got %d", len(result.Data))
	}
}

func TestGetPlayerFixtures_ErrorShapeNeverPanics(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	provider := &stubProvider{
		playerSeason: func(context.Context, int64, int) (ExternalPlayerSeason, bool, error) {
			return ExternalPlayerSeason{}, false, fmt.Errorf("provider down")
		},
	}

	result := newFixturesService(provider, clock).GetPlayerFixtures(context.Background(), 9, 5)
	if result.Status != FixturesStatusError {
		t.Fatalf("status = %s, want error", result.Status)
	}
	if result.Message == "" {
		t.Fatal("expected an error message")
	}
	if result.Data == nil || len(result.Data) != 0 {
		t.Fatalf("expected empty data slice, got %v", result.Data)
	}
}

func TestGetPlayerFixtures_RejectsInvalidPlayerID(t *testing.T) {
	t.Parallel()

	service := newFixturesService(&stubProvider{}, clockwork.NewRealClock())
	result := service.GetPlayerFixtures(context.Background(), 0, 5)
	if result.Status != FixturesStatusError {
		t.Fatalf("status = %s, want error", result.Status)
	}
}

func TestGetPlayerFixtures_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	var calls atomic.Int32
	provider := &stubProvider{
		playerSeason: func(_ context.Context, playerID int64, _ int) (ExternalPlayerSeason, bool, error) {
			if calls.Add(1) == 1 {
				return ExternalPlayerSeason{}, false, fmt.Errorf("flaky")
			}
			return ExternalPlayerSeason{PlayerID: playerID, TeamID: 50}, true, nil
		},
	}

	service := newFixturesService(provider, clock)
	if result := service.GetPlayerFixtures(context.Background(), 9, 5); result.Status != FixturesStatusError {
		t.Fatalf("first status = %s, want error", result.Status)
	}
	if result := service.GetPlayerFixtures(context.Background(), 9, 5); result.Status != FixturesStatusSuccess {
		t.Fatalf("second status = %s, want success after recovery", result.Status)
	}
}
