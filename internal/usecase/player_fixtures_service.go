package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nine9188/livescore-api/internal/platform/cache"
	"github.com/nine9188/livescore-api/internal/platform/logging"
	"github.com/nine9188/livescore-api/internal/platform/workerpool"
)

const (
	FixturesStatusSuccess = "success"
	FixturesStatusPartial = "partial"
	FixturesStatusError   = "error"

	statusFullTime = "FT"

	defaultFixturesLimit = 10
)

// errTeamNotResolved keeps the no-team outcome out of the cache: the next
// request retries team resolution instead of serving a stale miss for the
// full TTL.
var errTeamNotResolved = errors.New("player team not resolved")

// TeamInfo is the API-facing team shape shared by fixtures and previews.
type TeamInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

type LeagueInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo,omitempty"`
	Season int    `json:"season"`
}

// PlayerMatchStats is always fully shaped; absent provider values stay zero.
type PlayerMatchStats struct {
	Minutes       int    `json:"minutes"`
	Position      string `json:"position"`
	Rating        string `json:"rating"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	Shots         int    `json:"shots"`
	ShotsOnTarget int    `json:"shotsOnTarget"`
	Passes        int    `json:"passes"`
	KeyPasses     int    `json:"keyPasses"`
	YellowCards   int    `json:"yellowCards"`
	RedCards      int    `json:"redCards"`
	Saves         int    `json:"saves"`
}

type PlayerFixture struct {
	FixtureID int64            `json:"fixtureId"`
	Date      time.Time        `json:"date"`
	League    LeagueInfo       `json:"league"`
	HomeTeam  TeamInfo         `json:"homeTeam"`
	AwayTeam  TeamInfo         `json:"awayTeam"`
	GoalsHome int              `json:"goalsHome"`
	GoalsAway int              `json:"goalsAway"`
	Stats     PlayerMatchStats `json:"stats"`
}

// FixturesCompleteness reports how much of a partial result was hydrated.
type FixturesCompleteness struct {
	RequestedFixtures int     `json:"requestedFixtures"`
	ResolvedFixtures  int     `json:"resolvedFixtures"`
	FailedFixtureIDs  []int64 `json:"failedFixtureIds,omitempty"`
}

// FixturesResult is always returned with a terminal status; upstream
// failures become Status "error" with a message, never a Go error.
type FixturesResult struct {
	Data         []PlayerFixture       `json:"data"`
	Status       string                `json:"status"`
	Message      string                `json:"message,omitempty"`
	Cached       bool                  `json:"cached"`
	SeasonUsed   int                   `json:"seasonUsed,omitempty"`
	Completeness *FixturesCompleteness `json:"completeness,omitempty"`
}

type PlayerFixturesConfig struct {
	CacheTTL     time.Duration
	StatsWorkers int
	BatchSize    int
}

// PlayerFixturesService builds a player's completed-match history for the
// current season, with per-match statistics, backed by a TTL cache.
type PlayerFixturesService struct {
	provider FootballDataProvider
	store    *cache.Store
	clock    clockwork.Clock
	logger   *logging.Logger

	cacheTTL     time.Duration
	statsWorkers int
	batchSize    int
}

func NewPlayerFixturesService(provider FootballDataProvider, store *cache.Store, clock clockwork.Clock, logger *logging.Logger, cfg PlayerFixturesConfig) *PlayerFixturesService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 6 * time.Hour
	}
	if cfg.StatsWorkers < 1 {
		cfg.StatsWorkers = workerpool.DefaultWidth
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 20
	}

	return &PlayerFixturesService{
		provider:     provider,
		store:        store,
		clock:        clock,
		logger:       logger,
		cacheTTL:     cfg.CacheTTL,
		statsWorkers: cfg.StatsWorkers,
		batchSize:    cfg.BatchSize,
	}
}

// GetPlayerFixtures returns the player's finished matches for the resolved
// season, newest first, truncated to limit. The cache stores the full list;
// limit only affects the returned copy.
func (s *PlayerFixturesService) GetPlayerFixtures(ctx context.Context, playerID int64, limit int) FixturesResult {
	ctx, span := startUsecaseSpan(ctx, "PlayerFixturesService.GetPlayerFixtures")
	defer span.End()

	if playerID <= 0 {
		return FixturesResult{
			Data:    []PlayerFixture{},
			Status:  FixturesStatusError,
			Message: "player id must be greater than zero",
		}
	}
	if limit < 1 {
		limit = defaultFixturesLimit
	}

	season := currentSeason(s.clock)
	key := fmt.Sprintf("player-fixtures:%d:%d", playerID, season)

	if cached, ok := s.store.Get(ctx, key); ok {
		if result, ok := cached.(FixturesResult); ok {
			result.Cached = true
			result.Data = truncateFixtures(result.Data, limit)
			return result
		}
	}

	loaded, err := s.store.GetOrLoad(ctx, key, s.cacheTTL, func(ctx context.Context) (any, error) {
		return s.buildFixtures(ctx, playerID, season)
	})
	if err != nil {
		if errors.Is(err, errTeamNotResolved) {
			return FixturesResult{
				Data:    []PlayerFixture{},
				Status:  FixturesStatusError,
				Message: "could not find team information for the player",
			}
		}
		s.logger.WarnContext(ctx, "player fixtures lookup failed", "player_id", playerID, "season", season, "error", err)
		return FixturesResult{
			Data:    []PlayerFixture{},
			Status:  FixturesStatusError,
			Message: "failed to load player fixtures",
		}
	}

	result, ok := loaded.(FixturesResult)
	if !ok {
		return FixturesResult{
			Data:    []PlayerFixture{},
			Status:  FixturesStatusError,
			Message: "unexpected cached payload",
		}
	}
	result.Data = truncateFixtures(result.Data, limit)
	return result
}

// InvalidatePlayer drops every cached season list for the player.
func (s *PlayerFixturesService) InvalidatePlayer(ctx context.Context, playerID int64) {
	s.store.DeletePrefix(ctx, fmt.Sprintf("player-fixtures:%d:", playerID))
}

func (s *PlayerFixturesService) buildFixtures(ctx context.Context, playerID int64, season int) (FixturesResult, error) {
	teamID, seasonUsed, err := s.resolveTeam(ctx, playerID, season)
	if err != nil {
		return FixturesResult{}, err
	}
	if teamID <= 0 {
		return FixturesResult{}, fmt.Errorf("%w: player %d season %d", errTeamNotResolved, playerID, season)
	}

	from, to := seasonWindow(seasonUsed)
	fixtures, err := s.provider.TeamSeasonFixtures(ctx, teamID, seasonUsed, from, to)
	if err != nil {
		return FixturesResult{}, fmt.Errorf("fetch team fixtures: %w", err)
	}

	finished := make([]ExternalFixture, 0, len(fixtures))
	for _, item := range fixtures {
		if item.StatusShort == statusFullTime {
			finished = append(finished, item)
		}
	}
	if len(finished) == 0 {
		return FixturesResult{
			Data:       []PlayerFixture{},
			Status:     FixturesStatusSuccess,
			SeasonUsed: seasonUsed,
		}, nil
	}

	hydrated, failedIDs := s.hydrateFixtureStats(ctx, finished)

	data := make([]PlayerFixture, 0, len(hydrated))
	for _, item := range hydrated {
		entry, ok := playerLine(item, playerID)
		if !ok || entry.Minutes <= 0 {
			continue
		}
		data = append(data, mapPlayerFixture(item, entry))
	}

	sort.SliceStable(data, func(i, j int) bool {
		if !data[i].Date.Equal(data[j].Date) {
			return data[i].Date.After(data[j].Date)
		}
		return data[i].FixtureID > data[j].FixtureID
	})

	result := FixturesResult{
		Data:       data,
		Status:     FixturesStatusSuccess,
		SeasonUsed: seasonUsed,
	}
	if len(failedIDs) > 0 {
		result.Status = FixturesStatusPartial
		result.Message = "some fixture statistics could not be loaded"
		result.Completeness = &FixturesCompleteness{
			RequestedFixtures: len(finished),
			ResolvedFixtures:  len(finished) - len(failedIDs),
			FailedFixtureIDs:  failedIDs,
		}
	}

	return result, nil
}

func (s *PlayerFixturesService) resolveTeam(ctx context.Context, playerID int64, season int) (teamID int64, seasonUsed int, err error) {
	for _, candidate := range seasonCandidates(season) {
		line, found, err := s.provider.PlayerSeason(ctx, playerID, candidate)
		if err != nil {
			return 0, 0, fmt.Errorf("resolve player team season=%d: %w", candidate, err)
		}
		if found && line.TeamID > 0 {
			return line.TeamID, candidate, nil
		}
	}
	return 0, season, nil
}

// hydrateFixtureStats fetches player-statistics blocks in id batches on a
// bounded worker pool. Failed batches are reported, not fatal.
func (s *PlayerFixturesService) hydrateFixtureStats(ctx context.Context, fixtures []ExternalFixture) ([]ExternalFixture, []int64) {
	ids := make([]int64, 0, len(fixtures))
	for _, item := range fixtures {
		ids = append(ids, item.ID)
	}

	batches := make([][]int64, 0, (len(ids)+s.batchSize-1)/s.batchSize)
	for start := 0; start < len(ids); start += s.batchSize {
		end := start + s.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}

	byID := make(map[int64]ExternalFixture, len(ids))
	failed := make([]int64, 0)

	results, errs := workerpool.Map(ctx, batches, s.statsWorkers, func(ctx context.Context, batch []int64) ([]ExternalFixture, error) {
		return s.provider.FixturesByIDs(ctx, batch)
	})
	for i, batch := range batches {
		if errs[i] != nil {
			s.logger.WarnContext(ctx, "fixture stats batch failed", "batch_size", len(batch), "error", errs[i])
			failed = append(failed, batch...)
			continue
		}
		for _, item := range results[i] {
			byID[item.ID] = item
		}
	}

	out := make([]ExternalFixture, 0, len(fixtures))
	for _, item := range fixtures {
		if hydrated, ok := byID[item.ID]; ok {
			out = append(out, hydrated)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
	return out, failed
}

func playerLine(fixture ExternalFixture, playerID int64) (ExternalFixturePlayerStats, bool) {
	for _, entry := range fixture.PlayerStats {
		if entry.PlayerID == playerID {
			return entry, true
		}
	}
	return ExternalFixturePlayerStats{}, false
}

func mapPlayerFixture(fixture ExternalFixture, entry ExternalFixturePlayerStats) PlayerFixture {
	return PlayerFixture{
		FixtureID: fixture.ID,
		Date:      fixture.Date,
		League: LeagueInfo{
			ID:     fixture.LeagueID,
			Name:   fixture.LeagueName,
			Logo:   fixture.LeagueLogo,
			Season: fixture.Season,
		},
		HomeTeam:  TeamInfo{ID: fixture.HomeTeam.ID, Name: fixture.HomeTeam.Name, Logo: fixture.HomeTeam.Logo},
		AwayTeam:  TeamInfo{ID: fixture.AwayTeam.ID, Name: fixture.AwayTeam.Name, Logo: fixture.AwayTeam.Logo},
		GoalsHome: intOrZero(fixture.GoalsHome),
		GoalsAway: intOrZero(fixture.GoalsAway),
		Stats: PlayerMatchStats{
			Minutes:       entry.Minutes,
			Position:      entry.Position,
			Rating:        entry.Rating,
			Goals:         entry.Goals,
			Assists:       entry.Assists,
			Shots:         entry.Shots,
			ShotsOnTarget: entry.ShotsOnTarget,
			Passes:        entry.Passes,
			KeyPasses:     entry.KeyPasses,
			YellowCards:   entry.YellowCards,
			RedCards:      entry.RedCards,
			Saves:         entry.Saves,
		},
	}
}

func truncateFixtures(data []PlayerFixture, limit int) []PlayerFixture {
	if data == nil {
		return []PlayerFixture{}
	}
	if limit > 0 && len(data) > limit {
		data = data[:limit]
	}
	out := make([]PlayerFixture, len(data))
	copy(out, data)
	return out
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
