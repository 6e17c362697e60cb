package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sourcegraph/conc/pool"

	"github.com/nine9188/livescore-api/internal/domain/mediaasset"
	"github.com/nine9188/livescore-api/internal/domain/playername"
	"github.com/nine9188/livescore-api/internal/platform/cache"
	"github.com/nine9188/livescore-api/internal/platform/logging"
)

const (
	resultWin  = "W"
	resultDraw = "D"
	resultLoss = "L"

	venueHome = "home"
	venueAway = "away"

	defaultPreviewLast = 5
	topPlayersCount    = 5
)

// Meeting is one head-to-head match. WinnerTeamID is nil exactly when the
// match was drawn.
type Meeting struct {
	FixtureID    int64     `json:"fixtureId"`
	Date         time.Time `json:"date"`
	LeagueName   string    `json:"leagueName,omitempty"`
	HomeTeam     TeamInfo  `json:"homeTeam"`
	AwayTeam     TeamInfo  `json:"awayTeam"`
	GoalsHome    int       `json:"goalsHome"`
	GoalsAway    int       `json:"goalsAway"`
	WinnerTeamID *int64    `json:"winnerTeamId"`
}

// ResultSummary accumulates one team's record over a set of matches.
type ResultSummary struct {
	TeamID       int64 `json:"teamId"`
	Wins         int   `json:"wins"`
	Draws        int   `json:"draws"`
	Losses       int   `json:"losses"`
	GoalsFor     int   `json:"goalsFor"`
	GoalsAgainst int   `json:"goalsAgainst"`
	GoalDiff     int   `json:"goalDiff"`
}

type HeadToHeadData struct {
	Meetings     []Meeting     `json:"meetings"`
	TeamASummary ResultSummary `json:"teamASummary"`
	TeamBSummary ResultSummary `json:"teamBSummary"`
}

// FormItem is one entry of a team's recent run, newest first.
type FormItem struct {
	FixtureID    int64     `json:"fixtureId"`
	Date         time.Time `json:"date"`
	Venue        string    `json:"venue"`
	Opponent     TeamInfo  `json:"opponent"`
	GoalsFor     int       `json:"goalsFor"`
	GoalsAgainst int       `json:"goalsAgainst"`
	Result       string    `json:"result"`
}

// TeamFormData reports a team's recent finished matches. Last is the actual
// number of items, which may be fewer than requested.
type TeamFormData struct {
	TeamID  int64         `json:"teamId"`
	Last    int           `json:"last"`
	Items   []FormItem    `json:"items"`
	Summary ResultSummary `json:"summary"`
}

type TopPlayer struct {
	PlayerID    int64  `json:"playerId"`
	Name        string `json:"name"`
	Photo       string `json:"photo,omitempty"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
	Appearances int    `json:"appearances"`
}

type TeamTopPlayersData struct {
	TeamID       int64       `json:"teamId"`
	TopScorers   []TopPlayer `json:"topScorers"`
	TopAssisters []TopPlayer `json:"topAssisters"`
}

type MatchPreview struct {
	TeamA           TeamInfo           `json:"teamA"`
	TeamB           TeamInfo           `json:"teamB"`
	HeadToHead      HeadToHeadData     `json:"headToHead"`
	TeamAForm       TeamFormData       `json:"teamAForm"`
	TeamBForm       TeamFormData       `json:"teamBForm"`
	TeamATopPlayers TeamTopPlayersData `json:"teamATopPlayers"`
	TeamBTopPlayers TeamTopPlayersData `json:"teamBTopPlayers"`
}

// PreviewResult is the stable response wrapper: either Data or Error is set.
type PreviewResult struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Data    *MatchPreview `json:"data,omitempty"`
}

type MatchPreviewConfig struct {
	CacheTTL time.Duration
}

// MatchPreviewService composes head-to-head history, recent form and top
// players for an upcoming pairing. Sub-fetch failures degrade to empty
// sections; only invalid input fails the whole preview.
type MatchPreviewService struct {
	provider FootballDataProvider
	names    playername.Repository
	media    mediaasset.Repository
	store    *cache.Store
	clock    clockwork.Clock
	logger   *logging.Logger
	cacheTTL time.Duration
}

func NewMatchPreviewService(provider FootballDataProvider, names playername.Repository, media mediaasset.Repository, store *cache.Store, clock clockwork.Clock, logger *logging.Logger, cfg MatchPreviewConfig) *MatchPreviewService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &MatchPreviewService{
		provider: provider,
		names:    names,
		media:    media,
		store:    store,
		clock:    clock,
		logger:   logger,
		cacheTTL: cfg.CacheTTL,
	}
}

// GetMatchPreview validates the pairing, then serves the preview from the
// short-lived cache, deduplicating concurrent identical requests.
func (s *MatchPreviewService) GetMatchPreview(ctx context.Context, teamA, teamB int64, last int) PreviewResult {
	ctx, span := startUsecaseSpan(ctx, "MatchPreviewService.GetMatchPreview")
	defer span.End()

	if teamA <= 0 || teamB <= 0 {
		return PreviewResult{Success: false, Error: "both team ids must be greater than zero"}
	}
	if teamA == teamB {
		return PreviewResult{Success: false, Error: "team ids must differ"}
	}
	if last < 1 {
		last = defaultPreviewLast
	}

	key := fmt.Sprintf("match-preview:%d:%d:%d", teamA, teamB, last)
	loaded, err := s.store.GetOrLoad(ctx, key, s.cacheTTL, func(ctx context.Context) (any, error) {
		return s.buildPreview(ctx, teamA, teamB, last), nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "match preview failed", "team_a", teamA, "team_b", teamB, "error", err)
		return PreviewResult{Success: false, Error: "failed to build match preview"}
	}

	preview, ok := loaded.(MatchPreview)
	if !ok {
		return PreviewResult{Success: false, Error: "unexpected cached payload"}
	}
	return PreviewResult{Success: true, Data: &preview}
}

// buildPreview fans the five sub-fetches out concurrently, then resolves
// display images for everything the sections reference.
func (s *MatchPreviewService) buildPreview(ctx context.Context, teamA, teamB int64, last int) MatchPreview {
	var (
		h2h   HeadToHeadData
		formA TeamFormData
		formB TeamFormData
		topA  TeamTopPlayersData
		topB  TeamTopPlayersData
	)

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		h2h = s.headToHead(ctx, teamA, teamB, last)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		formA = s.teamRecentForm(ctx, teamA, last)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		formB = s.teamRecentForm(ctx, teamB, last)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		topA = s.teamTopPlayers(ctx, teamA)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		topB = s.teamTopPlayers(ctx, teamB)
		return nil
	})
	_ = p.Wait()

	preview := MatchPreview{
		TeamA:           TeamInfo{ID: teamA},
		TeamB:           TeamInfo{ID: teamB},
		HeadToHead:      h2h,
		TeamAForm:       formA,
		TeamBForm:       formB,
		TeamATopPlayers: topA,
		TeamBTopPlayers: topB,
	}
	s.fillTeamNames(&preview)
	s.resolveImages(ctx, &preview)
	return preview
}

// headToHead maps finished meetings and folds both result summaries in one
// pass. Meetings involving neither tracked team contribute nothing.
func (s *MatchPreviewService) headToHead(ctx context.Context, teamA, teamB int64, last int) HeadToHeadData {
	data := HeadToHeadData{
		Meetings:     []Meeting{},
		TeamASummary: ResultSummary{TeamID: teamA},
		TeamBSummary: ResultSummary{TeamID: teamB},
	}

	fixtures, err := s.provider.HeadToHead(ctx, teamA, teamB, last)
	if err != nil {
		s.logger.WarnContext(ctx, "head to head fetch failed", "team_a", teamA, "team_b", teamB, "error", err)
		return data
	}

	for _, item := range fixtures {
		if item.StatusShort != statusFullTime {
			continue
		}
		meeting := mapMeeting(item)
		data.Meetings = append(data.Meetings, meeting)
		accumulateMeeting(&data.TeamASummary, meeting)
		accumulateMeeting(&data.TeamBSummary, meeting)
	}

	sort.SliceStable(data.Meetings, func(i, j int) bool {
		return data.Meetings[i].Date.After(data.Meetings[j].Date)
	})
	return data
}

// teamRecentForm overfetches twice the requested window because upstream
// ordering is unreliable, sorts newest first, then keeps last items.
func (s *MatchPreviewService) teamRecentForm(ctx context.Context, teamID int64, last int) TeamFormData {
	data := TeamFormData{
		TeamID:  teamID,
		Items:   []FormItem{},
		Summary: ResultSummary{TeamID: teamID},
	}

	fixtures, err := s.provider.TeamRecentFixtures(ctx, teamID, 2*last)
	if err != nil {
		s.logger.WarnContext(ctx, "recent form fetch failed", "team_id", teamID, "error", err)
		return data
	}

	finished := make([]ExternalFixture, 0, len(fixtures))
	for _, item := range fixtures {
		if item.StatusShort == statusFullTime {
			finished = append(finished, item)
		}
	}
	sort.SliceStable(finished, func(i, j int) bool {
		return finished[i].Date.After(finished[j].Date)
	})
	if len(finished) > last {
		finished = finished[:last]
	}

	for _, item := range finished {
		formItem, ok := mapFormItem(item, teamID)
		if !ok {
			continue
		}
		data.Items = append(data.Items, formItem)
		accumulateForm(&data.Summary, formItem)
	}
	data.Last = len(data.Items)
	return data
}

// teamTopPlayers fetches season statistics and the roster concurrently, then
// ranks by goals and assists independently.
func (s *MatchPreviewService) teamTopPlayers(ctx context.Context, teamID int64) TeamTopPlayersData {
	data := TeamTopPlayersData{
		TeamID:       teamID,
		TopScorers:   []TopPlayer{},
		TopAssisters: []TopPlayer{},
	}
	season := currentSeason(s.clock)

	var (
		stats  []ExternalPlayerSeason
		roster []ExternalSquadMember
	)
	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		stats, err = s.provider.TeamPlayerStats(ctx, teamID, season)
		if err != nil {
			s.logger.WarnContext(ctx, "team player stats fetch failed", "team_id", teamID, "error", err)
			stats = nil
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		roster, err = s.provider.TeamSquad(ctx, teamID)
		if err != nil {
			s.logger.WarnContext(ctx, "team squad fetch failed", "team_id", teamID, "error", err)
			roster = nil
		}
		return nil
	})
	_ = p.Wait()

	if len(stats) == 0 {
		return data
	}

	rosterNames := make(map[int64]string, len(roster))
	for _, member := range roster {
		rosterNames[member.PlayerID] = member.Name
	}

	players := make([]TopPlayer, 0, len(stats))
	for _, line := range stats {
		if line.PlayerID <= 0 {
			continue
		}
		players = append(players, TopPlayer{
			PlayerID:    line.PlayerID,
			Name:        line.Name,
			Photo:       line.Photo,
			Goals:       line.Goals,
			Assists:     line.Assists,
			Appearances: line.Appearances,
		})
	}
	s.fillPlayerNames(ctx, players, rosterNames)

	data.TopScorers = topBy(players, func(p TopPlayer) int { return p.Goals })
	data.TopAssisters = topBy(players, func(p TopPlayer) int { return p.Assists })
	return data
}

// fillPlayerNames prefers the localized name store, then the roster name,
// then whatever the statistics line carried.
func (s *MatchPreviewService) fillPlayerNames(ctx context.Context, players []TopPlayer, rosterNames map[int64]string) {
	var localized map[int64]string
	if s.names != nil {
		ids := make([]int64, 0, len(players))
		for _, p := range players {
			ids = append(ids, p.PlayerID)
		}

		var err error
		localized, err = s.names.FindByPlayerIDs(ctx, ids)
		if err != nil {
			s.logger.WarnContext(ctx, "localized name lookup failed", "count", len(ids), "error", err)
			localized = nil
		}
	}

	for i := range players {
		if name, ok := localized[players[i].PlayerID]; ok && name != "" {
			players[i].Name = name
			continue
		}
		if name, ok := rosterNames[players[i].PlayerID]; ok && name != "" {
			players[i].Name = name
		}
	}
}

func (s *MatchPreviewService) fillTeamNames(preview *MatchPreview) {
	nameFor := func(teamID int64) string {
		for _, meeting := range preview.HeadToHead.Meetings {
			if meeting.HomeTeam.ID == teamID && meeting.HomeTeam.Name != "" {
				return meeting.HomeTeam.Name
			}
			if meeting.AwayTeam.ID == teamID && meeting.AwayTeam.Name != "" {
				return meeting.AwayTeam.Name
			}
		}
		return ""
	}
	preview.TeamA.Name = nameFor(preview.TeamA.ID)
	preview.TeamB.Name = nameFor(preview.TeamB.ID)
}

// resolveImages collects every referenced player and team id, runs the two
// media lookups concurrently, and falls back to the provider CDN path.
func (s *MatchPreviewService) resolveImages(ctx context.Context, preview *MatchPreview) {
	playerIDs := make([]int64, 0, 2*topPlayersCount*2)
	collect := func(players []TopPlayer) {
		for _, p := range players {
			playerIDs = append(playerIDs, p.PlayerID)
		}
	}
	collect(preview.TeamATopPlayers.TopScorers)
	collect(preview.TeamATopPlayers.TopAssisters)
	collect(preview.TeamBTopPlayers.TopScorers)
	collect(preview.TeamBTopPlayers.TopAssisters)

	teamIDs := []int64{preview.TeamA.ID, preview.TeamB.ID}
	for _, item := range preview.TeamAForm.Items {
		teamIDs = append(teamIDs, item.Opponent.ID)
	}
	for _, item := range preview.TeamBForm.Items {
		teamIDs = append(teamIDs, item.Opponent.ID)
	}

	var playerURLs, teamURLs map[int64]string
	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		playerURLs = s.lookupURLs(ctx, mediaasset.KindPlayer, playerIDs)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		teamURLs = s.lookupURLs(ctx, mediaasset.KindTeam, teamIDs)
		return nil
	})
	_ = p.Wait()

	playerURL := func(id int64) string {
		if url, ok := playerURLs[id]; ok && url != "" {
			return url
		}
		return mediaasset.FallbackURL(mediaasset.KindPlayer, id)
	}
	teamURL := func(id int64) string {
		if url, ok := teamURLs[id]; ok && url != "" {
			return url
		}
		return mediaasset.FallbackURL(mediaasset.KindTeam, id)
	}

	fill := func(players []TopPlayer) {
		for i := range players {
			players[i].Photo = playerURL(players[i].PlayerID)
		}
	}
	fill(preview.TeamATopPlayers.TopScorers)
	fill(preview.TeamATopPlayers.TopAssisters)
	fill(preview.TeamBTopPlayers.TopScorers)
	fill(preview.TeamBTopPlayers.TopAssisters)

	preview.TeamA.Logo = teamURL(preview.TeamA.ID)
	preview.TeamB.Logo = teamURL(preview.TeamB.ID)
	for i := range preview.TeamAForm.Items {
		preview.TeamAForm.Items[i].Opponent.Logo = teamURL(preview.TeamAForm.Items[i].Opponent.ID)
	}
	for i := range preview.TeamBForm.Items {
		preview.TeamBForm.Items[i].Opponent.Logo = teamURL(preview.TeamBForm.Items[i].Opponent.ID)
	}
}

func (s *MatchPreviewService) lookupURLs(ctx context.Context, kind mediaasset.Kind, ids []int64) map[int64]string {
	if s.media == nil || len(ids) == 0 {
		return nil
	}
	urls, err := s.media.FindURLs(ctx, kind, dedupeIDs(ids))
	if err != nil {
		s.logger.WarnContext(ctx, "media url lookup failed", "kind", kind, "count", len(ids), "error", err)
		return nil
	}
	return urls
}

func mapMeeting(item ExternalFixture) Meeting {
	goalsHome := intOrZero(item.GoalsHome)
	goalsAway := intOrZero(item.GoalsAway)

	var winner *int64
	switch {
	case goalsHome > goalsAway:
		id := item.HomeTeam.ID
		winner = &id
	case goalsAway > goalsHome:
		id := item.AwayTeam.ID
		winner = &id
	}

	return Meeting{
		FixtureID:    item.ID,
		Date:         item.Date,
		LeagueName:   item.LeagueName,
		HomeTeam:     TeamInfo{ID: item.HomeTeam.ID, Name: item.HomeTeam.Name, Logo: item.HomeTeam.Logo},
		AwayTeam:     TeamInfo{ID: item.AwayTeam.ID, Name: item.AwayTeam.Name, Logo: item.AwayTeam.Logo},
		GoalsHome:    goalsHome,
		GoalsAway:    goalsAway,
		WinnerTeamID: winner,
	}
}

func accumulateMeeting(summary *ResultSummary, meeting Meeting) {
	var goalsFor, goalsAgainst int
	switch summary.TeamID {
	case meeting.HomeTeam.ID:
		goalsFor, goalsAgainst = meeting.GoalsHome, meeting.GoalsAway
	case meeting.AwayTeam.ID:
		goalsFor, goalsAgainst = meeting.GoalsAway, meeting.GoalsHome
	default:
		return
	}

	summary.GoalsFor += goalsFor
	summary.GoalsAgainst += goalsAgainst
	summary.GoalDiff = summary.GoalsFor - summary.GoalsAgainst
	switch {
	case meeting.WinnerTeamID == nil:
		summary.Draws++
	case *meeting.WinnerTeamID == summary.TeamID:
		summary.Wins++
	default:
		summary.Losses++
	}
}

func mapFormItem(item ExternalFixture, teamID int64) (FormItem, bool) {
	goalsHome := intOrZero(item.GoalsHome)
	goalsAway := intOrZero(item.GoalsAway)

	var formItem FormItem
	switch teamID {
	case item.HomeTeam.ID:
		formItem = FormItem{
			Venue:        venueHome,
			Opponent:     TeamInfo{ID: item.AwayTeam.ID, Name: item.AwayTeam.Name, Logo: item.AwayTeam.Logo},
			GoalsFor:     goalsHome,
			GoalsAgainst: goalsAway,
		}
	case item.AwayTeam.ID:
		formItem = FormItem{
			Venue:        venueAway,
			Opponent:     TeamInfo{ID: item.HomeTeam.ID, Name: item.HomeTeam.Name, Logo: item.HomeTeam.Logo},
			GoalsFor:     goalsAway,
			GoalsAgainst: goalsHome,
		}
	default:
		return FormItem{}, false
	}

	formItem.FixtureID = item.ID
	formItem.Date = item.Date
	switch {
	case formItem.GoalsFor > formItem.GoalsAgainst:
		formItem.Result = resultWin
	case formItem.GoalsFor < formItem.GoalsAgainst:
		formItem.Result = resultLoss
	default:
		formItem.Result = resultDraw
	}
	return formItem, true
}

func accumulateForm(summary *ResultSummary, item FormItem) {
	summary.GoalsFor += item.GoalsFor
	summary.GoalsAgainst += item.GoalsAgainst
	summary.GoalDiff = summary.GoalsFor - summary.GoalsAgainst
	switch item.Result {
	case resultWin:
		summary.Wins++
	case resultLoss:
		summary.Losses++
	default:
		summary.Draws++
	}
}

// topBy returns up to topPlayersCount players ranked by the metric, ties
// broken by appearances then id for stable output.
func topBy(players []TopPlayer, metric func(TopPlayer) int) []TopPlayer {
	ranked := make([]TopPlayer, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		if metric(ranked[i]) != metric(ranked[j]) {
			return metric(ranked[i]) > metric(ranked[j])
		}
		if ranked[i].Appearances != ranked[j].Appearances {
			return ranked[i].Appearances > ranked[j].Appearances
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})
	if len(ranked) > topPlayersCount {
		ranked = ranked[:topPlayersCount]
	}
	return ranked
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
