package footballapi

// API-Football v3 wire shapes. Every endpoint wraps its payload in the same
// envelope; `errors` is a JSON object on failure and an empty array on
// success, so it stays raw and is only inspected for emptiness.

type envelope[T any] struct {
	Get        string         `json:"get"`
	Parameters map[string]any `json:"parameters"`
	Errors     any            `json:"errors"`
	Results    int            `json:"results"`
	Paging     Paging         `json:"paging"`
	Response   []T            `json:"response"`
}

type Paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type FixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type Venue struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
	City *string `json:"city"`
}

type FixtureCore struct {
	ID        int64         `json:"id"`
	Referee   *string       `json:"referee"`
	Timezone  string        `json:"timezone"`
	Date      string        `json:"date"` // RFC3339
	Timestamp int64         `json:"timestamp"`
	Venue     Venue         `json:"venue"`
	Status    FixtureStatus `json:"status"`
}

type League struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type TeamRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

type FixtureTeams struct {
	Home TeamRef `json:"home"`
	Away TeamRef `json:"away"`
}

type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// FixtureItem is the element shape of every /fixtures variant. The Players
// block is only populated on /fixtures?ids= responses.
type FixtureItem struct {
	Fixture FixtureCore          `json:"fixture"`
	League  League               `json:"league"`
	Teams   FixtureTeams         `json:"teams"`
	Goals   Goals                `json:"goals"`
	Players []FixtureTeamPlayers `json:"players,omitempty"`
}

type FixtureTeamPlayers struct {
	Team    TeamRef            `json:"team"`
	Players []PlayerStatsEntry `json:"players"`
}

type PlayerStatsEntry struct {
	Player     PlayerRef          `json:"player"`
	Statistics []PlayerStatistics `json:"statistics"`
}

type PlayerRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type PlayerStatistics struct {
	Team        TeamRef      `json:"team"`
	League      League       `json:"league"`
	Games       GamesStats   `json:"games"`
	Offsides    *int         `json:"offsides"`
	Shots       ShotsStats   `json:"shots"`
	Goals       GoalStats    `json:"goals"`
	Passes      PassStats    `json:"passes"`
	Tackles     TackleStats  `json:"tackles"`
	Duels       DuelStats    `json:"duels"`
	Dribbles    DribbleStats `json:"dribbles"`
	Fouls       FoulStats    `json:"fouls"`
	Cards       CardStats    `json:"cards"`
	Penalty     PenaltyStats `json:"penalty"`
	Substitutes Substitutes  `json:"substitutes"`
}

type GamesStats struct {
	Minutes     *int    `json:"minutes"`
	Number      *int    `json:"number"`
	Position    *string `json:"position"`
	Rating      *string `json:"rating"`
	Captain     bool    `json:"captain"`
	Substitute  bool    `json:"substitute"`
	Appearences *int    `json:"appearences"`
	Lineups     *int    `json:"lineups"`
}

type ShotsStats struct {
	Total *int `json:"total"`
	On    *int `json:"on"`
}

type GoalStats struct {
	Total    *int `json:"total"`
	Conceded *int `json:"conceded"`
	Assists  *int `json:"assists"`
	Saves    *int `json:"saves"`
}

type PassStats struct {
	Total    *int    `json:"total"`
	Key      *int    `json:"key"`
	Accuracy *string `json:"accuracy"`
}

type TackleStats struct {
	Total         *int `json:"total"`
	Blocks        *int `json:"blocks"`
	Interceptions *int `json:"interceptions"`
}

type DuelStats struct {
	Total *int `json:"total"`
	Won   *int `json:"won"`
}

type DribbleStats struct {
	Attempts *int `json:"attempts"`
	Success  *int `json:"success"`
	Past     *int `json:"past"`
}

type FoulStats struct {
	Drawn     *int `json:"drawn"`
	Committed *int `json:"committed"`
}

type CardStats struct {
	Yellow *int `json:"yellow"`
	Red    *int `json:"red"`
}

type PenaltyStats struct {
	Won      *int `json:"won"`
	Commited *int `json:"commited"` // upstream spelling
	Scored   *int `json:"scored"`
	Missed   *int `json:"missed"`
	Saved    *int `json:"saved"`
}

type Substitutes struct {
	In    *int `json:"in"`
	Out   *int `json:"out"`
	Bench *int `json:"bench"`
}

// PlayerSeasonItem is the element shape of /players?id=&season= and
// /players?team=&season=.
type PlayerSeasonItem struct {
	Player     PlayerProfile      `json:"player"`
	Statistics []PlayerStatistics `json:"statistics"`
}

type PlayerProfile struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Firstname   *string `json:"firstname"`
	Lastname    *string `json:"lastname"`
	Age         *int    `json:"age"`
	Nationality *string `json:"nationality"`
	Height      *string `json:"height"`
	Weight      *string `json:"weight"`
	Injured     bool    `json:"injured"`
	Photo       string  `json:"photo"`
}

// SquadItem is the element shape of /players/squads?team=.
type SquadItem struct {
	Team    TeamRef       `json:"team"`
	Players []SquadPlayer `json:"players"`
}

type SquadPlayer struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Age      *int    `json:"age"`
	Number   *int    `json:"number"`
	Position *string `json:"position"`
	Photo    string  `json:"photo"`
}
