package usecase

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// European seasons are labelled by their starting year and roll over in July.
const seasonCutoverMonth = time.July

// Provider data before this season is too sparse to be worth a fallback try.
const minFallbackSeason = 2023

func currentSeason(clock clockwork.Clock) int {
	now := clock.Now().UTC()
	if now.Month() >= seasonCutoverMonth {
		return now.Year()
	}
	return now.Year() - 1
}

// seasonCandidates lists seasons to try in order when resolving a player's
// team: the current one, then the previous one for recent seasons where a
// player may not have appeared yet.
func seasonCandidates(season int) []int {
	candidates := []int{season}
	if season >= minFallbackSeason {
		candidates = append(candidates, season-1)
	}
	return candidates
}

// seasonWindow returns the July-to-June date range for a season label.
func seasonWindow(season int) (from, to string) {
	from = fmt.Sprintf("%d-07-01", season)
	to = fmt.Sprintf("%d-06-30", season+1)
	return from, to
}
