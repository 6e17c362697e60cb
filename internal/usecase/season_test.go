package usecase

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestCurrentSeason_JulyCutover(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"june keeps previous season", time.Date(2026, 6, 30, 23, 0, 0, 0, time.UTC), 2025},
		{"july starts new season", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), 2026},
		{"december stays in season", time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC), 2025},
		{"january is previous year's season", time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), 2025},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			clock := clockwork.NewFakeClockAt(tc.now)
			if got := currentSeason(clock); got != tc.want {
				t.Fatalf("currentSeason(%s) = %d, want %d", tc.now, got, tc.want)
			}
		})
	}
}

func TestSeasonCandidates(t *testing.T) {
	t.Parallel()

	got := seasonCandidates(2025)
	if len(got) != 2 || got[0] != 2025 || got[1] != 2024 {
		t.Fatalf("seasonCandidates(2025) = %v", got)
	}

	got = seasonCandidates(2022)
	if len(got) != 1 || got[0] != 2022 {
		t.Fatalf("seasonCandidates(2022) = %v, want no fallback before cutoff year", got)
	}
}

func TestSeasonWindow(t *testing.T) {
	t.Parallel()

	from, to := seasonWindow(2025)
	if from != "2025-07-01" || to != "2026-06-30" {
		t.Fatalf("seasonWindow(2025) = %s..%s", from, to)
	}
}
