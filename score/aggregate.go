package score

import (
	"sort"
	"strings"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

type SortKey string

const (
	SortByPoints SortKey = "points"
	SortByBooks  SortKey = "books"
)

// LeaderAll is the leader filter value that passes every team.
const LeaderAll = "all"

// Query is the dashboard's view state: search term, leader filter, sort
// key and optional date filter, passed explicitly instead of living in
// ambient globals.
type Query struct {
	Search      string
	Leader      string
	Sort        SortKey
	Date        string
	Equivalence map[string]float64
}

// RankedTeam pairs a team with its derived stats and 1-based position.
// Ranks are never stored; reapplying filters recomputes them.
type RankedTeam struct {
	Rank   int
	Team   schema.Team
	Counts schema.BookCounts
	Stats  DerivedStats
}

// Rank applies the query to the full team collection and returns the
// ordered scoreboard. Name search runs first, then the leader filter,
// then stats with the date filter, then the descending sort. Ties keep
// the collection's retrieval order; there is no secondary sort key.
func Rank(teams []schema.Team, q Query, currentDate string) []RankedTeam {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	ranked := make([]RankedTeam, 0, len(teams))
	for _, team := range teams {
		if search != "" && !strings.Contains(strings.ToLower(team.Name), search) {
			continue
		}
		if q.Leader != "" && q.Leader != LeaderAll && team.Leader != q.Leader {
			continue
		}

		stats, counts := TeamStats(team.Books, currentDate, q.Date, q.Equivalence)
		ranked = append(ranked, RankedTeam{
			Team:   team,
			Counts: counts,
			Stats:  stats,
		})
	}

	key := q.Sort
	if key == "" {
		key = SortByPoints
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if key == SortByBooks {
			return ranked[i].Stats.TotalBooks > ranked[j].Stats.TotalBooks
		}
		return ranked[i].Stats.TotalPoints > ranked[j].Stats.TotalPoints
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// TopN truncates an already ranked scoreboard for charting. It never
// re-sorts by a different key than the one the ranking used.
func TopN(ranked []RankedTeam, n int) []RankedTeam {
	if len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}
