package score

import (
	"math"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

// DerivedStats is computed per team and never persisted. Internal
// arithmetic keeps full precision; rounding happens at display time only.
type DerivedStats struct {
	TotalBooks  float64 `json:"total_books"`
	TotalPoints float64 `json:"total_points"`
}

// CalculateStats derives totals from a flat count mapping. When an
// equivalence table is supplied, book totals are expressed in equivalent
// units instead of raw counts. Categories absent from the input contribute
// zero; categories outside the fixed set are ignored.
func CalculateStats(counts schema.BookCounts, equivalence map[string]float64) DerivedStats {
	var stats DerivedStats
	for _, category := range schema.Categories {
		count, ok := counts[category]
		if !ok {
			continue
		}

		stats.TotalPoints += float64(count) * PointValue(category)
		if equivalence != nil {
			stats.TotalBooks += float64(count) * equivalence[category]
		} else {
			stats.TotalBooks += float64(count)
		}
	}
	return stats
}

// TeamStats normalizes a team's book data and derives its stats. A
// non-empty dateFilter restricts history entries to that exact date; a
// date with no entries yields zero stats. Without a filter the totals are
// cumulative across all recorded dates. It also returns the flat counts
// the stats were derived from, which the CSV exporter renders per column.
func TeamStats(data schema.BookData, currentDate, dateFilter string, equivalence map[string]float64) (DerivedStats, schema.BookCounts) {
	history, current := Normalize(data, currentDate)

	counts := current
	if dateFilter != "" {
		counts = MergeCounts(EntriesForDate(history, dateFilter))
	}
	return CalculateStats(counts, equivalence), counts
}

// Round2 rounds a stat to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
