package score

import (
	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

// Normalize resolves a team's persisted book field into the two canonical
// views: the full dated history and the flat current snapshot. Legacy flat
// data becomes a single history entry tagged with currentDate. For history
// shaped data the snapshot is the cumulative sum across every recorded
// date, so the undated dashboard view shows lifetime totals.
func Normalize(data schema.BookData, currentDate string) ([]schema.BookHistoryEntry, schema.BookCounts) {
	if data.IsHistory() {
		return data.History, MergeCounts(data.History)
	}

	counts := data.Legacy
	if counts == nil {
		counts = schema.BookCounts{}
	}
	history := []schema.BookHistoryEntry{
		{Date: currentDate, Counts: counts},
	}
	return history, counts
}

// EntriesForDate keeps only the history entries recorded exactly on date.
// An empty result is a valid outcome and yields all-zero stats.
func EntriesForDate(history []schema.BookHistoryEntry, date string) []schema.BookHistoryEntry {
	matched := make([]schema.BookHistoryEntry, 0, 1)
	for _, entry := range history {
		if entry.Date == date {
			matched = append(matched, entry)
		}
	}
	return matched
}

// MergeCounts sums per-category counts across entries. Only categories in
// the fixed set are carried; anything else in old records is ignored.
func MergeCounts(entries []schema.BookHistoryEntry) schema.BookCounts {
	merged := schema.BookCounts{}
	for _, entry := range entries {
		for _, category := range schema.Categories {
			if count, ok := entry.Counts[category]; ok {
				merged[category] += count
			}
		}
	}
	return merged
}
