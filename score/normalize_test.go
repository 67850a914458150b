package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

func TestNormalizeLegacyShape(t *testing.T) {
	data := schema.BookData{Legacy: schema.BookCounts{
		schema.CategoryBB: 4,
		schema.CategorySB: 1,
	}}

	history, current := Normalize(data, "2026-01-20")
	assert.Len(t, history, 1)
	assert.Equal(t, "2026-01-20", history[0].Date)
	assert.Equal(t, data.Legacy, history[0].Counts)
	assert.Equal(t, data.Legacy, current)
}

func TestNormalizeNilBookData(t *testing.T) {
	history, current := Normalize(schema.BookData{}, "2026-01-20")
	assert.Len(t, history, 1)
	assert.Empty(t, current)
}

func TestNormalizeHistoryShape(t *testing.T) {
	entries := []schema.BookHistoryEntry{
		{Date: "2026-01-10", Counts: schema.BookCounts{schema.CategoryBB: 2}},
		{Date: "2026-01-11", Counts: schema.BookCounts{schema.CategoryBB: 3, schema.CategoryMB: 1}},
	}

	history, current := Normalize(schema.BookData{History: entries}, "2026-01-20")
	assert.Equal(t, entries, history)
	assert.Equal(t, schema.BookCounts{
		schema.CategoryBB: 5,
		schema.CategoryMB: 1,
	}, current)
}

func TestEntriesForDate(t *testing.T) {
	history := []schema.BookHistoryEntry{
		{Date: "2026-01-10", Counts: schema.BookCounts{schema.CategoryBB: 2}},
		{Date: "2026-01-11", Counts: schema.BookCounts{schema.CategoryBB: 3}},
	}

	assert.Len(t, EntriesForDate(history, "2026-01-10"), 1)
	assert.Empty(t, EntriesForDate(history, "2026-01-12"))
}

func TestMergeCountsDropsUnknownCategories(t *testing.T) {
	merged := MergeCounts([]schema.BookHistoryEntry{
		{Date: "2026-01-10", Counts: schema.BookCounts{schema.CategoryCC: 1, "Poster": 9}},
	})
	assert.Equal(t, schema.BookCounts{schema.CategoryCC: 1}, merged)
}
