package score

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

func TestCSVHeaderAndRows(t *testing.T) {
	teams := []schema.Team{
		flatTeam("Alpha Squad", "Gaura", schema.BookCounts{
			schema.CategoryBhagavatam: 1,
			schema.CategoryMBB:        3,
		}),
		flatTeam("Beta Team", "Nitai", schema.BookCounts{
			schema.CategorySB: 2,
		}),
	}
	ranked := Rank(teams, Query{Sort: SortByPoints}, "2026-01-20")

	blob := CSV(ranked)
	lines := strings.Split(strings.TrimRight(blob, "\n"), "\n")

	assert.Len(t, lines, len(ranked)+1)
	assert.Equal(t, "Rank,Team Name,BV Leader,Bhagavatam,CC,MBB,BB,MB,SB,Total Books,Total Points", lines[0])
	assert.Equal(t, "1,Alpha Squad,Gaura,1,0,3,0,0,0,4,78.00", lines[1])
	assert.Equal(t, "2,Beta Team,Nitai,0,0,0,0,0,2,2,0.50", lines[2])
}

func TestCSVRankMatchesRowPosition(t *testing.T) {
	teams := []schema.Team{
		flatTeam("Alpha Squad", "Gaura", schema.BookCounts{schema.CategoryBB: 1}),
		flatTeam("Alpha Crew", "Gaura", schema.BookCounts{schema.CategoryBB: 5}),
		flatTeam("Beta Team", "Gaura", schema.BookCounts{schema.CategoryBB: 9}),
	}

	// the rank column reflects the position after filtering, not the
	// unfiltered global rank
	ranked := Rank(teams, Query{Search: "Alpha"}, "2026-01-20")
	lines := strings.Split(strings.TrimRight(CSV(ranked), "\n"), "\n")

	assert.True(t, strings.HasPrefix(lines[1], "1,Alpha Crew,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,Alpha Squad,"))
}

func TestCSVDoesNotEscapeNames(t *testing.T) {
	ranked := Rank([]schema.Team{
		flatTeam("Alpha, the Squad", "Gaura", nil),
	}, Query{}, "2026-01-20")

	lines := strings.Split(strings.TrimRight(CSV(ranked), "\n"), "\n")
	assert.Equal(t, "1,Alpha, the Squad,Gaura,0,0,0,0,0,0,0,0.00", lines[1])
}

func TestCSVEmptyScoreboard(t *testing.T) {
	lines := strings.Split(strings.TrimRight(CSV(nil), "\n"), "\n")
	assert.Len(t, lines, 1)
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2026, 1, 20, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "marathon-scoreboard-2026-01-20.csv", ExportFilename(ts))
}
