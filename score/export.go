package score

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

// WriteCSV serializes a ranked scoreboard: a fixed header row, then one
// row per team using its positional rank after filtering. Points carry
// exactly two decimals, category counts are raw integers and missing
// categories render as 0. Team and leader names are written as-is; commas
// or quotes inside them are not escaped.
func WriteCSV(w io.Writer, ranked []RankedTeam) error {
	header := append([]string{"Rank", "Team Name", "BV Leader"}, schema.Categories...)
	header = append(header, "Total Books", "Total Points")
	if _, err := fmt.Fprintln(w, strings.Join(header, ",")); err != nil {
		return err
	}

	for _, entry := range ranked {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(entry.Rank), entry.Team.Name, entry.Team.Leader)
		for _, category := range schema.Categories {
			row = append(row, strconv.Itoa(entry.Counts[category]))
		}
		row = append(row,
			strconv.FormatFloat(entry.Stats.TotalBooks, 'f', -1, 64),
			strconv.FormatFloat(entry.Stats.TotalPoints, 'f', 2, 64),
		)
		if _, err := fmt.Fprintln(w, strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return nil
}

// CSV renders the scoreboard to a string blob.
func CSV(ranked []RankedTeam) string {
	var b strings.Builder
	WriteCSV(&b, ranked)
	return b.String()
}

// ExportFilename names the CSV artifact for the given export time.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("marathon-scoreboard-%s.csv", t.Format("2006-01-02"))
}
