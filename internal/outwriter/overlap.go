package outwriter

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
)

// Roles in the overlap CSV.
const (
	roleCreator   = "creator"
	roleCommenter = "commenter"
)

func overlapChart(result *schema.OverlapResult, cfg *contract.Config) chart {
	var csvRows [][]string
	for _, role := range []struct {
		name string
		top  []schema.Count[string]
	}{{roleCreator, result.TopCreators}, {roleCommenter, result.TopCommenters}} {
		for i, e := range role.top {
			csvRows = append(csvRows, []string{
				role.name,
				strconv.Itoa(i + 1),
				e.Key,
				strconv.Itoa(e.Count),
				strconv.FormatBool(slices.Contains(result.Shared, e.Key)),
			})
		}
	}

	return chart{
		name:      "overlap",
		jsonValue: result,
		csvHeader: []string{"role", "rank", "login", "count", "shared"},
		csvRows:   csvRows,
		text: func(w io.Writer) error {
			return writeOverlapText(w, result, cfg)
		},
	}
}

func writeOverlapText(w io.Writer, result *schema.OverlapResult, cfg *contract.Config) error {
	kw := keyWidth(cfg)
	rankRows := func(top []schema.Count[string]) [][]string {
		rows := make([][]string, 0, len(top))
		for i, e := range top {
			login := truncateKey(e.Key, kw)
			if slices.Contains(result.Shared, e.Key) {
				login = sharedColor.Sprint(login)
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), login, strconv.Itoa(e.Count)})
		}
		return rows
	}

	if err := writeTitle(w, fmt.Sprintf("Top issue creators (%d distinct)", result.Creators.Len())); err != nil {
		return err
	}
	if err := writeTable(w, []string{"Rank", "Creator", "Issues"}, rankRows(result.TopCreators), 2); err != nil {
		return err
	}
	if err := writeTitle(w, fmt.Sprintf("Top commenters (%d distinct)", result.Commenters.Len())); err != nil {
		return err
	}
	if err := writeTable(w, []string{"Rank", "Commenter", "Comments"}, rankRows(result.TopCommenters), 2); err != nil {
		return err
	}

	shared := "none"
	if len(result.Shared) > 0 {
		shared = strings.Join(result.Shared, ", ")
	}
	_, err := fmt.Fprintf(w, "Shared: %s\n", shared)
	return err
}
