package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/issuelens/core/algo"
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
)

// labelsJSON is the JSON shape of a label tally.
type labelsJSON struct {
	Total    int                `json:"total"`
	Distinct int                `json:"distinct"`
	Labels   *schema.LabelTally `json:"labels"`
}

func labelsChart(tally *schema.LabelTally, cfg *contract.Config) chart {
	ranked := algo.TopN(tally, tally.Len())
	total := tally.Total()

	csvRows := make([][]string, 0, len(ranked))
	for i, e := range ranked {
		csvRows = append(csvRows, []string{
			strconv.Itoa(i + 1),
			e.Key.String(),
			e.Key.Kind().String(),
			strconv.Itoa(e.Count),
		})
	}

	return chart{
		name:      "labels",
		jsonValue: labelsJSON{Total: total, Distinct: tally.Len(), Labels: tally},
		csvHeader: []string{"rank", "label", "kind", "count"},
		csvRows:   csvRows,
		text: func(w io.Writer) error {
			return writeLabelsText(w, ranked, total, cfg)
		},
	}
}

func writeLabelsText(w io.Writer, ranked []schema.Count[schema.LabelToken], total int, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	shown := ranked[:min(len(ranked), cfg.ResultLimit)]
	maxCount := 0
	if len(shown) > 0 {
		maxCount = shown[0].Count
	}
	kw, bw := keyWidth(cfg), barWidth(cfg)

	rows := make([][]string, 0, len(shown))
	for i, e := range shown {
		key := e.Key.String()
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncateKey(key, kw),
			fmt.Sprintf(intFmt, e.Count),
			fmtFloat(percent(e.Count, total)),
			bar(key, e.Count, maxCount, bw),
		})
	}

	if err := writeTitle(w, fmt.Sprintf("Label frequency (top %d of %d distinct, %d total)", len(shown), len(ranked), total)); err != nil {
		return err
	}
	return writeTable(w, []string{"Rank", "Label", "Count", "Share%", "Bar"}, rows, 2)
}
