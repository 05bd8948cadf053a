// Package outwriter renders metric results as text charts, CSV or JSON.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/issuelens/internal/contract"
	"github.com/huangsam/issuelens/schema"
)

// OutWriter implements contract.ChartAdapter using the configured output format.
type OutWriter struct {
	cfg *contract.Config
	out io.Writer // Overrides cfg.OutputFile when set
}

var _ contract.ChartAdapter = &OutWriter{} // Compile-time check

// NewOutWriter creates a writer that targets cfg.OutputFile, or stdout when it is empty.
func NewOutWriter(cfg *contract.Config) *OutWriter {
	return &OutWriter{cfg: cfg}
}

// NewOutWriterTo creates a writer that always writes to w.
func NewOutWriterTo(cfg *contract.Config, w io.Writer) *OutWriter {
	return &OutWriter{cfg: cfg, out: w}
}

// chart is one result prepared for every output format.
type chart struct {
	name      string
	jsonValue any
	csvHeader []string
	csvRows   [][]string
	text      func(w io.Writer) error
}

// render dispatches a chart on the configured output format.
func (ow *OutWriter) render(c chart) error {
	var write func(io.Writer) error
	var msg string
	switch ow.cfg.Output {
	case schema.JSONOut:
		write = func(w io.Writer) error { return writeJSON(w, c.jsonValue) }
		msg = "Wrote JSON"
	case schema.CSVOut:
		write = func(w io.Writer) error {
			return writeCSVWithHeader(w, c.csvHeader, func(cw *csv.Writer) error {
				return cw.WriteAll(c.csvRows)
			})
		}
		msg = "Wrote CSV"
	default:
		write = c.text
		msg = "Wrote table"
	}

	var err error
	if ow.out != nil {
		err = write(ow.out)
	} else {
		err = writeWithFile(ow.cfg.OutputFile, write, msg)
	}
	if err != nil {
		return fmt.Errorf("error writing %s output: %w", c.name, err)
	}
	return nil
}

// RenderLabels implements contract.ChartAdapter.
func (ow *OutWriter) RenderLabels(tally *schema.LabelTally) error {
	return ow.render(labelsChart(tally, ow.cfg))
}

// RenderDistribution implements contract.ChartAdapter.
func (ow *OutWriter) RenderDistribution(result *schema.DistributionResult) error {
	return ow.render(distributionChart(result, ow.cfg))
}

// RenderResponseTime implements contract.ChartAdapter.
func (ow *OutWriter) RenderResponseTime(result *schema.ResponseTimeResult) error {
	return ow.render(responseChart(result, ow.cfg))
}

// RenderUpdates implements contract.ChartAdapter.
func (ow *OutWriter) RenderUpdates(durations schema.UpdateDurations) error {
	return ow.render(updatesChart(durations, ow.cfg))
}

// RenderOverlap implements contract.ChartAdapter.
func (ow *OutWriter) RenderOverlap(result *schema.OverlapResult) error {
	return ow.render(overlapChart(result, ow.cfg))
}

// RenderMonthly implements contract.ChartAdapter.
func (ow *OutWriter) RenderMonthly(result *schema.MonthlyCreation) error {
	return ow.render(monthlyChart(result, ow.cfg))
}
