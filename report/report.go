// Package report renders the console tables printed during a run: the
// describe() summary, the head() preview, the fitted coefficients and the
// evaluation scores.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/YuminosukeSato/forestfires/dataset"
	"github.com/YuminosukeSato/forestfires/pkg/errors"
)

// InterceptLabel is the row name used for the intercept in Coefficients.
const InterceptLabel = "(intercept)"

// Score is one named evaluation metric.
type Score struct {
	Name  string
	Value float64
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	return t
}

func render(w io.Writer, t table.Writer) error {
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return errors.Wrap(err, "failed to write report table")
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Describe writes one column per numeric feature and one row per statistic,
// the layout pandas uses for DataFrame.describe().
func Describe(w io.Writer, summaries []dataset.ColumnSummary) error {
	t := newTable("Summary statistics")

	header := table.Row{""}
	for _, s := range summaries {
		header = append(header, s.Name)
	}
	t.AppendHeader(header)

	stats := []struct {
		label string
		value func(s dataset.ColumnSummary) string
	}{
		{"count", func(s dataset.ColumnSummary) string { return strconv.Itoa(s.Count) }},
		{"mean", func(s dataset.ColumnSummary) string { return num(s.Mean) }},
		{"std", func(s dataset.ColumnSummary) string { return num(s.Std) }},
		{"min", func(s dataset.ColumnSummary) string { return num(s.Min) }},
		{"25%", func(s dataset.ColumnSummary) string { return num(s.Q25) }},
		{"50%", func(s dataset.ColumnSummary) string { return num(s.Median) }},
		{"75%", func(s dataset.ColumnSummary) string { return num(s.Q75) }},
		{"max", func(s dataset.ColumnSummary) string { return num(s.Max) }},
	}
	for _, st := range stats {
		row := table.Row{st.label}
		for _, s := range summaries {
			row = append(row, st.value(s))
		}
		t.AppendRow(row)
	}

	configs := []table.ColumnConfig{}
	for i := range summaries {
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	return render(w, t)
}

// Head writes the first n records with their original string fields.
func Head(w io.Writer, ds *dataset.Dataset, n int) error {
	t := newTable(fmt.Sprintf("First %d rows", min(n, ds.Len())))

	header := table.Row{"#"}
	for _, c := range dataset.Columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for i, rec := range ds.Head(n) {
		row := table.Row{i}
		for _, field := range rec.Row() {
			row = append(row, field)
		}
		t.AppendRow(row)
	}
	return render(w, t)
}

// Coefficients writes one row per feature weight, followed by the
// intercept.
func Coefficients(w io.Writer, names []string, coef []float64, intercept float64) error {
	if len(names) != len(coef) {
		return errors.NewDimensionError("report.Coefficients", len(coef), len(names), 1)
	}

	t := newTable("Fitted coefficients")
	t.AppendHeader(table.Row{"feature", "coefficient"})
	for _, pair := range lo.Zip2(names, coef) {
		t.AppendRow(table.Row{pair.A, num(pair.B)})
	}
	t.AppendFooter(table.Row{InterceptLabel, num(intercept)})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight}})
	return render(w, t)
}

// Scores writes the evaluation metrics in the given order.
func Scores(w io.Writer, title string, scores []Score) error {
	t := newTable(title)
	t.AppendHeader(table.Row{"metric", "value"})
	for _, s := range scores {
		t.AppendRow(table.Row{s.Name, num(s.Value)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	return render(w, t)
}
