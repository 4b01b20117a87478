package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary renders the summary table to a terminal-friendly writer.
func WriteSummary(w io.Writer, e *Export) error {
	fmt.Fprintln(w, e.Title(sheetSummary))

	t := tablewriter.NewTable(w)
	t.Header("Error Type", "Count")
	for _, row := range e.SummaryRows() {
		if err := t.Append(row[0], row[1]); err != nil {
			return err
		}
	}
	if err := t.Render(); err != nil {
		return err
	}

	for _, fr := range e.Result.Filters {
		if fr.Suppressed > 0 {
			fmt.Fprintf(w, "%s suppressed %d discrepancies\n", fr.Name, fr.Suppressed)
		}
	}
	return nil
}

// WriteDiscrepancies renders the full discrepancy table.
func WriteDiscrepancies(w io.Writer, e *Export) error {
	fmt.Fprintln(w, e.Title(sheetAll))

	t := tablewriter.NewTable(w)
	headers := make([]any, 0)
	for _, c := range e.Columns() {
		headers = append(headers, c)
	}
	t.Header(headers...)
	for _, d := range e.Result.Discrepancies {
		cells := make([]any, 0)
		for _, c := range e.Row(d) {
			cells = append(cells, c)
		}
		if err := t.Append(cells...); err != nil {
			return err
		}
	}
	return t.Render()
}
