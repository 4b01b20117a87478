package report

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ivyrecon/ivyrecon/pkg/errors"
	"github.com/ivyrecon/ivyrecon/pkg/recon"
)

const (
	sheetSummary = "Summary"
	sheetAll     = "All Discrepancies"

	// Excel caps sheet names at 31 characters.
	maxSheetName = 31
)

// WriteXLSX writes the export as a multi-sheet workbook: a Summary sheet,
// an All Discrepancies sheet, and one sheet per error type.
func WriteXLSX(w io.Writer, e *Export) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return errors.WrapExport("xlsx", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	})
	if err != nil {
		return errors.WrapExport("xlsx", err)
	}

	s := sheetWriter{f: f, headerStyle: headerStyle, titleStyle: titleStyle}

	// excelize seeds new files with "Sheet1"; Summary replaces it.
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return errors.WrapExport("xlsx", err)
	}

	if err := s.write(sheetSummary, e.Title(sheetSummary), e.SummaryColumns(), e.SummaryRows()); err != nil {
		return err
	}
	if err := s.write(sheetAll, e.Title(sheetAll), e.Columns(), e.rows(e.Result.Discrepancies)); err != nil {
		return err
	}
	for _, g := range e.Groups {
		name := sheetName(string(g.Type))
		if err := s.write(name, e.Title(string(g.Type)), e.Columns(), e.rows(g.Rows)); err != nil {
			return err
		}
	}

	idx, err := f.GetSheetIndex(sheetSummary)
	if err != nil {
		return errors.WrapExport("xlsx", err)
	}
	f.SetActiveSheet(idx)

	if err := f.Write(w); err != nil {
		return errors.WrapExport("xlsx", err)
	}
	return nil
}

type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	titleStyle  int
}

func (s sheetWriter) write(sheet, title string, columns []string, rows [][]string) error {
	if sheet != sheetSummary {
		if _, err := s.f.NewSheet(sheet); err != nil {
			return errors.WrapExport("xlsx", err)
		}
	}

	if err := s.f.SetCellValue(sheet, "A1", title); err != nil {
		return errors.WrapExport("xlsx", err)
	}
	end, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := s.f.MergeCell(sheet, "A1", end); err != nil {
		return errors.WrapExport("xlsx", err)
	}
	if err := s.f.SetCellStyle(sheet, "A1", end, s.titleStyle); err != nil {
		return errors.WrapExport("xlsx", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := s.f.SetSheetRow(sheet, "A2", &header); err != nil {
		return errors.WrapExport("xlsx", err)
	}
	headerEnd, _ := excelize.CoordinatesToCellName(len(columns), 2)
	if err := s.f.SetCellStyle(sheet, "A2", headerEnd, s.headerStyle); err != nil {
		return errors.WrapExport("xlsx", err)
	}

	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := s.f.SetSheetRow(sheet, cell, &cells); err != nil {
			return errors.WrapExport("xlsx", err)
		}
	}

	width, _ := excelize.ColumnNumberToName(len(columns))
	if err := s.f.SetColWidth(sheet, "A", width, 18); err != nil {
		return errors.WrapExport("xlsx", err)
	}
	return nil
}

func (e *Export) rows(ds []recon.Discrepancy) [][]string {
	rows := make([][]string, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, e.Row(d))
	}
	return rows
}

// sheetName trims an error type down to a legal Excel sheet name.
func sheetName(s string) string {
	for _, bad := range []string{":", "\\", "/", "?", "*", "[", "]"} {
		s = strings.ReplaceAll(s, bad, " ")
	}
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxSheetName {
		s = strings.TrimSpace(s[:maxSheetName])
	}
	return s
}
