// Package load reads tabular benefits extracts from CSV and XLSX files
// into the neutral table representation.
package load

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ivyrecon/ivyrecon/pkg/errors"
	"github.com/ivyrecon/ivyrecon/pkg/table"
)

// File loads a tabular extract, dispatching on the file extension.
// Supported: .csv, .xlsx (first sheet).
func File(path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSVFile(path)
	case ".xlsx":
		return XLSXFile(path)
	default:
		return nil, errors.NewLoadError(path, "", errors.ErrUnsupportedFormat)
	}
}

// CSVFile loads a CSV extract from disk.
func CSVFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapLoad(path, "csv", openErr(err))
	}
	defer f.Close()

	t, err := CSV(f)
	return t, errors.WrapLoad(path, "csv", err)
}

// CSV reads a CSV stream. The first record is the header row; ragged rows
// are tolerated and padded or truncated to the header width.
func CSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	t := table.New(header...)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Append(fit(rec, len(header))...)
	}
	return t, nil
}

// XLSXFile loads the first sheet of an XLSX workbook.
func XLSXFile(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapLoad(path, "xlsx", openErr(err))
	}
	defer f.Close()

	t, err := xlsxSheet(f)
	return t, errors.WrapLoad(path, "xlsx", err)
}

// XLSX reads the first sheet of an XLSX stream.
func XLSX(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return xlsxSheet(f)
}

func xlsxSheet(f *excelize.File) (*table.Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ErrInvalidInput
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.ErrInvalidInput
	}

	t := table.New(rows[0]...)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		t.Append(fit(row, len(rows[0]))...)
	}
	return t, nil
}

// openErr maps a missing file onto the package sentinel so callers can
// test with errors.IsNotFound; the wrapping LoadError keeps the path.
func openErr(err error) error {
	if os.IsNotExist(err) {
		return errors.ErrNotFound
	}
	return err
}

// fit pads or truncates a row to the header width.
func fit(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
