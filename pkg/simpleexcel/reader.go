package simpleexcel

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when a requested sheet is absent from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ReadSheet returns the rows of one sheet as raw cell text. Numbers keep their stored
// representation rather than the display format, so "50000" is not read back as "$50,000".
func ReadSheet(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// ReadSheets reads several sheets, failing on the first one that is missing.
func ReadSheets(f *excelize.File, sheets ...string) (map[string][][]string, error) {
	out := make(map[string][][]string, len(sheets))
	for _, name := range sheets {
		rows, err := ReadSheet(f, name)
		if err != nil {
			return nil, err
		}
		out[name] = rows
	}
	return out, nil
}

// ReadSheetFrom opens a workbook stream and reads one sheet. Used to check exported bytes.
func ReadSheetFrom(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return ReadSheet(f, sheet)
}
