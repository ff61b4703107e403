// Package export turns employee rows into downloadable spreadsheet and CSV files.
package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/pkg/simpleexcel"
)

const (
	// SheetName is the single sheet of an exported workbook.
	SheetName = "Filtered_Data"
	sectionID = "employees"

	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMECSV  = "text/csv"

	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

//go:embed template.yaml
var templateYAML string

// newExporter lays out rows using the embedded template. The template supplies widths and
// number formats for known columns; the column order always follows columns.
func newExporter(columns []string, rows []domain.EmployeeRecord) (*simpleexcel.ExcelDataExporter, error) {
	exporter, err := simpleexcel.NewExcelDataExporterFromYamlConfig(templateYAML)
	if err != nil {
		return nil, fmt.Errorf("load export template: %w", err)
	}
	sheet := exporter.GetSheet(SheetName)
	if sheet == nil {
		return nil, fmt.Errorf("export template has no %s sheet", SheetName)
	}
	sec := sheet.Section(sectionID)
	if sec == nil {
		return nil, fmt.Errorf("export template has no %s section", sectionID)
	}
	sec.Columns = layout(columns, sec.Columns)

	if rows == nil {
		rows = []domain.EmployeeRecord{}
	}
	exporter.BindSectionData(sectionID, rows)
	return exporter, nil
}

func layout(columns []string, configured []simpleexcel.ColumnConfig) []simpleexcel.ColumnConfig {
	byField := make(map[string]simpleexcel.ColumnConfig, len(configured))
	for _, c := range configured {
		byField[c.FieldName] = c
	}
	out := make([]simpleexcel.ColumnConfig, len(columns))
	for i, name := range columns {
		col, ok := byField[name]
		if !ok {
			col = simpleexcel.ColumnConfig{FieldName: name, Width: 16}
		}
		col.Header = name
		out[i] = col
	}
	return out
}

// Build writes rows to a single-sheet workbook with one header row in the order of columns.
// Zero rows produce a workbook holding only the header.
func Build(columns []string, rows []domain.EmployeeRecord) ([]byte, error) {
	exporter, err := newExporter(columns, rows)
	if err != nil {
		return nil, err
	}
	data, err := exporter.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	return data, nil
}

// BuildCSV writes the same table as CSV.
func BuildCSV(w io.Writer, columns []string, rows []domain.EmployeeRecord) error {
	exporter, err := newExporter(columns, rows)
	if err != nil {
		return err
	}
	if err := exporter.ToCSV(w); err != nil {
		return fmt.Errorf("build csv: %w", err)
	}
	return nil
}

// Render builds the export in the requested format and returns its bytes and content type.
func Render(format string, columns []string, rows []domain.EmployeeRecord) ([]byte, string, error) {
	switch format {
	case "", FormatXLSX:
		data, err := Build(columns, rows)
		return data, MIMEXLSX, err
	case FormatCSV:
		var buf bytes.Buffer
		if err := BuildCSV(&buf, columns, rows); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), MIMECSV, nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// SelectRows returns the view records whose IDs are in selected, in view order.
// With no selection, or a selection that matches nothing in the view, the whole view is returned.
func SelectRows(view domain.FilteredView, selected []int) []domain.EmployeeRecord {
	if len(selected) == 0 {
		return view.Records
	}
	want := make(map[int]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}
	var rows []domain.EmployeeRecord
	for _, r := range view.Records {
		if want[r.ID] {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return view.Records
	}
	return rows
}

// FileName names an export artifact, e.g. Employee_Data_2024_12_records.xlsx.
func FileName(year domain.Year, count int, ext string) string {
	if ext == "" {
		ext = FormatXLSX
	}
	return fmt.Sprintf("Employee_Data_%s_%d_records.%s", year, count, ext)
}
