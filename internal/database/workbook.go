package database

import (
	"context"
	"fmt"

	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/pkg/simpleexcel"
)

// NewWorkbookExporter lays out a dataset as the four-sheet source workbook:
// PayBand_2024, Employees_2024, PayBand_2025, Employees_2025.
func NewWorkbookExporter(ds *domain.Dataset) *simpleexcel.ExcelDataExporter {
	exporter := simpleexcel.NewExcelDataExporter()
	for _, y := range domain.Years {
		bands := ds.PayBands[y]
		exporter.AddSheet(domain.PayBandSheet(y)).AddSection(&simpleexcel.SectionConfig{
			ID:         "pay_bands",
			Data:       bands.Bands,
			ShowHeader: true,
			Columns:    sheetColumns(bands.Columns),
		})

		employees := ds.Employees[y]
		exporter.AddSheet(domain.EmployeeSheet(y)).AddSection(&simpleexcel.SectionConfig{
			ID:           "employees",
			Data:         employees.Records,
			ShowHeader:   true,
			FreezeHeader: true,
			Columns:      sheetColumns(employees.Columns),
		})
	}
	return exporter
}

// WriteWorkbook saves the dataset to path.
func WriteWorkbook(ctx context.Context, ds *domain.Dataset, path string) error {
	if err := NewWorkbookExporter(ds).ExportToExcel(ctx, path); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}
	return nil
}

func sheetColumns(columns []string) []simpleexcel.ColumnConfig {
	out := make([]simpleexcel.ColumnConfig, len(columns))
	for i, c := range columns {
		out[i] = simpleexcel.ColumnConfig{FieldName: c, Header: c, Width: 16}
	}
	return out
}
