package simpleexcel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type testRow struct {
	Name  string
	Price float64
}

type providerRow map[string]interface{}

func (p providerRow) Cell(field string) interface{} {
	return p[field]
}

func TestDataExporter_HeaderData(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("Products").
		AddSection(&SectionConfig{
			ShowHeader: true,
			Data:       []testRow{{"Laptop", 1200}, {"Mouse", 25}},
			Columns: []ColumnConfig{
				{FieldName: "Name", Header: "Product Name", Width: 20},
				{FieldName: "Price", Header: "Product Price"},
			},
		})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Product Name", "Product Price"},
		{"Laptop", "1200"},
		{"Mouse", "25"},
	}, rows)
}

func TestDataExporter_OnlyConfiguredColumns(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("Strict").
		AddSection(&SectionConfig{
			ShowHeader: true,
			Data:       []providerRow{{"A": "x", "B": 2.5, "Hidden": "nope"}},
			Columns: []ColumnConfig{
				{FieldName: "B", Header: "B"},
				{FieldName: "A", Header: "A"},
			},
		})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Strict")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"B", "A"}, {"2.5", "x"}}, rows)
}

func TestDataExporter_NumberFormatAndFilter(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("Formatted").
		AddSection(&SectionConfig{
			ShowHeader:   true,
			HasFilter:    true,
			FreezeHeader: true,
			Data:         []testRow{{"Laptop", 1200.5}},
			Columns: []ColumnConfig{
				{FieldName: "Name", Header: "Name"},
				{FieldName: "Price", Header: "Price", NumberFormat: "$#,##0.00"},
			},
		})

	data, err := exporter.ToBytes()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	styleID, err := f.GetCellStyle("Formatted", "B2")
	require.NoError(t, err)
	require.NotZero(t, styleID)

	raw, err := ReadSheet(f, "Formatted")
	require.NoError(t, err)
	require.Equal(t, "1200.5", raw[1][1])
}

func TestDataExporter_EmptyData(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("Empty").
		AddSection(&SectionConfig{
			ShowHeader: true,
			HasFilter:  true,
			Data:       []testRow{},
			Columns:    []ColumnConfig{{FieldName: "Name", Header: "Name"}},
		})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Empty")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Name"}}, rows)
}

func TestDataExporter_NoSheets(t *testing.T) {
	_, err := NewExcelDataExporter().ToBytes()
	require.Error(t, err)
}

func TestDataExporter_ToCSV(t *testing.T) {
	exporter := NewExcelDataExporter()
	exporter.AddSheet("CSV").
		AddSection(&SectionConfig{
			ShowHeader: true,
			Data:       []testRow{{"Laptop, Pro", 1200.5}, {"Mouse", 25}},
			Columns: []ColumnConfig{
				{FieldName: "Name", Header: "Name"},
				{FieldName: "Price", Header: "Price"},
			},
		})

	var buf bytes.Buffer
	require.NoError(t, exporter.ToCSV(&buf))
	require.Equal(t, "Name,Price\n\"Laptop, Pro\",1200.5\nMouse,25\n", buf.String())
}
