package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/compensation_dashboard/internal/database"
	"github.com/locvowork/compensation_dashboard/internal/dataset"
	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/filter"
	"github.com/locvowork/compensation_dashboard/pkg/simpleexcel"
)

func readBack(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := simpleexcel.ReadSheetFrom(bytes.NewReader(data), SheetName)
	require.NoError(t, err)
	return rows
}

// withoutIDs clears row identities, which a spreadsheet does not carry.
func withoutIDs(records []domain.EmployeeRecord) []domain.EmployeeRecord {
	out := make([]domain.EmployeeRecord, len(records))
	for i, r := range records {
		r.ID = 0
		out[i] = r
	}
	return out
}

func TestBuildRoundTrip(t *testing.T) {
	table := database.GenerateDataset(25, 3).Employees[domain.Year2024]
	view := filter.Apply(table, domain.FilterPredicate{JobLevels: []string{"L1", "L2", "L3"}})
	require.NotZero(t, view.Len())

	data, err := Build(view.Columns, view.Records)
	require.NoError(t, err)

	rows := readBack(t, data)
	require.Equal(t, view.Columns, rows[0], "header keeps schema order without a selection column")
	require.Len(t, rows, view.Len()+1)

	parsed, err := dataset.ParseEmployeeRows(view.Year, SheetName, rows)
	require.NoError(t, err)
	require.Equal(t, withoutIDs(view.Records), withoutIDs(parsed.Records))
}

func TestBuildDeterministicCells(t *testing.T) {
	table := database.GenerateDataset(10, 4).Employees[domain.Year2025]

	first, err := Build(table.Columns, table.Records)
	require.NoError(t, err)
	second, err := Build(table.Columns, table.Records)
	require.NoError(t, err)

	// workbook metadata may carry timestamps, so compare cell content only
	require.Equal(t, readBack(t, first), readBack(t, second))
}

func TestBuildZeroRows(t *testing.T) {
	data, err := Build(domain.RequiredEmployeeColumns, nil)
	require.NoError(t, err)

	rows := readBack(t, data)
	require.Equal(t, [][]string{domain.RequiredEmployeeColumns}, rows)
}

func TestBuildCSV(t *testing.T) {
	records := []domain.EmployeeRecord{
		{Department: "A", JobLevel: "L1", Gender: "Female", Ethnicity: "Asian", BaseSalary: 50000, CompaRatio: 0.9},
		{Department: "B, Inc", JobLevel: "L2", Gender: "Male", Ethnicity: "White", BaseSalary: 60500.5, CompaRatio: 1.25},
	}
	var buf bytes.Buffer
	require.NoError(t, BuildCSV(&buf, domain.RequiredEmployeeColumns, records))

	got, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		domain.RequiredEmployeeColumns,
		{"A", "L1", "Female", "Asian", "50000", "0.9"},
		{"B, Inc", "L2", "Male", "White", "60500.5", "1.25"},
	}, got)
}

func TestRender(t *testing.T) {
	data, mime, err := Render("", domain.RequiredEmployeeColumns, nil)
	require.NoError(t, err)
	assert.Equal(t, MIMEXLSX, mime)
	assert.NotEmpty(t, data)

	data, mime, err = Render(FormatCSV, domain.RequiredEmployeeColumns, nil)
	require.NoError(t, err)
	assert.Equal(t, MIMECSV, mime)
	assert.Equal(t, "Department,Job_Level,Gender,Ethnicity,Base_Salary,Compa_Ratio\n", string(data))

	_, _, err = Render("pdf", domain.RequiredEmployeeColumns, nil)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSelectRows(t *testing.T) {
	view := domain.FilteredView{Records: []domain.EmployeeRecord{{ID: 2}, {ID: 5}, {ID: 9}}}

	tests := []struct {
		name     string
		selected []int
		want     []int
	}{
		{"NoSelection", nil, []int{2, 5, 9}},
		{"Subset", []int{9, 2}, []int{2, 9}},
		{"OutsideView", []int{3, 4}, []int{2, 5, 9}},
		{"Mixed", []int{5, 100}, []int{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := SelectRows(view, tt.selected)
			got := make([]int, len(rows))
			for i, r := range rows {
				got[i] = r.ID
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFileName(t *testing.T) {
	require.Equal(t, "Employee_Data_2024_12_records.xlsx", FileName(domain.Year2024, 12, FormatXLSX))
	require.Equal(t, "Employee_Data_2025_0_records.csv", FileName(domain.Year2025, 0, FormatCSV))
	require.Equal(t, "Employee_Data_2025_3_records.xlsx", FileName(domain.Year2025, 3, ""))
}
