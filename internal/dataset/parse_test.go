package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

func TestParseEmployeeRows(t *testing.T) {
	rows := [][]string{
		{"Employee_ID", "Department", "Job_Level", "Gender", "Ethnicity", "Base_Salary", "Compa_Ratio", "Location"},
		{"E1", "A", "L1", "Female", "Asian", "50000", "0.9", "Hanoi"},
		{"", "", "", "", "", "", ""},
		{"E2", "B", "L2", "Male", "White", "$60,000", "1.3"},
	}

	table, err := ParseEmployeeRows(domain.Year2024, "Employees_2024", rows)
	require.NoError(t, err)
	require.Equal(t, rows[0], table.Columns)
	require.Equal(t, 2, table.Len())

	first := table.Records[0]
	require.Equal(t, 0, first.ID)
	require.Equal(t, "A", first.Department)
	require.Equal(t, 50000.0, first.BaseSalary)
	require.Equal(t, 0.9, first.CompaRatio)
	require.Equal(t, map[string]string{"Employee_ID": "E1", "Location": "Hanoi"}, first.Extra)

	second := table.Records[1]
	require.Equal(t, 1, second.ID)
	require.Equal(t, 60000.0, second.BaseSalary)
	// short rows are padded with blanks
	require.Equal(t, "", second.Extra["Location"])
}

func TestParseEmployeeRowsErrors(t *testing.T) {
	header := []string{"Department", "Job_Level", "Gender", "Ethnicity", "Base_Salary", "Compa_Ratio"}

	tests := []struct {
		name    string
		rows    [][]string
		wantErr error
	}{
		{"EmptySheet", nil, ErrMissingColumn},
		{"MissingColumn", [][]string{{"Department", "Gender"}}, ErrMissingColumn},
		{"BadSalary", [][]string{header, {"A", "L1", "F", "X", "abc", "1.0"}}, ErrInvalidRow},
		{"NegativeSalary", [][]string{header, {"A", "L1", "F", "X", "-1", "1.0"}}, ErrInvalidRow},
		{"ZeroCompa", [][]string{header, {"A", "L1", "F", "X", "100", "0"}}, ErrInvalidRow},
		{"MissingCompa", [][]string{header, {"A", "L1", "F", "X", "100"}}, ErrInvalidRow},
		{"NaNSalary", [][]string{header, {"A", "L1", "F", "X", "NaN", "1.0"}}, ErrInvalidRow},
		{"InfCompa", [][]string{header, {"A", "L1", "F", "X", "100", "Inf"}}, ErrInvalidRow},
		{"SignedInfSalary", [][]string{header, {"A", "L1", "F", "X", "+Inf", "1.0"}}, ErrInvalidRow},
		{"NegativeInfCompa", [][]string{header, {"A", "L1", "F", "X", "100", "-inf"}}, ErrInvalidRow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEmployeeRows(domain.Year2025, "Employees_2025", tt.rows)
			require.ErrorIs(t, err, tt.wantErr)
			require.Contains(t, err.Error(), "Employees_2025")
		})
	}
}

func TestParsePayBandRows(t *testing.T) {
	t.Run("AliasedHeaders", func(t *testing.T) {
		rows := [][]string{
			{"Job_Level", "Band_Min", "Mid", "Maximum", "Currency"},
			{"L1", "44000", "55000", "66000", "USD"},
		}
		table, err := ParsePayBandRows(domain.Year2024, "PayBand_2024", rows)
		require.NoError(t, err)
		require.Equal(t, rows[0], table.Columns)
		require.Equal(t, []domain.PayBand{{
			JobLevel: "L1", Min: 44000, Midpoint: 55000, Max: 66000,
			Extra: map[string]string{"Currency": "USD"},
		}}, table.Bands)
	})

	t.Run("NonFiniteBound", func(t *testing.T) {
		for _, raw := range []string{"NaN", "Inf", "-Inf"} {
			rows := [][]string{{"Job_Level", "Min_Salary", "Midpoint", "Max_Salary"}, {"L1", "44000", raw, "66000"}}
			_, err := ParsePayBandRows(domain.Year2024, "PayBand_2024", rows)
			require.ErrorIs(t, err, ErrInvalidRow, raw)
		}
	})

	t.Run("OnlyJobLevel", func(t *testing.T) {
		table, err := ParsePayBandRows(domain.Year2024, "PayBand_2024", [][]string{{"Job_Level"}, {"L9"}})
		require.NoError(t, err)
		require.Equal(t, []domain.PayBand{{JobLevel: "L9"}}, table.Bands)
	})

	t.Run("MissingJobLevel", func(t *testing.T) {
		_, err := ParsePayBandRows(domain.Year2024, "PayBand_2024", [][]string{{"Min"}})
		require.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("BadBound", func(t *testing.T) {
		_, err := ParsePayBandRows(domain.Year2024, "PayBand_2024", [][]string{{"Job_Level", "Min"}, {"L1", "lots"}})
		require.ErrorIs(t, err, ErrInvalidRow)
	})
}
