package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

var (
	// ErrMissingColumn means a sheet lacks a column the dashboard needs.
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidRow means a row could not be converted to a record.
	ErrInvalidRow = errors.New("invalid row")
)

// Accepted header spellings for pay-band bounds.
var (
	bandMinHeaders = []string{"Min", "Min_Salary", "Band_Min", "Minimum", "Salary_Min"}
	bandMidHeaders = []string{"Midpoint", "Mid", "Mid_Salary", "Band_Mid", "Salary_Mid"}
	bandMaxHeaders = []string{"Max", "Max_Salary", "Band_Max", "Maximum", "Salary_Max"}
)

// header maps column names to their index in a sheet row.
type header struct {
	columns []string
	index   map[string]int
}

func newHeader(row []string) header {
	h := header{index: make(map[string]int, len(row))}
	for _, name := range row {
		name = strings.TrimSpace(name)
		h.index[name] = len(h.columns)
		h.columns = append(h.columns, name)
	}
	// trailing blank header cells carry no column
	for len(h.columns) > 0 && h.columns[len(h.columns)-1] == "" {
		delete(h.index, "")
		h.columns = h.columns[:len(h.columns)-1]
	}
	return h
}

func (h header) require(sheet string, names ...string) error {
	for _, name := range names {
		if _, ok := h.index[name]; !ok {
			return fmt.Errorf("sheet %s: %w %q", sheet, ErrMissingColumn, name)
		}
	}
	return nil
}

// lookup returns the index of the first present alias.
func (h header) lookup(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if i, ok := h.index[a]; ok {
			return i, true
		}
	}
	return 0, false
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts plain numbers and display text such as "$50,000".
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// ParseEmployeeRows converts raw sheet rows (header first) into an employee table.
// Blank rows are skipped; record IDs are assigned in sheet order.
func ParseEmployeeRows(year domain.Year, sheet string, rows [][]string) (domain.EmployeeTable, error) {
	table := domain.EmployeeTable{Year: year}
	if len(rows) == 0 {
		return table, fmt.Errorf("sheet %s: %w %q", sheet, ErrMissingColumn, domain.ColDepartment)
	}

	h := newHeader(rows[0])
	if err := h.require(sheet, domain.RequiredEmployeeColumns...); err != nil {
		return table, err
	}
	table.Columns = h.columns

	known := make(map[string]bool, len(domain.RequiredEmployeeColumns))
	for _, c := range domain.RequiredEmployeeColumns {
		known[c] = true
	}

	for n, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNum := n + 2 // 1-based, after header

		salary, err := parseNumber(cellAt(row, h.index[domain.ColBaseSalary]))
		if err != nil {
			return table, fmt.Errorf("sheet %s row %d: %w: bad %s %q", sheet, rowNum, ErrInvalidRow, domain.ColBaseSalary, cellAt(row, h.index[domain.ColBaseSalary]))
		}
		compa, err := parseNumber(cellAt(row, h.index[domain.ColCompaRatio]))
		if err != nil {
			return table, fmt.Errorf("sheet %s row %d: %w: bad %s %q", sheet, rowNum, ErrInvalidRow, domain.ColCompaRatio, cellAt(row, h.index[domain.ColCompaRatio]))
		}

		rec := domain.EmployeeRecord{
			ID:         len(table.Records),
			Department: cellAt(row, h.index[domain.ColDepartment]),
			JobLevel:   cellAt(row, h.index[domain.ColJobLevel]),
			Gender:     cellAt(row, h.index[domain.ColGender]),
			Ethnicity:  cellAt(row, h.index[domain.ColEthnicity]),
			BaseSalary: salary,
			CompaRatio: compa,
		}
		if err := rec.Validate(); err != nil {
			return table, fmt.Errorf("sheet %s row %d: %w: %w", sheet, rowNum, ErrInvalidRow, err)
		}
		for i, col := range h.columns {
			if known[col] || col == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[col] = cellAt(row, i)
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

// ParsePayBandRows converts raw sheet rows (header first) into a pay-band table.
// Only Job_Level is required; missing bound columns leave the bound at zero.
func ParsePayBandRows(year domain.Year, sheet string, rows [][]string) (domain.PayBandTable, error) {
	table := domain.PayBandTable{Year: year}
	if len(rows) == 0 {
		return table, fmt.Errorf("sheet %s: %w %q", sheet, ErrMissingColumn, domain.ColJobLevel)
	}

	h := newHeader(rows[0])
	if err := h.require(sheet, domain.ColJobLevel); err != nil {
		return table, err
	}
	table.Columns = h.columns

	used := map[int]bool{h.index[domain.ColJobLevel]: true}
	bound := func(row []string, rowNum int, aliases []string) (float64, error) {
		i, ok := h.lookup(aliases...)
		if !ok {
			return 0, nil
		}
		used[i] = true
		raw := cellAt(row, i)
		if raw == "" {
			return 0, nil
		}
		v, err := parseNumber(raw)
		if err != nil {
			return 0, fmt.Errorf("sheet %s row %d: %w: bad %s %q", sheet, rowNum, ErrInvalidRow, h.columns[i], raw)
		}
		return v, nil
	}

	for n, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNum := n + 2
		band := domain.PayBand{JobLevel: cellAt(row, h.index[domain.ColJobLevel])}
		var err error
		if band.Min, err = bound(row, rowNum, bandMinHeaders); err != nil {
			return table, err
		}
		if band.Midpoint, err = bound(row, rowNum, bandMidHeaders); err != nil {
			return table, err
		}
		if band.Max, err = bound(row, rowNum, bandMaxHeaders); err != nil {
			return table, err
		}
		if err := band.Validate(); err != nil {
			return table, fmt.Errorf("sheet %s row %d: %w: %w", sheet, rowNum, ErrInvalidRow, err)
		}
		for i, col := range h.columns {
			if used[i] || col == "" {
				continue
			}
			if band.Extra == nil {
				band.Extra = make(map[string]string)
			}
			band.Extra[col] = cellAt(row, i)
		}
		table.Bands = append(table.Bands, band)
	}
	return table, nil
}
