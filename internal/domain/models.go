package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ==================== DATASET ====================

// Year identifies one of the yearly snapshots in the workbook.
type Year int

const (
	Year2024 Year = 2024
	Year2025 Year = 2025
)

// Years lists the supported years in display order.
var Years = []Year{Year2024, Year2025}

// Valid reports whether y is one of the loaded years.
func (y Year) Valid() bool {
	return y == Year2024 || y == Year2025
}

// Other returns the alternate year used for year-over-year comparison.
func (y Year) Other() Year {
	if y == Year2024 {
		return Year2025
	}
	return Year2024
}

func (y Year) String() string {
	return strconv.Itoa(int(y))
}

// ParseYear parses a query value such as "2024".
func ParseYear(s string) (Year, error) {
	n, err := strconv.Atoi(s)
	if err != nil || !Year(n).Valid() {
		return 0, ErrUnknownYear
	}
	return Year(n), nil
}

// Column names used by the workbook and by exports.
const (
	ColDepartment = "Department"
	ColJobLevel   = "Job_Level"
	ColGender     = "Gender"
	ColEthnicity  = "Ethnicity"
	ColBaseSalary = "Base_Salary"
	ColCompaRatio = "Compa_Ratio"
)

// RequiredEmployeeColumns must be present in every employee sheet.
var RequiredEmployeeColumns = []string{
	ColDepartment, ColJobLevel, ColGender, ColEthnicity, ColBaseSalary, ColCompaRatio,
}

// EmployeeRecord is one row of an employee table.
// ID is the row position within its year's table.
type EmployeeRecord struct {
	ID         int               `json:"id"`
	Department string            `json:"department"`
	JobLevel   string            `json:"job_level"`
	Gender     string            `json:"gender"`
	Ethnicity  string            `json:"ethnicity"`
	BaseSalary float64           `json:"base_salary"`
	CompaRatio float64           `json:"compa_ratio"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Cell returns the value of the named column, typed the way it was loaded.
// Columns outside the known schema come back as their raw cell text.
func (r EmployeeRecord) Cell(column string) interface{} {
	switch column {
	case ColDepartment:
		return r.Department
	case ColJobLevel:
		return r.JobLevel
	case ColGender:
		return r.Gender
	case ColEthnicity:
		return r.Ethnicity
	case ColBaseSalary:
		return r.BaseSalary
	case ColCompaRatio:
		return r.CompaRatio
	}
	if r.Extra == nil {
		return ""
	}
	return r.Extra[column]
}

// ErrInvalidRecord marks a record or band whose amounts are out of range.
var ErrInvalidRecord = errors.New("invalid record")

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks that BaseSalary is finite and non-negative and CompaRatio finite and positive.
func (r EmployeeRecord) Validate() error {
	if !finite(r.BaseSalary) || r.BaseSalary < 0 {
		return fmt.Errorf("%w: %s %v", ErrInvalidRecord, ColBaseSalary, r.BaseSalary)
	}
	if !finite(r.CompaRatio) || r.CompaRatio <= 0 {
		return fmt.Errorf("%w: %s %v", ErrInvalidRecord, ColCompaRatio, r.CompaRatio)
	}
	return nil
}

// EmployeeTable holds one year of employee records sharing a single column schema.
type EmployeeTable struct {
	Year    Year             `json:"year"`
	Columns []string         `json:"columns"`
	Records []EmployeeRecord `json:"records"`
}

// Len returns the number of records.
func (t EmployeeTable) Len() int {
	return len(t.Records)
}

// PayBand is a reference salary range for a job level.
type PayBand struct {
	JobLevel string            `json:"job_level"`
	Min      float64           `json:"min"`
	Midpoint float64           `json:"midpoint"`
	Max      float64           `json:"max"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Pay-band bound columns as written by the mock generator.
const (
	ColBandMin      = "Min_Salary"
	ColBandMidpoint = "Midpoint"
	ColBandMax      = "Max_Salary"
)

// Cell returns the value of the named column.
func (b PayBand) Cell(column string) interface{} {
	switch column {
	case ColJobLevel:
		return b.JobLevel
	case ColBandMin:
		return b.Min
	case ColBandMidpoint:
		return b.Midpoint
	case ColBandMax:
		return b.Max
	}
	if b.Extra == nil {
		return ""
	}
	return b.Extra[column]
}

// Validate checks that every bound is finite.
func (b PayBand) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{{ColBandMin, b.Min}, {ColBandMidpoint, b.Midpoint}, {ColBandMax, b.Max}} {
		if !finite(c.v) {
			return fmt.Errorf("%w: %s %v", ErrInvalidRecord, c.name, c.v)
		}
	}
	return nil
}

// PayBandTable holds the pay bands for one year.
type PayBandTable struct {
	Year    Year      `json:"year"`
	Columns []string  `json:"columns"`
	Bands   []PayBand `json:"bands"`
}

// ==================== FILTERING ====================

// Range is a closed numeric interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the interval, inclusive on both ends.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Finite reports whether both bounds are real numbers.
func (r Range) Finite() bool {
	return finite(r.Min) && finite(r.Max)
}

// Inverted reports whether Min > Max. No value can satisfy an inverted range.
func (r Range) Inverted() bool {
	return r.Min > r.Max
}

// FilterPredicate is a conjunction of independent constraints.
// An empty categorical set matches every value; a nil range is unbounded.
type FilterPredicate struct {
	Departments []string `json:"departments,omitempty"`
	JobLevels   []string `json:"job_levels,omitempty"`
	Genders     []string `json:"genders,omitempty"`
	Ethnicities []string `json:"ethnicities,omitempty"`
	BaseSalary  *Range   `json:"base_salary,omitempty"`
	CompaRatio  *Range   `json:"compa_ratio,omitempty"`
}

// FilteredView is the order-preserving subsequence of a table matching a predicate.
type FilteredView struct {
	Year    Year             `json:"year"`
	Columns []string         `json:"columns"`
	Records []EmployeeRecord `json:"records"`
}

// Len returns the number of records in the view.
func (v FilteredView) Len() int {
	return len(v.Records)
}

// Table returns the view as a table so it can be filtered again.
func (v FilteredView) Table() EmployeeTable {
	return EmployeeTable{Year: v.Year, Columns: v.Columns, Records: v.Records}
}

// FilterOptions describes the choices available for each filter field of a table.
type FilterOptions struct {
	Year        Year     `json:"year"`
	Departments []string `json:"departments"`
	JobLevels   []string `json:"job_levels"`
	Genders     []string `json:"genders"`
	Ethnicities []string `json:"ethnicities"`
	BaseSalary  *Range   `json:"base_salary"`
	CompaRatio  *Range   `json:"compa_ratio"`
}

// ==================== AGGREGATES ====================

// Optional is a float aggregate that may be undefined, e.g. a mean over zero records.
// An undefined value marshals to JSON null.
type Optional struct {
	Value float64
	Valid bool
}

// Some wraps a defined value.
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// None is the undefined aggregate.
func None() Optional {
	return Optional{}
}

// Sub returns o - other, undefined if either side is undefined.
func (o Optional) Sub(other Optional) Optional {
	if !o.Valid || !other.Valid {
		return None()
	}
	return Some(o.Value - other.Value)
}

// Neg returns -o.
func (o Optional) Neg() Optional {
	if !o.Valid {
		return o
	}
	return Some(-o.Value)
}

func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// DepartmentAverage is the mean base salary of one department.
type DepartmentAverage struct {
	Department     string  `json:"department"`
	MeanBaseSalary float64 `json:"mean_base_salary"`
	Count          int     `json:"count"`
}

// GenderBreakdown is the headcount and mean base salary of one gender.
type GenderBreakdown struct {
	Gender         string  `json:"gender"`
	Count          int     `json:"count"`
	MeanBaseSalary float64 `json:"mean_base_salary"`
}

// AggregateSummary bundles the scalar statistics of a filtered view.
type AggregateSummary struct {
	Count                 int                 `json:"count"`
	MeanCompaRatio        Optional            `json:"mean_compa_ratio"`
	BelowMidpointPct      Optional            `json:"below_midpoint_pct"`
	AboveMaxCount         int                 `json:"above_max_count"`
	BelowThresholdCount   int                 `json:"below_threshold_count"`
	MeanBaseSalary        Optional            `json:"mean_base_salary"`
	DepartmentAverages    []DepartmentAverage `json:"department_averages"`
	GenderBreakdown       []GenderBreakdown   `json:"gender_breakdown"`
	HighestPaidDepartment string              `json:"highest_paid_department,omitempty"`
	HasHighestPaid        bool                `json:"has_highest_paid"`
}

// ComparisonDelta holds primary-minus-other differences between two years.
type ComparisonDelta struct {
	PrimaryYear    Year             `json:"primary_year"`
	OtherYear      Year             `json:"other_year"`
	Primary        AggregateSummary `json:"-"`
	Other          AggregateSummary `json:"-"`
	MeanCompaRatio Optional         `json:"mean_compa_ratio_delta"`
	MeanBaseSalary Optional         `json:"mean_base_salary_delta"`
	Count          int              `json:"count_delta"`
	OtherCount     int              `json:"other_count"`
}

// ==================== CHARTS ====================

// BoxStats summarizes a distribution for a box plot.
type BoxStats struct {
	JobLevel string    `json:"job_level"`
	Gender   string    `json:"gender"`
	Count    int       `json:"count"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Points   []float64 `json:"points"`
}

// HistogramBin is one bucket of a histogram; the last bin is closed on the right.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// ChartSeries is the data behind the dashboard charts.
type ChartSeries struct {
	CompaByJobLevel    []BoxStats          `json:"compa_by_job_level"`
	SalaryByDepartment []DepartmentAverage `json:"salary_by_department"`
	CompaHistogram     []HistogramBin      `json:"compa_histogram"`
}

// KeyInsights are the headline observations about a view.
type KeyInsights struct {
	Compensation []string `json:"compensation"`
	Demographics []string `json:"demographics"`
}
