package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/compensation_dashboard/internal/database"
	"github.com/locvowork/compensation_dashboard/internal/domain"
)

func scenarioTable() domain.EmployeeTable {
	return domain.EmployeeTable{
		Year:    domain.Year2024,
		Columns: domain.RequiredEmployeeColumns,
		Records: []domain.EmployeeRecord{
			{ID: 0, Department: "A", JobLevel: "L1", Gender: "Female", Ethnicity: "Asian", BaseSalary: 50000, CompaRatio: 0.9},
			{ID: 1, Department: "A", JobLevel: "L2", Gender: "Male", Ethnicity: "White", BaseSalary: 70000, CompaRatio: 1.1},
			{ID: 2, Department: "B", JobLevel: "L1", Gender: "Female", Ethnicity: "Black", BaseSalary: 60000, CompaRatio: 1.3},
		},
	}
}

func ids(v domain.FilteredView) []int {
	out := make([]int, len(v.Records))
	for i, r := range v.Records {
		out[i] = r.ID
	}
	return out
}

func TestApply(t *testing.T) {
	table := scenarioTable()

	tests := []struct {
		name string
		p    domain.FilterPredicate
		want []int
	}{
		{"EmptyPredicateMatchesAll", domain.FilterPredicate{}, []int{0, 1, 2}},
		{"Department", domain.FilterPredicate{Departments: []string{"A"}}, []int{0, 1}},
		{"EmptySetIsNoConstraint", domain.FilterPredicate{Departments: []string{}, Genders: []string{"Female"}}, []int{0, 2}},
		{"AndAcrossFields", domain.FilterPredicate{Departments: []string{"A"}, Genders: []string{"Female"}}, []int{0}},
		{"OrWithinField", domain.FilterPredicate{Ethnicities: []string{"Black", "Asian"}}, []int{0, 2}},
		{"CaseSensitive", domain.FilterPredicate{Departments: []string{"a"}}, []int{}},
		{"SalaryInclusiveBounds", domain.FilterPredicate{BaseSalary: &domain.Range{Min: 50000, Max: 60000}}, []int{0, 2}},
		{"CompaInclusiveBounds", domain.FilterPredicate{CompaRatio: &domain.Range{Min: 1.1, Max: 1.3}}, []int{1, 2}},
		{"PointInterval", domain.FilterPredicate{BaseSalary: &domain.Range{Min: 70000, Max: 70000}}, []int{1}},
		{"InvertedIntervalIsEmpty", domain.FilterPredicate{CompaRatio: &domain.Range{Min: 1.2, Max: 0.8}}, []int{}},
		{"NoMatch", domain.FilterPredicate{JobLevels: []string{"L9"}}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Apply(table, tt.p)
			require.Equal(t, tt.want, ids(view))
			require.Equal(t, table.Year, view.Year)
			require.Equal(t, table.Columns, view.Columns)
		})
	}
}

func TestApplyProperties(t *testing.T) {
	table := database.GenerateDataset(300, 5).Employees[domain.Year2025]
	opts := Options(table)

	predicates := []domain.FilterPredicate{
		{},
		{Departments: opts.Departments[:2]},
		{JobLevels: []string{opts.JobLevels[0]}, Genders: []string{opts.Genders[0]}},
		{BaseSalary: &domain.Range{Min: 60000, Max: 120000}},
		{CompaRatio: &domain.Range{Min: 0.9, Max: 1.1}, Ethnicities: opts.Ethnicities[1:3]},
		{CompaRatio: &domain.Range{Min: 1.1, Max: 0.9}},
	}

	for i, p := range predicates {
		view := Apply(table, p)

		// ordered subsequence of the source and every record satisfies p
		last := -1
		for _, r := range view.Records {
			assert.Greater(t, r.ID, last, "predicate %d", i)
			last = r.ID
			assert.Equal(t, table.Records[r.ID], r, "predicate %d", i)
			assert.True(t, Matches(r, p), "predicate %d", i)
		}
		// records left out fail p
		kept := map[int]bool{}
		for _, r := range view.Records {
			kept[r.ID] = true
		}
		for _, r := range table.Records {
			if !kept[r.ID] {
				assert.False(t, Matches(r, p), "predicate %d record %d", i, r.ID)
			}
		}

		// idempotent
		assert.Equal(t, view, Apply(view.Table(), p), "predicate %d", i)
	}
}

func TestApplyDoesNotAliasSource(t *testing.T) {
	table := scenarioTable()
	view := Apply(table, domain.FilterPredicate{})
	view.Records[0].Department = "Z"
	require.Equal(t, "A", table.Records[0].Department)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(domain.FilterPredicate{}))
	require.NoError(t, Validate(domain.FilterPredicate{BaseSalary: &domain.Range{Min: 1, Max: 1}}))

	err := Validate(domain.FilterPredicate{BaseSalary: &domain.Range{Min: 2, Max: 1}})
	require.ErrorIs(t, err, ErrInvertedInterval)
	require.Contains(t, err.Error(), domain.ColBaseSalary)

	err = Validate(domain.FilterPredicate{CompaRatio: &domain.Range{Min: 1.2, Max: 0.8}})
	require.ErrorIs(t, err, ErrInvertedInterval)
	require.Contains(t, err.Error(), domain.ColCompaRatio)

	for _, r := range []domain.Range{{Min: math.NaN(), Max: 1}, {Min: 0, Max: math.Inf(1)}} {
		r := r
		err = Validate(domain.FilterPredicate{CompaRatio: &r})
		require.ErrorIs(t, err, ErrNonFiniteInterval)
	}
}

func TestOptions(t *testing.T) {
	opts := Options(scenarioTable())
	require.Equal(t, []string{"A", "B"}, opts.Departments)
	require.Equal(t, []string{"L1", "L2"}, opts.JobLevels)
	require.Equal(t, []string{"Female", "Male"}, opts.Genders)
	require.Equal(t, []string{"Asian", "Black", "White"}, opts.Ethnicities)
	require.Equal(t, &domain.Range{Min: 50000, Max: 70000}, opts.BaseSalary)
	require.Equal(t, &domain.Range{Min: 0.9, Max: 1.3}, opts.CompaRatio)

	empty := Options(domain.EmployeeTable{Year: domain.Year2025})
	require.Empty(t, empty.Departments)
	require.Nil(t, empty.BaseSalary)
	require.Nil(t, empty.CompaRatio)
}
