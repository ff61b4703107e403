package compare

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/compensation_dashboard/internal/database"
	"github.com/locvowork/compensation_dashboard/internal/domain"
)

type tables map[domain.Year]domain.EmployeeTable

func (t tables) Employees(y domain.Year) (domain.EmployeeTable, error) {
	table, ok := t[y]
	if !ok {
		return domain.EmployeeTable{}, domain.ErrUnknownYear
	}
	return table, nil
}

func (t tables) PayBands(y domain.Year) (domain.PayBandTable, error) {
	return domain.PayBandTable{Year: y}, nil
}

func fixture() tables {
	return tables{
		domain.Year2024: {Year: domain.Year2024, Records: []domain.EmployeeRecord{
			{ID: 0, Department: "A", Gender: "F", BaseSalary: 50000, CompaRatio: 0.9},
			{ID: 1, Department: "A", Gender: "M", BaseSalary: 70000, CompaRatio: 1.1},
			{ID: 2, Department: "B", Gender: "F", BaseSalary: 60000, CompaRatio: 1.3},
		}},
		domain.Year2025: {Year: domain.Year2025, Records: []domain.EmployeeRecord{
			{ID: 0, Department: "A", Gender: "F", BaseSalary: 52000, CompaRatio: 0.95},
			{ID: 1, Department: "B", Gender: "M", BaseSalary: 90000, CompaRatio: 1.25},
		}},
	}
}

func TestCompare(t *testing.T) {
	d, err := Compare(domain.Year2024, domain.Year2025, domain.FilterPredicate{Departments: []string{"A"}}, fixture())
	require.NoError(t, err)

	assert.Equal(t, domain.Year2024, d.PrimaryYear)
	assert.Equal(t, domain.Year2025, d.OtherYear)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, 1, d.OtherCount)
	require.True(t, d.MeanCompaRatio.Valid)
	assert.InDelta(t, 0.05, d.MeanCompaRatio.Value, 1e-9)
	assert.InDelta(t, 8000, d.MeanBaseSalary.Value, 1e-9)
}

func TestCompareAppliesNumericRanges(t *testing.T) {
	p := domain.FilterPredicate{BaseSalary: &domain.Range{Min: 0, Max: 60000}}
	d, err := Compare(domain.Year2025, domain.Year2024, p, fixture())
	require.NoError(t, err)

	// 2025 keeps only the 52000 record, 2024 keeps 50000 and 60000
	assert.Equal(t, 1, d.Primary.Count)
	assert.Equal(t, 2, d.Other.Count)
	assert.Equal(t, -1, d.Count)
	assert.InDelta(t, -3000, d.MeanBaseSalary.Value, 1e-9)
}

func TestCompareEmptySide(t *testing.T) {
	d, err := Compare(domain.Year2024, domain.Year2025, domain.FilterPredicate{Genders: []string{"X"}}, fixture())
	require.NoError(t, err)
	assert.Equal(t, 0, d.Count)
	assert.False(t, d.MeanCompaRatio.Valid)
	assert.False(t, d.MeanBaseSalary.Valid)

	d, err = Compare(domain.Year2024, domain.Year2025, domain.FilterPredicate{BaseSalary: &domain.Range{Min: 0, Max: 55000}, Genders: []string{"M"}}, fixture())
	require.NoError(t, err)
	assert.False(t, d.MeanCompaRatio.Valid)
}

func TestCompareAntisymmetric(t *testing.T) {
	ds := database.GenerateDataset(200, 9)
	source := tables(ds.Employees)

	predicates := []domain.FilterPredicate{
		{},
		{Departments: []string{"Engineering", "Sales"}},
		{JobLevels: []string{"L3"}, CompaRatio: &domain.Range{Min: 0.9, Max: 1.2}},
		{Genders: []string{"Nobody"}},
	}
	for i, p := range predicates {
		fwd, err := Compare(domain.Year2024, domain.Year2025, p, source)
		require.NoError(t, err)
		back, err := Compare(domain.Year2025, domain.Year2024, p, source)
		require.NoError(t, err)

		assert.Equal(t, fwd.Count, -back.Count, "predicate %d", i)
		assert.Equal(t, fwd.MeanCompaRatio.Valid, back.MeanCompaRatio.Valid, "predicate %d", i)
		assert.Equal(t, fwd.MeanCompaRatio, back.MeanCompaRatio.Neg(), "predicate %d", i)
		assert.Equal(t, fwd.MeanBaseSalary, back.MeanBaseSalary.Neg(), "predicate %d", i)
	}
}

func TestCompareUnknownYear(t *testing.T) {
	source := fixture()
	delete(source, domain.Year2025)
	_, err := Compare(domain.Year2024, domain.Year2025, domain.FilterPredicate{}, source)
	require.True(t, errors.Is(err, domain.ErrUnknownYear))
}
