// Package compare evaluates a predicate against two years and reports the differences.
package compare

import (
	"fmt"

	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/filter"
	"github.com/locvowork/compensation_dashboard/internal/metrics"
)

// Compare applies p to both years and returns primary minus other for the mean compa ratio,
// the mean base salary and the record count. A mean delta is undefined when either side is empty.
func Compare(primary, other domain.Year, p domain.FilterPredicate, source domain.EmployeeSource) (domain.ComparisonDelta, error) {
	primaryTable, err := source.Employees(primary)
	if err != nil {
		return domain.ComparisonDelta{}, fmt.Errorf("primary year %s: %w", primary, err)
	}
	otherTable, err := source.Employees(other)
	if err != nil {
		return domain.ComparisonDelta{}, fmt.Errorf("comparison year %s: %w", other, err)
	}

	return Delta(
		primary, metrics.Summarize(filter.Apply(primaryTable, p)),
		other, metrics.Summarize(filter.Apply(otherTable, p)),
	), nil
}

// Delta builds the comparison from two already computed summaries.
func Delta(primaryYear domain.Year, primary domain.AggregateSummary, otherYear domain.Year, other domain.AggregateSummary) domain.ComparisonDelta {
	return domain.ComparisonDelta{
		PrimaryYear:    primaryYear,
		OtherYear:      otherYear,
		Primary:        primary,
		Other:          other,
		MeanCompaRatio: primary.MeanCompaRatio.Sub(other.MeanCompaRatio),
		MeanBaseSalary: primary.MeanBaseSalary.Sub(other.MeanBaseSalary),
		Count:          primary.Count - other.Count,
		OtherCount:     other.Count,
	}
}
