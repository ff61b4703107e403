package metrics

import (
	"fmt"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

// Insights renders the headline observations of a summary. An empty summary has none.
func Insights(s domain.AggregateSummary) domain.KeyInsights {
	out := domain.KeyInsights{Compensation: []string{}, Demographics: []string{}}
	if s.Count == 0 {
		return out
	}

	if s.HasHighestPaid {
		out.Compensation = append(out.Compensation, "Highest paid department: "+s.HighestPaidDepartment)
	}
	out.Compensation = append(out.Compensation,
		"Average compa ratio: "+FormatRatio(s.MeanCompaRatio),
		fmt.Sprintf("Employees below %.1f compa ratio: %d", LowRatioCutoff, s.BelowThresholdCount),
		fmt.Sprintf("Employees above %.1f compa ratio: %d", AboveMaxRatio, s.AboveMaxCount),
	)

	for _, g := range s.GenderBreakdown {
		out.Demographics = append(out.Demographics,
			fmt.Sprintf("%s: %d employees, avg salary: %s", g.Gender, g.Count, FormatCurrency(domain.Some(g.MeanBaseSalary))))
	}
	return out
}
