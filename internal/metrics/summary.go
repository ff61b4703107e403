// Package metrics computes the aggregate statistics shown for a filtered view.
// Every function accepts an empty view and reports undefined values as domain.None.
package metrics

import (
	"sort"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

// Compa-ratio thresholds.
const (
	MidpointRatio  = 1.0
	AboveMaxRatio  = 1.2
	LowRatioCutoff = 0.8
)

// Summarize computes the scalar statistics and group-by averages of a view.
func Summarize(view domain.FilteredView) domain.AggregateSummary {
	s := domain.AggregateSummary{
		Count:              view.Len(),
		DepartmentAverages: []domain.DepartmentAverage{},
		GenderBreakdown:    []domain.GenderBreakdown{},
	}
	if s.Count == 0 {
		return s
	}

	var (
		compaSum, salarySum float64
		belowMidpoint       int
	)
	for _, r := range view.Records {
		compaSum += r.CompaRatio
		salarySum += r.BaseSalary
		if r.CompaRatio < MidpointRatio {
			belowMidpoint++
		}
		if r.CompaRatio > AboveMaxRatio {
			s.AboveMaxCount++
		}
		if r.CompaRatio < LowRatioCutoff {
			s.BelowThresholdCount++
		}
	}
	n := float64(s.Count)
	s.MeanCompaRatio = domain.Some(compaSum / n)
	s.MeanBaseSalary = domain.Some(salarySum / n)
	s.BelowMidpointPct = domain.Some(float64(belowMidpoint) / n * 100)

	s.DepartmentAverages = DepartmentAverages(view)
	s.GenderBreakdown = GenderBreakdown(view)
	s.HighestPaidDepartment, s.HasHighestPaid = HighestPaidDepartment(s.DepartmentAverages)
	return s
}

// group accumulates a salary mean in first-seen key order.
type group struct {
	keys  []string
	sums  map[string]float64
	count map[string]int
}

func newGroup() *group {
	return &group{sums: map[string]float64{}, count: map[string]int{}}
}

func (g *group) add(key string, v float64) {
	if _, ok := g.count[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.sums[key] += v
	g.count[key]++
}

func (g *group) mean(key string) float64 {
	return g.sums[key] / float64(g.count[key])
}

// DepartmentAverages returns the mean base salary per department in ascending department order.
func DepartmentAverages(view domain.FilteredView) []domain.DepartmentAverage {
	g := newGroup()
	for _, r := range view.Records {
		g.add(r.Department, r.BaseSalary)
	}
	sort.Strings(g.keys)

	out := make([]domain.DepartmentAverage, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, domain.DepartmentAverage{Department: k, MeanBaseSalary: g.mean(k), Count: g.count[k]})
	}
	return out
}

// GenderBreakdown returns headcount and mean base salary per gender, in the order genders
// first appear in the view.
func GenderBreakdown(view domain.FilteredView) []domain.GenderBreakdown {
	g := newGroup()
	for _, r := range view.Records {
		g.add(r.Gender, r.BaseSalary)
	}

	out := make([]domain.GenderBreakdown, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, domain.GenderBreakdown{Gender: k, Count: g.count[k], MeanBaseSalary: g.mean(k)})
	}
	return out
}

// HighestPaidDepartment picks the department with the largest mean salary. Ties go to the
// earliest entry, which for DepartmentAverages output is the alphabetically first department.
func HighestPaidDepartment(avgs []domain.DepartmentAverage) (string, bool) {
	if len(avgs) == 0 {
		return "", false
	}
	best := avgs[0]
	for _, a := range avgs[1:] {
		if a.MeanBaseSalary > best.MeanBaseSalary {
			best = a
		}
	}
	return best.Department, true
}
