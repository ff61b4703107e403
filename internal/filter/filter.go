// Package filter selects employee records matching a FilterPredicate.
package filter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

var (
	// ErrInvertedInterval marks a numeric range whose minimum exceeds its maximum.
	ErrInvertedInterval = errors.New("inverted interval")
	// ErrNonFiniteInterval marks a numeric range with a NaN or infinite bound.
	ErrNonFiniteInterval = errors.New("non-finite interval")
)

// matcher is a predicate compiled for a single pass over a table.
type matcher struct {
	departments map[string]bool
	jobLevels   map[string]bool
	genders     map[string]bool
	ethnicities map[string]bool
	salary      *domain.Range
	compa       *domain.Range
}

func compile(p domain.FilterPredicate) matcher {
	return matcher{
		departments: toSet(p.Departments),
		jobLevels:   toSet(p.JobLevels),
		genders:     toSet(p.Genders),
		ethnicities: toSet(p.Ethnicities),
		salary:      p.BaseSalary,
		compa:       p.CompaRatio,
	}
}

// toSet returns nil for an empty selection, which matches every value.
func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func member(set map[string]bool, v string) bool {
	return set == nil || set[v]
}

func (m matcher) match(r domain.EmployeeRecord) bool {
	if !member(m.departments, r.Department) ||
		!member(m.jobLevels, r.JobLevel) ||
		!member(m.genders, r.Gender) ||
		!member(m.ethnicities, r.Ethnicity) {
		return false
	}
	if m.salary != nil && !m.salary.Contains(r.BaseSalary) {
		return false
	}
	if m.compa != nil && !m.compa.Contains(r.CompaRatio) {
		return false
	}
	return true
}

// Matches reports whether a single record satisfies every constraint of p.
func Matches(r domain.EmployeeRecord, p domain.FilterPredicate) bool {
	return compile(p).match(r)
}

// Apply returns the records of table satisfying p, in table order.
// An inverted interval matches nothing, so the view is empty.
func Apply(table domain.EmployeeTable, p domain.FilterPredicate) domain.FilteredView {
	view := domain.FilteredView{Year: table.Year, Columns: table.Columns}
	m := compile(p)

	view.Records = make([]domain.EmployeeRecord, 0, len(table.Records))
	for _, r := range table.Records {
		if m.match(r) {
			view.Records = append(view.Records, r)
		}
	}
	return view
}

// Validate reports non-finite bounds and interval ordering problems. Apply does not call it.
func Validate(p domain.FilterPredicate) error {
	if err := validateRange(domain.ColBaseSalary, p.BaseSalary); err != nil {
		return err
	}
	return validateRange(domain.ColCompaRatio, p.CompaRatio)
}

func validateRange(column string, r *domain.Range) error {
	switch {
	case r == nil:
		return nil
	case !r.Finite():
		return fmt.Errorf("%w: %s [%v, %v]", ErrNonFiniteInterval, column, r.Min, r.Max)
	case r.Inverted():
		return fmt.Errorf("%w: %s min %v > max %v", ErrInvertedInterval, column, r.Min, r.Max)
	}
	return nil
}

// Options lists the values a caller can filter on: sorted distinct categories and
// the observed bounds of each numeric field. Bounds are nil for an empty table.
func Options(table domain.EmployeeTable) domain.FilterOptions {
	opts := domain.FilterOptions{Year: table.Year}
	departments := map[string]bool{}
	jobLevels := map[string]bool{}
	genders := map[string]bool{}
	ethnicities := map[string]bool{}

	for i, r := range table.Records {
		departments[r.Department] = true
		jobLevels[r.JobLevel] = true
		genders[r.Gender] = true
		ethnicities[r.Ethnicity] = true

		if i == 0 {
			opts.BaseSalary = &domain.Range{Min: r.BaseSalary, Max: r.BaseSalary}
			opts.CompaRatio = &domain.Range{Min: r.CompaRatio, Max: r.CompaRatio}
			continue
		}
		widen(opts.BaseSalary, r.BaseSalary)
		widen(opts.CompaRatio, r.CompaRatio)
	}

	opts.Departments = sortedKeys(departments)
	opts.JobLevels = sortedKeys(jobLevels)
	opts.Genders = sortedKeys(genders)
	opts.Ethnicities = sortedKeys(ethnicities)
	return opts
}

func widen(r *domain.Range, v float64) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
