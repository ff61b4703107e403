package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

// SummaryKey builds the memo key for a (year, predicate) pair. Predicates that select the
// same records regardless of value order or duplicates produce the same key.
func SummaryKey(year domain.Year, p domain.FilterPredicate) string {
	return makeKey(
		"summary",
		year.String(),
		canonicalSet(p.Departments),
		canonicalSet(p.JobLevels),
		canonicalSet(p.Genders),
		canonicalSet(p.Ethnicities),
		canonicalRange(p.BaseSalary),
		canonicalRange(p.CompaRatio),
	)
}

func canonicalSet(values []string) string {
	if len(values) == 0 {
		return "*"
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	out := make([]string, 0, len(sorted))
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			continue
		}
		out = append(out, strconv.Quote(v))
	}
	return strings.Join(out, ",")
}

func canonicalRange(r *domain.Range) string {
	if r == nil {
		return "*"
	}
	return strconv.FormatFloat(r.Min, 'g', -1, 64) + ".." + strconv.FormatFloat(r.Max, 'g', -1, 64)
}

func makeKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	h := sha1.Sum([]byte(joined))
	return hex.EncodeToString(h[:])
}
