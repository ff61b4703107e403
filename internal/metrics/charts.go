package metrics

import (
	"math"
	"sort"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

// HistogramBins is the number of compa-ratio histogram buckets.
const HistogramBins = 20

// Charts computes the series behind the dashboard charts.
func Charts(view domain.FilteredView) domain.ChartSeries {
	return domain.ChartSeries{
		CompaByJobLevel:    CompaBoxStats(view),
		SalaryByDepartment: DepartmentAverages(view),
		CompaHistogram:     CompaHistogram(view, HistogramBins),
	}
}

// CompaBoxStats returns compa-ratio box statistics per (job level, gender), sorted by
// job level then gender. Points are kept in view order.
func CompaBoxStats(view domain.FilteredView) []domain.BoxStats {
	type key struct{ level, gender string }
	groups := map[key][]float64{}
	var keys []key
	for _, r := range view.Records {
		k := key{r.JobLevel, r.Gender}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r.CompaRatio)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].level != keys[j].level {
			return keys[i].level < keys[j].level
		}
		return keys[i].gender < keys[j].gender
	})

	out := make([]domain.BoxStats, 0, len(keys))
	for _, k := range keys {
		points := groups[k]
		sorted := append([]float64(nil), points...)
		sort.Float64s(sorted)
		out = append(out, domain.BoxStats{
			JobLevel: k.level,
			Gender:   k.gender,
			Count:    len(points),
			Min:      sorted[0],
			Q1:       quantile(sorted, 0.25),
			Median:   quantile(sorted, 0.5),
			Q3:       quantile(sorted, 0.75),
			Max:      sorted[len(sorted)-1],
			Points:   points,
		})
	}
	return out
}

// quantile interpolates linearly between closest ranks of sorted data.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// CompaHistogram splits [min, max] of the view's compa ratios into equal-width bins.
// The last bin is closed on the right. A view whose ratios are all equal yields one bin.
func CompaHistogram(view domain.FilteredView, bins int) []domain.HistogramBin {
	if view.Len() == 0 || bins < 1 {
		return []domain.HistogramBin{}
	}
	lo, hi := view.Records[0].CompaRatio, view.Records[0].CompaRatio
	for _, r := range view.Records[1:] {
		lo = math.Min(lo, r.CompaRatio)
		hi = math.Max(hi, r.CompaRatio)
	}
	if lo == hi {
		return []domain.HistogramBin{{Lower: lo, Upper: hi, Count: view.Len()}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]domain.HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, r := range view.Records {
		i := int((r.CompaRatio - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}
