package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/locvowork/compensation_dashboard/internal/cache"
	"github.com/locvowork/compensation_dashboard/internal/compare"
	"github.com/locvowork/compensation_dashboard/internal/config"
	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/export"
	"github.com/locvowork/compensation_dashboard/internal/filter"
	"github.com/locvowork/compensation_dashboard/internal/logger"
	"github.com/locvowork/compensation_dashboard/internal/metrics"
)

// DataSource is the read side of the dataset store.
type DataSource interface {
	domain.EmployeeSource
	Available() bool
	LoadError() error
}

// Recorder receives service-level measurements. *observability.Metrics implements it.
type Recorder interface {
	ObserveView(records int)
	Export(format string)
}

// Query selects a year and a predicate. Compare opts into the year-over-year comparison.
type Query struct {
	Year      domain.Year
	Predicate domain.FilterPredicate
	Compare   bool
}

// SummaryText is the summary formatted for display.
type SummaryText struct {
	Count            string `json:"count"`
	MeanCompaRatio   string `json:"mean_compa_ratio"`
	BelowMidpointPct string `json:"below_midpoint_pct"`
	AboveMaxCount    string `json:"above_max_count"`
	MeanBaseSalary   string `json:"mean_base_salary"`
}

// ComparisonText is the comparison formatted for display.
type ComparisonText struct {
	MeanCompaRatio string `json:"mean_compa_ratio_delta"`
	MeanBaseSalary string `json:"mean_base_salary_delta"`
	Count          string `json:"count_delta"`
}

// Comparison bundles the deltas with their display form.
type Comparison struct {
	*domain.ComparisonDelta
	Text ComparisonText `json:"text"`
}

// Dashboard is everything the dashboard page shows for one query.
type Dashboard struct {
	Year        domain.Year             `json:"year"`
	Filters     domain.FilterPredicate  `json:"filters"`
	Summary     domain.AggregateSummary `json:"summary"`
	SummaryText SummaryText             `json:"summary_text"`
	Charts      domain.ChartSeries      `json:"charts"`
	Insights    domain.KeyInsights      `json:"insights"`
	Comparison  *Comparison             `json:"comparison,omitempty"`
}

// ExportFile is a built download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
	Count       int
}

// DashboardService runs the filter, aggregate, compare and export pipeline per request.
type DashboardService struct {
	source         DataSource
	summaries      *cache.SummaryCache
	recorder       Recorder
	intervalPolicy string
}

// NewDashboardService wires the pipeline. summaries and recorder may be nil.
func NewDashboardService(source DataSource, summaries *cache.SummaryCache, recorder Recorder, intervalPolicy string) *DashboardService {
	if intervalPolicy == "" {
		intervalPolicy = config.IntervalPolicyEmpty
	}
	return &DashboardService{
		source:         source,
		summaries:      summaries,
		recorder:       recorder,
		intervalPolicy: intervalPolicy,
	}
}

// Available reports whether the dataset was loaded.
func (s *DashboardService) Available() bool {
	return s.source.Available()
}

// view validates q against the interval policy and filters the selected year.
func (s *DashboardService) view(ctx context.Context, q Query) (domain.FilteredView, error) {
	if !q.Year.Valid() {
		return domain.FilteredView{}, fmt.Errorf("%w: %d", domain.ErrUnknownYear, int(q.Year))
	}
	if s.intervalPolicy == config.IntervalPolicyReject {
		if err := filter.Validate(q.Predicate); err != nil {
			return domain.FilteredView{}, err
		}
	}
	table, err := s.source.Employees(q.Year)
	if err != nil {
		return domain.FilteredView{}, err
	}

	view := filter.Apply(table, q.Predicate)
	if s.recorder != nil {
		s.recorder.ObserveView(view.Len())
	}
	logger.DebugLog(ctx, "Filtered %s: %d of %d records", q.Year, view.Len(), table.Len())
	return view, nil
}

// Options returns the filter choices for year.
func (s *DashboardService) Options(ctx context.Context, year domain.Year) (domain.FilterOptions, error) {
	table, err := s.source.Employees(year)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return filter.Options(table), nil
}

// Dashboard computes the summary, charts and insights of a query, plus the comparison
// against the other year when requested.
func (s *DashboardService) Dashboard(ctx context.Context, q Query) (*Dashboard, error) {
	view, err := s.view(ctx, q)
	if err != nil {
		return nil, err
	}

	summary := s.summaries.GetOrCompute(cache.SummaryKey(q.Year, q.Predicate), func() domain.AggregateSummary {
		return metrics.Summarize(view)
	})

	d := &Dashboard{
		Year:        q.Year,
		Filters:     q.Predicate,
		Summary:     summary,
		SummaryText: formatSummary(summary),
		Charts:      metrics.Charts(view),
		Insights:    metrics.Insights(summary),
	}

	if q.Compare {
		delta, err := compare.Compare(q.Year, q.Year.Other(), q.Predicate, s.source)
		if err != nil {
			return nil, fmt.Errorf("compare years: %w", err)
		}
		d.Comparison = &Comparison{
			ComparisonDelta: &delta,
			Text: ComparisonText{
				MeanCompaRatio: metrics.FormatRatio(delta.MeanCompaRatio),
				MeanBaseSalary: metrics.FormatCurrency(delta.MeanBaseSalary),
				Count:          fmt.Sprintf("%d", delta.Count),
			},
		}
	}
	return d, nil
}

// Employees returns the filtered rows with their IDs, for table display and selection.
func (s *DashboardService) Employees(ctx context.Context, q Query) (domain.FilteredView, error) {
	return s.view(ctx, q)
}

// PayBands returns the reference bands of year.
func (s *DashboardService) PayBands(ctx context.Context, year domain.Year) (domain.PayBandTable, error) {
	if !year.Valid() {
		return domain.PayBandTable{}, fmt.Errorf("%w: %d", domain.ErrUnknownYear, int(year))
	}
	return s.source.PayBands(year)
}

// Export builds a download of the selected rows of the view, or of the whole view when
// nothing in it is selected.
func (s *DashboardService) Export(ctx context.Context, q Query, selected []int, format string) (*ExportFile, error) {
	view, err := s.view(ctx, q)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = export.FormatXLSX
	}

	rows := export.SelectRows(view, selected)
	data, contentType, err := export.Render(format, view.Columns, rows)
	if err != nil {
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.Export(format)
	}
	logger.InfoLog(ctx, "Exported %d of %d %s records as %s", len(rows), view.Len(), q.Year, format)

	return &ExportFile{
		Name:        export.FileName(q.Year, len(rows), format),
		ContentType: contentType,
		Data:        data,
		Count:       len(rows),
	}, nil
}

func formatSummary(s domain.AggregateSummary) SummaryText {
	return SummaryText{
		Count:            fmt.Sprintf("%d", s.Count),
		MeanCompaRatio:   metrics.FormatRatio(s.MeanCompaRatio),
		BelowMidpointPct: metrics.FormatPercent(s.BelowMidpointPct),
		AboveMaxCount:    fmt.Sprintf("%d", s.AboveMaxCount),
		MeanBaseSalary:   metrics.FormatCurrency(s.MeanBaseSalary),
	}
}

// IsClientError reports whether err stems from bad caller input.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrUnknownYear) ||
		errors.Is(err, filter.ErrInvertedInterval) ||
		errors.Is(err, filter.ErrNonFiniteInterval) ||
		errors.Is(err, export.ErrUnsupportedFormat)
}
