package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/logger"
	"github.com/locvowork/compensation_dashboard/pkg/dataflow"
	"github.com/locvowork/compensation_dashboard/pkg/simpleexcel"
)

// ExcelLoader reads the dataset from a workbook on disk.
type ExcelLoader struct {
	Path string
}

func NewExcelLoader(path string) *ExcelLoader {
	return &ExcelLoader{Path: path}
}

func (l *ExcelLoader) Describe() string {
	return "workbook " + l.Path
}

// Load opens the workbook and parses its four sheets.
func (l *ExcelLoader) Load(ctx context.Context) (*domain.Dataset, error) {
	if _, err := os.Stat(l.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, l.Path)
		}
		return nil, fmt.Errorf("stat %s: %w", l.Path, err)
	}

	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", l.Path, err)
	}
	defer f.Close()

	return LoadWorkbook(ctx, f)
}

// sheetJob is one sheet to parse.
type sheetJob struct {
	year     domain.Year
	name     string
	payBands bool
	rows     [][]string
}

// parsedSheet is the outcome of a sheetJob.
type parsedSheet struct {
	job       sheetJob
	employees domain.EmployeeTable
	bands     domain.PayBandTable
}

// LoadWorkbook reads the four expected sheets of an open workbook. Sheets are parsed concurrently.
func LoadWorkbook(ctx context.Context, f *excelize.File) (*domain.Dataset, error) {
	var jobs []sheetJob
	for _, y := range domain.Years {
		jobs = append(jobs, sheetJob{year: y, name: domain.PayBandSheet(y), payBands: true})
		jobs = append(jobs, sheetJob{year: y, name: domain.EmployeeSheet(y)})
	}
	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = job.name
	}
	// excelize is not safe for concurrent reads of one file, so rows are pulled up front.
	sheets, err := simpleexcel.ReadSheets(f, names...)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		jobs[i].rows = sheets[jobs[i].name]
	}

	var (
		mu       sync.Mutex
		parseErr error
	)
	onError := func(err error) bool {
		mu.Lock()
		defer mu.Unlock()
		if parseErr == nil {
			parseErr = err
		}
		return true
	}

	parsed := dataflow.Map(ctx, dataflow.From(ctx, jobs...), func(job sheetJob) (parsedSheet, error) {
		out := parsedSheet{job: job}
		var err error
		if job.payBands {
			out.bands, err = ParsePayBandRows(job.year, job.name, job.rows)
		} else {
			out.employees, err = ParseEmployeeRows(job.year, job.name, job.rows)
		}
		return out, err
	}, dataflow.WithWorkers(len(jobs)), dataflow.WithErrorHandler(onError))

	ds := &domain.Dataset{
		Employees: make(map[domain.Year]domain.EmployeeTable, len(domain.Years)),
		PayBands:  make(map[domain.Year]domain.PayBandTable, len(domain.Years)),
	}
	err = dataflow.ForEach(ctx, parsed, func(p parsedSheet) error {
		if p.job.payBands {
			ds.PayBands[p.job.year] = p.bands
		} else {
			ds.Employees[p.job.year] = p.employees
		}
		logger.DebugLog(ctx, "Parsed sheet %s (%d rows)", p.job.name, len(p.job.rows))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return ds, nil
}
