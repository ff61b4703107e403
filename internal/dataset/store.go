package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/logger"
)

// ErrFileNotFound is returned when the source workbook does not exist.
var ErrFileNotFound = errors.New("dataset file not found")

// Store holds the four loaded tables. It is read-only after construction and
// safe to share across requests.
type Store struct {
	employees map[domain.Year]domain.EmployeeTable
	payBands  map[domain.Year]domain.PayBandTable
	loadErr   error
	source    string
}

// NewStore validates a loaded dataset and wraps it.
func NewStore(ds *domain.Dataset, source string) (*Store, error) {
	if ds == nil {
		return nil, fmt.Errorf("nil dataset")
	}
	for _, y := range domain.Years {
		if _, ok := ds.Employees[y]; !ok {
			return nil, fmt.Errorf("dataset has no %s table", domain.EmployeeSheet(y))
		}
		if _, ok := ds.PayBands[y]; !ok {
			return nil, fmt.Errorf("dataset has no %s table", domain.PayBandSheet(y))
		}
	}
	return &Store{employees: ds.Employees, payBands: ds.PayBands, source: source}, nil
}

// Unavailable returns a store that answers every lookup with domain.ErrNoData.
func Unavailable(cause error, source string) *Store {
	return &Store{loadErr: cause, source: source}
}

// Open loads the dataset once. A missing source file is not fatal: the returned store is
// Unavailable and the cause is reported through LoadError.
func Open(ctx context.Context, loader domain.DatasetLoader) (*Store, error) {
	ds, err := loader.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			logger.WarnLog(ctx, "Dataset unavailable (%s): %v", loader.Describe(), err)
			return Unavailable(err, loader.Describe()), nil
		}
		return nil, fmt.Errorf("load dataset from %s: %w", loader.Describe(), err)
	}

	store, err := NewStore(ds, loader.Describe())
	if err != nil {
		return nil, err
	}
	for _, y := range domain.Years {
		logger.InfoLog(ctx, "Loaded %s: %d employees, %d pay bands", y, store.employees[y].Len(), len(store.payBands[y].Bands))
	}
	return store, nil
}

// Available reports whether data was loaded.
func (s *Store) Available() bool {
	return s.loadErr == nil
}

// LoadError returns why the store is unavailable, or nil.
func (s *Store) LoadError() error {
	return s.loadErr
}

// Source describes where the data came from.
func (s *Store) Source() string {
	return s.source
}

// Employees returns the employee table for year.
func (s *Store) Employees(year domain.Year) (domain.EmployeeTable, error) {
	if s.loadErr != nil {
		return domain.EmployeeTable{}, fmt.Errorf("%w: %v", domain.ErrNoData, s.loadErr)
	}
	t, ok := s.employees[year]
	if !ok {
		return domain.EmployeeTable{}, fmt.Errorf("%w: %d", domain.ErrUnknownYear, int(year))
	}
	return t, nil
}

// PayBands returns the pay-band table for year.
func (s *Store) PayBands(year domain.Year) (domain.PayBandTable, error) {
	if s.loadErr != nil {
		return domain.PayBandTable{}, fmt.Errorf("%w: %v", domain.ErrNoData, s.loadErr)
	}
	t, ok := s.payBands[year]
	if !ok {
		return domain.PayBandTable{}, fmt.Errorf("%w: %d", domain.ErrUnknownYear, int(year))
	}
	return t, nil
}

// MissingDataMessage is the instruction shown while no dataset is loaded.
func MissingDataMessage(path string) string {
	sheets := make([]string, 0, 4)
	for _, y := range domain.Years {
		sheets = append(sheets, domain.EmployeeSheet(y))
	}
	for _, y := range domain.Years {
		sheets = append(sheets, domain.PayBandSheet(y))
	}
	return fmt.Sprintf("Please add your Excel file to continue. Expected file: %s. Expected sheets: %s.",
		path, strings.Join(sheets, ", "))
}
