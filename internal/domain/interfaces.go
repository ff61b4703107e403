package domain

import (
	"context"
	"errors"
)

var (
	// ErrUnknownYear is returned for a year that is not part of the dataset.
	ErrUnknownYear = errors.New("unknown year")
	// ErrNoData means the dataset could not be loaded and every data operation is a no-op.
	ErrNoData = errors.New("no data available")
)

// Dataset is the raw result of a load: two years of employee and pay-band tables.
type Dataset struct {
	Employees map[Year]EmployeeTable
	PayBands  map[Year]PayBandTable
}

// EmployeeSource gives per-year access to the loaded tables.
type EmployeeSource interface {
	Employees(year Year) (EmployeeTable, error)
	PayBands(year Year) (PayBandTable, error)
}

// DatasetLoader reads the four tables from their backing source.
type DatasetLoader interface {
	Load(ctx context.Context) (*Dataset, error)
	Describe() string
}

// EmployeeSheet is the workbook sheet name holding a year's employees.
func EmployeeSheet(y Year) string { return "Employees_" + y.String() }

// PayBandSheet is the workbook sheet name holding a year's pay bands.
func PayBandSheet(y Year) string { return "PayBand_" + y.String() }
