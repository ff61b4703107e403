package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/locvowork/compensation_dashboard/internal/database"
	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/repository/builder"
	"github.com/locvowork/compensation_dashboard/pkg/dataflow"
)

// compensationRepository reads the dataset from the Postgres tables written by the seeder.
type compensationRepository struct {
	db      *sql.DB
	retries int
	backoff time.Duration
}

// NewCompensationRepository creates a dataset loader backed by Postgres.
func NewCompensationRepository(db *sql.DB) domain.DatasetLoader {
	return &compensationRepository{db: db, retries: 3, backoff: 200 * time.Millisecond}
}

func (r *compensationRepository) Describe() string {
	return "postgres " + database.EmployeesTable
}

// Load reads both years. Each year is fetched with retries so a database that is still
// starting does not abort service startup.
func (r *compensationRepository) Load(ctx context.Context) (*domain.Dataset, error) {
	ds := &domain.Dataset{
		Employees: make(map[domain.Year]domain.EmployeeTable, len(domain.Years)),
		PayBands:  make(map[domain.Year]domain.PayBandTable, len(domain.Years)),
	}

	err := dataflow.ForEach(ctx, dataflow.From(ctx, domain.Years...), func(y domain.Year) error {
		employees, err := r.employees(ctx, y)
		if err != nil {
			return fmt.Errorf("load %s: %w", domain.EmployeeSheet(y), err)
		}
		bands, err := r.payBands(ctx, y)
		if err != nil {
			return fmt.Errorf("load %s: %w", domain.PayBandSheet(y), err)
		}
		ds.Employees[y] = employees
		ds.PayBands[y] = bands
		return nil
	}, dataflow.WithRetry(r.retries, dataflow.ExponentialBackoff(r.backoff)))
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func employeesQuery(year domain.Year) (string, []interface{}) {
	return builder.NewSQLBuilder().
		Select("row_index", "department", "job_level", "gender", "ethnicity", "base_salary", "compa_ratio", "extra").
		From(database.EmployeesTable).
		Where("year = ?", int(year)).
		OrderBy("row_index ASC").
		Build()
}

func payBandsQuery(year domain.Year) (string, []interface{}) {
	return builder.NewSQLBuilder().
		Select("job_level", "min_salary", "midpoint", "max_salary", "extra").
		From(database.PayBandsTable).
		Where("year = ?", int(year)).
		OrderBy("row_index ASC").
		Build()
}

func columnsQuery(sheet string) (string, []interface{}) {
	return builder.NewSQLBuilder().
		Select("columns").
		From(database.SheetColumnsTable).
		Where("sheet = ?", sheet).
		Build()
}

func (r *compensationRepository) employees(ctx context.Context, year domain.Year) (domain.EmployeeTable, error) {
	table := domain.EmployeeTable{Year: year}
	columns, err := r.columns(ctx, domain.EmployeeSheet(year), domain.RequiredEmployeeColumns)
	if err != nil {
		return table, err
	}
	table.Columns = columns

	query, args := employeesQuery(year)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return table, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rowIndex int
			rec      domain.EmployeeRecord
			extra    []byte
		)
		if err := rows.Scan(&rowIndex, &rec.Department, &rec.JobLevel, &rec.Gender, &rec.Ethnicity, &rec.BaseSalary, &rec.CompaRatio, &extra); err != nil {
			return table, err
		}
		if rec, err = checkEmployee(rowIndex, rec, extra); err != nil {
			return table, err
		}
		// IDs are positions, independent of gaps in row_index
		rec.ID = len(table.Records)
		table.Records = append(table.Records, rec)
	}
	return table, rows.Err()
}

func (r *compensationRepository) payBands(ctx context.Context, year domain.Year) (domain.PayBandTable, error) {
	table := domain.PayBandTable{Year: year}
	columns, err := r.columns(ctx, domain.PayBandSheet(year),
		[]string{domain.ColJobLevel, domain.ColBandMin, domain.ColBandMidpoint, domain.ColBandMax})
	if err != nil {
		return table, err
	}
	table.Columns = columns

	query, args := payBandsQuery(year)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return table, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			band  domain.PayBand
			extra []byte
		)
		if err := rows.Scan(&band.JobLevel, &band.Min, &band.Midpoint, &band.Max, &extra); err != nil {
			return table, err
		}
		if band, err = checkPayBand(band, extra); err != nil {
			return table, err
		}
		table.Bands = append(table.Bands, band)
	}
	return table, rows.Err()
}

// columns returns the stored column order for a sheet, or fallback when none was saved.
func (r *compensationRepository) columns(ctx context.Context, sheet string, fallback []string) ([]string, error) {
	query, args := columnsQuery(sheet)
	var columns []string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(pq.Array(&columns))
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return nil, err
	}
	return columns, nil
}

// checkEmployee attaches the extra columns of a stored row and applies the same
// amount checks as the workbook loader.
func checkEmployee(rowIndex int, rec domain.EmployeeRecord, extra []byte) (domain.EmployeeRecord, error) {
	var err error
	if rec.Extra, err = decodeExtra(extra); err != nil {
		return rec, fmt.Errorf("row %d: %w", rowIndex, err)
	}
	if err := rec.Validate(); err != nil {
		return rec, fmt.Errorf("row %d: %w", rowIndex, err)
	}
	return rec, nil
}

func checkPayBand(band domain.PayBand, extra []byte) (domain.PayBand, error) {
	var err error
	if band.Extra, err = decodeExtra(extra); err != nil {
		return band, err
	}
	if err := band.Validate(); err != nil {
		return band, fmt.Errorf("band %s: %w", band.JobLevel, err)
	}
	return band, nil
}

func decodeExtra(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var extra map[string]string
	if err := json.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("decode extra columns: %w", err)
	}
	if len(extra) == 0 {
		return nil, nil
	}
	return extra, nil
}
