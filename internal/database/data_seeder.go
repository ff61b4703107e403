package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/logger"
	"github.com/locvowork/compensation_dashboard/internal/repository/builder"
)

// DataSeeder loads a dataset into the Postgres tables read by the postgres dataset source.
type DataSeeder struct {
	db *sql.DB
}

func NewDataSeeder(db *sql.DB) *DataSeeder {
	return &DataSeeder{db: db}
}

// SeedDataset replaces the stored dataset with ds in a single transaction.
func (ds *DataSeeder) SeedDataset(ctx context.Context, data *domain.Dataset) error {
	start := time.Now()

	if err := EnsureSchema(ctx, ds.db); err != nil {
		return err
	}

	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}

	total := 0
	for _, y := range domain.Years {
		bands := data.PayBands[y]
		if err := insertPayBands(ctx, tx, bands); err != nil {
			return fmt.Errorf("insert %s: %w", domain.PayBandSheet(y), err)
		}
		if err := saveColumns(ctx, tx, domain.PayBandSheet(y), bands.Columns); err != nil {
			return err
		}

		employees := data.Employees[y]
		if err := insertEmployees(ctx, tx, employees); err != nil {
			return fmt.Errorf("insert %s: %w", domain.EmployeeSheet(y), err)
		}
		if err := saveColumns(ctx, tx, domain.EmployeeSheet(y), employees.Columns); err != nil {
			return err
		}
		total += employees.Len()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.InfoLog(ctx, "Seeded %d employees across %d years in %v", total, len(domain.Years), time.Since(start))
	return nil
}

func insertEmployees(ctx context.Context, tx *sql.Tx, table domain.EmployeeTable) error {
	if table.Len() == 0 {
		return nil
	}
	query, _ := builder.NewSQLBuilder().
		Insert(EmployeesTable, "year", "row_index", "department", "job_level", "gender", "ethnicity", "base_salary", "compa_ratio", "extra").
		Values(nil, nil, nil, nil, nil, nil, nil, nil, nil).
		Build()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range table.Records {
		extra, err := encodeExtra(r.Extra)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, int(table.Year), r.ID, r.Department, r.JobLevel, r.Gender, r.Ethnicity, r.BaseSalary, r.CompaRatio, extra); err != nil {
			return err
		}
	}
	return nil
}

func insertPayBands(ctx context.Context, tx *sql.Tx, table domain.PayBandTable) error {
	if len(table.Bands) == 0 {
		return nil
	}
	query, _ := builder.NewSQLBuilder().
		Insert(PayBandsTable, "year", "row_index", "job_level", "min_salary", "midpoint", "max_salary", "extra").
		Values(nil, nil, nil, nil, nil, nil, nil).
		Build()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, b := range table.Bands {
		extra, err := encodeExtra(b.Extra)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, int(table.Year), i, b.JobLevel, b.Min, b.Midpoint, b.Max, extra); err != nil {
			return err
		}
	}
	return nil
}

func saveColumns(ctx context.Context, tx *sql.Tx, sheet string, columns []string) error {
	query, args := builder.NewSQLBuilder().
		Insert(SheetColumnsTable, "sheet", "columns").
		Values(sheet, pq.Array(columns)).
		Suffix("ON CONFLICT (sheet) DO UPDATE SET columns = EXCLUDED.columns").
		Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save columns for %s: %w", sheet, err)
	}
	return nil
}

// ClearData removes every seeded row.
func (ds *DataSeeder) ClearData(ctx context.Context) error {
	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := clearTables(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.InfoLog(ctx, "Cleared compensation tables")
	return nil
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{EmployeesTable, PayBandsTable, SheetColumnsTable} {
		query, args := builder.NewSQLBuilder().Delete(table).Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func encodeExtra(extra map[string]string) ([]byte, error) {
	if len(extra) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(extra)
}
