package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/locvowork/compensation_dashboard/internal/database"
	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/pkg/simpleexcel"
)

func TestExcelLoaderRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := database.GenerateDataset(30, 11)
	path := filepath.Join(t.TempDir(), "comp.xlsx")
	require.NoError(t, database.WriteWorkbook(ctx, want, path))

	got, err := NewExcelLoader(path).Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestExcelLoaderMissingFile(t *testing.T) {
	_, err := NewExcelLoader(filepath.Join(t.TempDir(), "nope.xlsx")).Load(context.Background())
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadWorkbookMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "PayBand_2024"))

	_, err := LoadWorkbook(context.Background(), f)
	require.ErrorIs(t, err, simpleexcel.ErrSheetNotFound)
}

func TestLoadWorkbookBadRow(t *testing.T) {
	f, err := database.NewWorkbookExporter(database.GenerateDataset(3, 1)).BuildExcel()
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f.SetCellValue("Employees_2025", "G3", "n/a"))

	_, err = LoadWorkbook(context.Background(), f)
	require.True(t, errors.Is(err, ErrInvalidRow), "got %v", err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "comp.xlsx")
		require.NoError(t, database.WriteWorkbook(ctx, database.GenerateDataset(4, 2), path))

		store, err := Open(ctx, NewExcelLoader(path))
		require.NoError(t, err)
		require.True(t, store.Available())

		table, err := store.Employees(domain.Year2025)
		require.NoError(t, err)
		require.Equal(t, 4, table.Len())
	})

	t.Run("MissingFileIsNotFatal", func(t *testing.T) {
		store, err := Open(ctx, NewExcelLoader(filepath.Join(t.TempDir(), "nope.xlsx")))
		require.NoError(t, err)
		require.False(t, store.Available())
		require.ErrorIs(t, store.LoadError(), ErrFileNotFound)

		_, err = store.Employees(domain.Year2024)
		require.ErrorIs(t, err, domain.ErrNoData)
		_, err = store.PayBands(domain.Year2024)
		require.ErrorIs(t, err, domain.ErrNoData)
	})

	t.Run("MissingSheetsAreFatal", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		path := filepath.Join(t.TempDir(), "blank.xlsx")
		require.NoError(t, f.SaveAs(path))

		_, err := Open(ctx, NewExcelLoader(path))
		require.Error(t, err)
	})
}
