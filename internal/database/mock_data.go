package database

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

var (
	departments = []string{"Engineering", "Finance", "Human Resources", "Marketing", "Operations", "Sales"}
	genders     = []string{"Female", "Male", "Non-binary"}
	ethnicities = []string{"Asian", "Black", "Hispanic", "White", "Two or More", "Other"}

	// jobLevels and their 2024 band midpoints.
	jobLevels = []string{"L1", "L2", "L3", "L4", "L5", "L6"}
	midpoints = []float64{55000, 70000, 90000, 115000, 145000, 185000}
)

// ColEmployeeID is the identifier column the generator adds ahead of the required columns.
const ColEmployeeID = "Employee_ID"

// Year-over-year band movement applied to 2025.
const bandIncrease2025 = 0.03

// SeedPreset names a dataset size.
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
	PresetXLarge SeedPreset = "xlarge"
)

// GetPresetConfig returns the number of employees per year for a preset.
func GetPresetConfig(preset SeedPreset) int {
	switch preset {
	case PresetSmall:
		return 50
	case PresetMedium:
		return 500
	case PresetLarge:
		return 2000
	case PresetXLarge:
		return 10000
	default:
		return 500
	}
}

// GenerateDataset builds a mock two-year dataset. The same seed always yields the same data.
func GenerateDataset(numEmployees int, seed int64) *domain.Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &domain.Dataset{
		Employees: make(map[domain.Year]domain.EmployeeTable, len(domain.Years)),
		PayBands:  make(map[domain.Year]domain.PayBandTable, len(domain.Years)),
	}

	for _, y := range domain.Years {
		factor := 1.0
		if y == domain.Year2025 {
			factor += bandIncrease2025
		}
		bands := generatePayBands(y, factor)
		ds.PayBands[y] = bands
		ds.Employees[y] = generateEmployees(rng, y, bands, numEmployees)
	}
	return ds
}

func generatePayBands(year domain.Year, factor float64) domain.PayBandTable {
	table := domain.PayBandTable{
		Year:    year,
		Columns: []string{domain.ColJobLevel, domain.ColBandMin, domain.ColBandMidpoint, domain.ColBandMax},
	}
	for i, level := range jobLevels {
		mid := round(midpoints[i]*factor, 0)
		table.Bands = append(table.Bands, domain.PayBand{
			JobLevel: level,
			Min:      round(mid*0.8, 0),
			Midpoint: mid,
			Max:      round(mid*1.2, 0),
		})
	}
	return table
}

func generateEmployees(rng *rand.Rand, year domain.Year, bands domain.PayBandTable, n int) domain.EmployeeTable {
	columns := append([]string{ColEmployeeID}, domain.RequiredEmployeeColumns...)
	table := domain.EmployeeTable{Year: year, Columns: columns}

	for i := 0; i < n; i++ {
		level := rng.Intn(len(jobLevels))
		// compa ratios cluster around 1.0 with a tail on both sides of the band
		compa := clamp(rng.NormFloat64()*0.12+1.0, 0.7, 1.35)
		compa = round(compa, 2)
		salary := round(bands.Bands[level].Midpoint*compa, 0)

		table.Records = append(table.Records, domain.EmployeeRecord{
			ID:         i,
			Department: departments[rng.Intn(len(departments))],
			JobLevel:   jobLevels[level],
			Gender:     genders[weightedIndex(rng, []int{48, 48, 4})],
			Ethnicity:  ethnicities[rng.Intn(len(ethnicities))],
			BaseSalary: salary,
			CompaRatio: compa,
			Extra:      map[string]string{ColEmployeeID: fmt.Sprintf("E%s-%05d", year, i+1)},
		})
	}
	return table
}

func weightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	pick := rng.Intn(total)
	for i, w := range weights {
		if pick < w {
			return i
		}
		pick -= w
	}
	return len(weights) - 1
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
