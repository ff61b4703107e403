package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/locvowork/compensation_dashboard/internal/bootstrap"
	"github.com/locvowork/compensation_dashboard/internal/config"
	"github.com/locvowork/compensation_dashboard/internal/database"
	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/logger"
)

func main() {
	// Define flags
	action := flag.String("action", "workbook", "Action to perform: workbook, postgres, clear")
	preset := flag.String("preset", "medium", "Data preset: small, medium, large, xlarge")
	employees := flag.Int("employees", 0, "Number of employees per year (overrides preset)")
	seed := flag.Int64("seed", 42, "Random seed; the same seed always yields the same data")
	out := flag.String("out", "", "Workbook path (defaults to DATA_FILE_PATH)")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("🚀 Compensation Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	if err := config.LoadEnvConfig(); err != nil {
		log.Fatal(err)
	}
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL)

	switch *action {
	case "workbook":
		path := *out
		if path == "" {
			path = config.DefaultEnvConfig.DATA_FILE_PATH
		}
		data := generate(preset, employees, seed)
		if err := database.WriteWorkbook(ctx, data, path); err != nil {
			log.Fatalf("❌ Writing workbook failed: %v", err)
		}
		fmt.Printf("📄 Wrote %s\n", path)

	case "postgres":
		db := connect(ctx)
		defer db.Close()
		data := generate(preset, employees, seed)
		if err := database.NewDataSeeder(db).SeedDataset(ctx, data); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}

	case "clear":
		db := connect(ctx)
		defer db.Close()
		performClear(ctx, database.NewDataSeeder(db))

	default:
		fmt.Printf("❌ Unknown action: %s\n", *action)
		flag.PrintDefaults()
		return
	}

	fmt.Println("\n✅ Done!")
}

func generate(preset *string, employees *int, seed *int64) *domain.Dataset {
	n := *employees
	if n > 0 {
		fmt.Printf("📊 Using custom configuration: %d employees per year\n", n)
	} else {
		n = database.GetPresetConfig(database.SeedPreset(*preset))
		fmt.Printf("📊 Using preset: %s (%d employees per year)\n", *preset, n)
	}
	return database.GenerateDataset(n, *seed)
}

func connect(ctx context.Context) *sql.DB {
	fmt.Println("📡 Connecting to database...")
	db, err := database.NewPostgresDB(ctx, bootstrap.DatabaseConfig())
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	return db
}

func performClear(ctx context.Context, seeder *database.DataSeeder) {
	fmt.Println("⚠️  This will delete all seeded data!")
	fmt.Print("Continue? (yes/no): ")

	var response string
	fmt.Scanln(&response)

	if response == "yes" {
		if err := seeder.ClearData(ctx); err != nil {
			log.Fatalf("❌ Clear failed: %v", err)
		}
	} else {
		fmt.Println("Cancelled.")
	}
}
