package models

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Maintenance modes

GENERATE_MODELS=true migrates the schema and writes typed query helpers for every
model into ./generated (gorm.io/gen).

GENERATE_COLUMN_REPORT=true only prints the columns present in the database that no
model field maps to, for example:

	=== COLUMN MISMATCH REPORT ===
	--- Table: projects_details ---
	Found 1 columns not accounted for in model:
	  - legacy_rank

	=== SUMMARY ===
	Total mismatched columns across all tables: 1
*/

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&Student{},
		&Category{},
		&Submission{},
	}
}

func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
		Logger:                 newLogger,
	})

	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}

	GenerateColumnMismatchReport(db)

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Student{}, Category{}, Submission{})
	g.Execute()

	return nil
}

// ColumnMismatches returns, per table, the database columns no model field maps to.
// Tables that do not exist yet are skipped.
func ColumnMismatches(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)

	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("error parsing model %T: %w", model, err)
		}
		tableName := stmt.Schema.Table

		if !db.Migrator().HasTable(tableName) {
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(tableName)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
		}

		modelFields := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			modelFields[name] = true
		}

		var mismatches []string
		for _, col := range columnTypes {
			if !modelFields[col.Name()] {
				mismatches = append(mismatches, col.Name())
			}
		}
		sort.Strings(mismatches)
		report[tableName] = mismatches
	}

	return report, nil
}

// GenerateColumnMismatchReport prints the result of ColumnMismatches to stdout.
func GenerateColumnMismatchReport(db *gorm.DB) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	report, err := ColumnMismatches(db)
	if err != nil {
		fmt.Printf("Error building report: %v\n", err)
		return
	}

	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	total := 0
	for _, table := range tables {
		fmt.Printf("\n--- Table: %s ---\n", table)
		mismatches := report[table]
		if len(mismatches) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Printf("  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
}
