package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medfinder/internal/config"
	"medfinder/internal/domain"
)

const migrationsDir = "../../migrations"

func readMigration(t *testing.T, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(migrationsDir, name))
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_pharmacies_table.sql",
		"00002_create_medicines_table.sql",
		"00003_protect_medicine_pharmacy_reference.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		sqlFileCount++

		content := readMigration(t, file.Name())
		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(content, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

// One pharmacy per owner must be guaranteed by the store, not only by a pre-check
func TestPharmaciesTableHasOwnerUniqueConstraint(t *testing.T) {
	content := readMigration(t, "00001_create_pharmacies_table.sql")

	if !strings.Contains(content, "CONSTRAINT pharmacies_owner_id_key UNIQUE (owner_id)") {
		t.Error("Pharmacies table missing unique constraint on owner_id")
	}
	for _, column := range []string{
		"id UUID PRIMARY KEY",
		"owner_id UUID NOT NULL",
		"pharmacy_name VARCHAR",
		"contact_number VARCHAR(10)",
		"city VARCHAR",
		"pincode VARCHAR(6)",
	} {
		if !strings.Contains(content, column) {
			t.Errorf("Pharmacies table missing column definition: %s", column)
		}
	}
	if !strings.Contains(content, "DROP TABLE IF EXISTS pharmacies") {
		t.Error("Pharmacies migration does not drop the table in down section")
	}
}

func TestMedicinesTableConstraints(t *testing.T) {
	content := readMigration(t, "00002_create_medicines_table.sql")

	required := []string{
		"FOREIGN KEY (pharmacy_id) REFERENCES pharmacies(id) ON DELETE CASCADE",
		"price DOUBLE PRECISION NOT NULL",
		"CHECK (price >= 0)",
		"CHECK (quantity_available >= 0)",
		"last_updated TIMESTAMP",
		"DROP TABLE IF EXISTS medicines",
	}
	for _, fragment := range required {
		if !strings.Contains(content, fragment) {
			t.Errorf("Medicines migration missing: %s", fragment)
		}
	}

	for _, category := range domain.Categories {
		if !strings.Contains(content, "'"+string(category)+"'") {
			t.Errorf("Medicines category constraint missing value: %s", category)
		}
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     "5433",
		User:     "med",
		Password: "p@ss",
		Database: "medfinder",
		Schema:   "public",
		SSLMode:  "disable",
	})

	for _, fragment := range []string{
		"postgres://med:p%40ss@db:5433/medfinder",
		"sslmode=disable",
		"search_path=public",
	} {
		if !strings.Contains(dsn, fragment) {
			t.Errorf("DSN %q missing %q", dsn, fragment)
		}
	}
}
