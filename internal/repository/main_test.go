package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"medfinder/internal/database"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

var testDB *sqlx.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	ctx := context.Background()
	dbContainer, err := postgres.Run(
		ctx,
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}

	testDB, err = database.Open(ctx, connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if err := database.RunMigrations(testDB.DB, "../../migrations", zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Printf("postgres container unavailable, skipping integration tests: %v", err)
		testDB = nil
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not teardown postgres container: %v", err)
		}
	}
	os.Exit(code)
}

// requireDB skips the test without a database and empties the tables
func requireDB(t *testing.T) *sqlx.DB {
	t.Helper()

	if testDB == nil {
		t.Skip("postgres container not available")
	}
	if _, err := testDB.Exec(`TRUNCATE pharmacies CASCADE`); err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}
	return testDB
}
