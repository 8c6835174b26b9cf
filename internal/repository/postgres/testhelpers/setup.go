package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB initializes a test database connection.
// Tests are skipped when TEST_DB_HOST is not set.
func SetupTestDB(t *testing.T) *TestDB {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping database tests")
	}

	port := getEnv("TEST_DB_PORT", "5433")
	user := getEnv("TEST_DB_USER", "postgres")
	password := getEnv("TEST_DB_PASSWORD", "postgres")
	dbname := getEnv("TEST_DB_NAME", "place_search_test")
	sslmode := getEnv("TEST_DB_SSLMODE", "disable")

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	// Retry connection with exponential backoff to wait for DB recovery
	var db *sqlx.DB
	var err error
	maxRetries := 10
	retryDelay := 500 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2 // exponential backoff
		}
	}

	if err != nil {
		t.Fatalf("Failed to connect to test database after %d attempts: %v", maxRetries, err)
	}

	tdb := &TestDB{
		DB:     db,
		Logger: zap.NewNop(),
	}
	tdb.migrate(t)

	return tdb
}

// migrate creates the tables repositories expect
func (tdb *TestDB) migrate(t *testing.T) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS search_cache (
			id          BIGSERIAL PRIMARY KEY,
			cache_key   VARCHAR(64) NOT NULL UNIQUE,
			data        JSONB       NOT NULL,
			category    VARCHAR(64) NOT NULL DEFAULT '',
			location    VARCHAR(64) NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			expires_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rate_limits (
			id           BIGSERIAL PRIMARY KEY,
			client_id    VARCHAR(128) NOT NULL,
			endpoint     VARCHAR(64)  NOT NULL,
			request_time TIMESTAMPTZ  NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range schema {
		if _, err := tdb.DB.Exec(stmt); err != nil {
			t.Fatalf("Failed to create test schema: %v", err)
		}
	}
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup cleans up test data
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	tables := []string{
		"search_cache",
		"rate_limits",
	}

	for _, table := range tables {
		_, err := tdb.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			// Ignore errors if table doesn't exist
			continue
		}
	}

	return nil
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
