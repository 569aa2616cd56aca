package postgresql_test

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/database"
)

// TestDatabaseSetup wraps the integration test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL. ok is false when the
// variable is unset so callers can skip.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

// TruncateKV empties the kv_store table
func (t *TestDatabaseSetup) TruncateKV(ctx context.Context) error {
	_, err := t.DB.Exec(ctx, "TRUNCATE TABLE kv_store")
	if err != nil {
		return fmt.Errorf("failed to truncate table kv_store: %w", err)
	}
	return nil
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
