package storage

import (
	"database/sql"
	"fmt"

	"github.com/codythatsme/parted-euro-app/storage/db"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// NewTestDB creates an in-memory SQLite database with migrations
// applied, for tests.
func NewTestDB() (*sql.DB, *db.Queries, func(), error) {
	database, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open test database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(database, "migrations"); err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cleanup := func() {
		database.Close()
	}

	return database, db.New(database), cleanup, nil
}
