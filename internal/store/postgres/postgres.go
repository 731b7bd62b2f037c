package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

const connectAttempts = 5

// NewDB opens the CRM database and verifies connectivity. The ping retries
// because the database container may still be starting when the app boots.
func NewDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var pingErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingErr = db.Ping()
		if pingErr == nil {
			break
		}
		slog.Warn("database not ready, retrying", "attempt", attempt, "error", pingErr)
		time.Sleep(2 * time.Second)
	}
	if pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database after %d attempts: %w", connectAttempts, pingErr)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	return db, nil
}
