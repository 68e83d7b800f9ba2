package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/sofar/internal/shared"
)

// Open opens the SQLite database at path, applies pool settings and runs pending migrations.
func Open(path string, cfg shared.DatabaseConfig) (*sql.DB, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, cfg)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
