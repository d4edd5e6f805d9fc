package repository

import (
	"context"
	"database/sql"

	"taskdeck/internal/database"
	"taskdeck/internal/models"
	"taskdeck/pkg/logger"
)

// EnsureUser creates the named user if absent and returns the stored
// record. Identification is idempotent: reusing a name returns the
// existing record.
func EnsureUser(ctx context.Context, name string) (*models.User, error) {
	db := database.DB(ctx)
	if db == nil {
		return nil, sql.ErrConnDone
	}
	var u models.User
	err := db.QueryRowContext(ctx,
		`INSERT INTO users (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING name, created_at`,
		name).Scan(&u.Name, &u.CreatedAt)
	if err != nil {
		logger.Error(ctx, "Repository ensure user failed", "error", err, "name", name)
		return nil, err
	}
	return &u, nil
}
