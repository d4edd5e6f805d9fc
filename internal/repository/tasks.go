package repository

import (
	"context"
	"database/sql"

	"taskdeck/internal/database"
	"taskdeck/internal/models"
	"taskdeck/pkg/logger"
)

const taskColumns = `id, title, completed, due_date, priority, tag, created_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.DueDate, &t.Priority, &t.Tag, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByUser returns all tasks owned by the named user, newest first.
func ListByUser(ctx context.Context, user string) ([]models.Task, error) {
	db := database.DB(ctx)
	if db == nil {
		return nil, sql.ErrConnDone
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_name = $1 ORDER BY created_at DESC, id DESC`, user)
	if err != nil {
		logger.Error(ctx, "Repository list tasks failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Create inserts a task for the named user and returns the stored record
// with its assigned id and creation time.
func Create(ctx context.Context, user string, req models.CreateTaskRequest) (*models.Task, error) {
	db := database.DB(ctx)
	if db == nil {
		return nil, sql.ErrConnDone
	}
	row := db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_name, title, completed, due_date, priority, tag)
		 VALUES ($1, $2, FALSE, $3, $4, $5)
		 RETURNING `+taskColumns,
		user, req.Title, req.DueDate, req.Priority, req.Tag)
	t, err := scanTask(row)
	if err != nil {
		logger.Error(ctx, "Repository create task failed", "error", err)
		return nil, err
	}
	return t, nil
}

// Update applies a full update to the user's task and returns the stored
// record. sql.ErrNoRows means the task does not exist for this user.
func Update(ctx context.Context, user string, id int64, req models.UpdateTaskRequest) (*models.Task, error) {
	db := database.DB(ctx)
	if db == nil {
		return nil, sql.ErrConnDone
	}
	row := db.QueryRowContext(ctx,
		`UPDATE tasks SET title = $1, due_date = $2, priority = $3, tag = $4,
		        completed = COALESCE($5::boolean, completed)
		 WHERE id = $6 AND user_name = $7
		 RETURNING `+taskColumns,
		req.Title, req.DueDate, req.Priority, req.Tag, req.Completed, id, user)
	return scanTask(row)
}

// Toggle flips the completed flag of the user's task and returns the stored
// record. sql.ErrNoRows means the task does not exist for this user.
func Toggle(ctx context.Context, user string, id int64) (*models.Task, error) {
	db := database.DB(ctx)
	if db == nil {
		return nil, sql.ErrConnDone
	}
	row := db.QueryRowContext(ctx,
		`UPDATE tasks SET completed = NOT completed
		 WHERE id = $1 AND user_name = $2
		 RETURNING `+taskColumns,
		id, user)
	return scanTask(row)
}

// Delete removes the user's task. sql.ErrNoRows means nothing was deleted.
func Delete(ctx context.Context, user string, id int64) error {
	db := database.DB(ctx)
	if db == nil {
		return sql.ErrConnDone
	}
	res, err := db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_name = $2`, id, user)
	if err != nil {
		logger.Error(ctx, "Repository delete task failed", "error", err, "id", id)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
