// Package tasks provides the PostgreSQL-backed task repository. Every
// query and mutation is predicated on the owning user ID, so a task is
// indistinguishable from a missing one for any other caller.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// PostgresRepository implements task storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the owner's tasks, newest first, restricted by the filter.
// FreeText matches the title only; the description is indexed but not
// searched here.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, filter Filter) ([]*models.Task, error) {

	query := `SELECT id, user_id, title, description, status, priority, created_at, updated_at FROM tasks
		 WHERE user_id = $1`
	args := []any{ownerID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filter.FreeText != "" {
		args = append(args, filter.FreeText)
		query += fmt.Sprintf(" AND title ILIKE '%%' || $%d || '%%'", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		var item models.Task
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Description,
			&item.Status, &item.Priority, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (id, user_id, title, description, status, priority, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description,
		task.Status, task.Priority, task.CreatedAt, task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// Update applies the non-nil patch fields to the task matched by both
// taskID and ownerID. A non-matching pair yields common.ErrorNotFound,
// whether the task is absent or owned by someone else.
func (r *PostgresRepository) Update(ctx context.Context, ownerID, taskID string, patch Patch) (*models.Task, error) {

	args := []any{patch.UpdatedAt}
	set := []string{"updated_at = $1"}

	if patch.Title != nil {
		args = append(args, *patch.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.Priority != nil {
		args = append(args, *patch.Priority)
		set = append(set, fmt.Sprintf("priority = $%d", len(args)))
	}

	args = append(args, taskID, ownerID)
	query := fmt.Sprintf(
		`UPDATE tasks SET %s
		 WHERE id = $%d AND user_id = $%d
		 RETURNING id, user_id, title, description, status, priority, created_at, updated_at
		 `, strings.Join(set, ", "), len(args)-1, len(args))

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Status, &task.Priority, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// Delete removes the task matched by both taskID and ownerID.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, taskID string) error {

	query :=
		`DELETE FROM tasks
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
