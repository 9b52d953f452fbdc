package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	"github.com/google/uuid"
)

// TaskDraft carries the client-supplied fields for a new task. Status and
// priority fall back to their defaults when empty; the owner is always
// taken from the authenticated principal, never from the draft.
type TaskDraft struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// TaskService provides ownership-scoped task operations. Every call takes
// the owner ID as its first argument and no call can cross that boundary.
type TaskService struct {
	db    *sql.DB
	repos repomanager.Manager
}

// NewTaskService constructs a TaskService over the given repositories.
func NewTaskService(db *sql.DB, m repomanager.Manager) *TaskService {
	return &TaskService{db: db, repos: m}
}

// List returns the owner's tasks, newest first, narrowed by the filter.
func (s *TaskService) List(ctx context.Context, ownerID string, filter tasks.Filter) ([]*models.Task, error) {
	result, err := s.repos.Tasks(s.db).List(ctx, ownerID, filter)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if result == nil {
		result = []*models.Task{}
	}
	return result, nil
}

// Create builds a task from the draft and persists it. Defaults are
// applied here, before persistence, so they hold regardless of what the
// storage layer would fill in.
func (s *TaskService) Create(ctx context.Context, ownerID string, draft TaskDraft) (*models.Task, error) {

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, common.NewValidationError("title", "title is required")
	}

	status := draft.Status
	if status == "" {
		status = models.StatusTodo
	}
	priority := draft.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: draft.Description,
		Status:      status,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repos.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return created, nil
}

// Update patches the task matched by ownerID and taskID. Only supplied
// fields change; the last-modified timestamp is always refreshed, even
// for an empty patch.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch tasks.Patch) (*models.Task, error) {

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, common.NewValidationError("title", "title must not be empty")
		}
		patch.Title = &title
	}

	patch.UpdatedAt = time.Now().UTC()

	task, err := s.repos.Tasks(s.db).Update(ctx, ownerID, taskID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return task, nil
}

// Delete removes the task matched by ownerID and taskID.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	err := s.repos.Tasks(s.db).Delete(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
